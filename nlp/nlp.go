package nlp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"geosleuth/config"
	"geosleuth/types"
)

// ErrUnavailable marks backend failures that are worth retrying later.
var ErrUnavailable = errors.New("entity extraction backend unavailable")

// Extractor finds place names in free text.
type Extractor interface {
	ExtractLocations(ctx context.Context, text string) ([]string, error)
}

// New builds the extractor selected by cfg.NERProvider.
func New(ctx context.Context, cfg *config.Config) (Extractor, error) {
	switch cfg.NERProvider {
	case config.NERProse:
		return NewProseExtractor(cfg.ProseModelDir)
	case config.NERGoogle:
		return NewGoogleExtractor(ctx, cfg.NaturalLanguageCredentials)
	case config.NEROpenAI:
		return NewOpenAIExtractor(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unknown NER provider %q", cfg.NERProvider)
	}
}

// Locations keeps the names of entities whose type is one of labels, without duplicates.
// The result is never nil so it encodes as a JSON array.
func Locations(entities []types.Entity, labels ...string) []string {
	keep := make(map[string]bool, len(labels))
	for _, l := range labels {
		keep[l] = true
	}

	seen := make(map[string]bool)
	locations := []string{}
	for _, e := range entities {
		name := strings.TrimSpace(e.Name)
		if name == "" || !keep[e.Type] || seen[name] {
			continue
		}
		seen[name] = true
		locations = append(locations, name)
	}
	return locations
}
