package nlp

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"

	"geosleuth/types"
)

// ProseExtractor runs named entity recognition in process.
type ProseExtractor struct {
	model *prose.Model
}

// NewProseExtractor loads a model from modelDir, or the bundled one when modelDir is empty.
// The model is built once here and shared by every call.
func NewProseExtractor(modelDir string) (*ProseExtractor, error) {
	if modelDir != "" {
		return &ProseExtractor{model: prose.ModelFromDisk(modelDir)}, nil
	}

	doc, err := prose.NewDocument("", prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("loading bundled prose model: %w", err)
	}
	return &ProseExtractor{model: doc.Model}, nil
}

func (p *ProseExtractor) Entities(ctx context.Context, text string) ([]types.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false), prose.UsingModel(p.model))
	if err != nil {
		return nil, fmt.Errorf("tagging document: %w", err)
	}

	entities := make([]types.Entity, 0, len(doc.Entities()))
	for _, e := range doc.Entities() {
		entities = append(entities, types.Entity{Name: e.Text, Type: e.Label})
	}
	return entities, nil
}

func (p *ProseExtractor) ExtractLocations(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}
	entities, err := p.Entities(ctx, text)
	if err != nil {
		return nil, err
	}
	return Locations(entities, "GPE", "LOC"), nil
}
