package nlp

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	language "cloud.google.com/go/language/apiv2"
	"cloud.google.com/go/language/apiv2/languagepb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"geosleuth/types"
)

// GoogleExtractor uses the Cloud Natural Language API.
type GoogleExtractor struct {
	client *language.Client
}

// NewGoogleExtractor creates the language client from base64 encoded service account JSON.
// Empty credentials fall back to Application Default Credentials.
func NewGoogleExtractor(ctx context.Context, encodedCreds string) (*GoogleExtractor, error) {
	var opts []option.ClientOption
	if encodedCreds != "" {
		creds, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			return nil, fmt.Errorf("decoding natural language credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	client, err := language.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating natural language client: %w", err)
	}
	return &GoogleExtractor{client: client}, nil
}

// AnalyzeEntities sends text to the Cloud Natural Language API and returns every entity found.
func (g *GoogleExtractor) AnalyzeEntities(ctx context.Context, text string) ([]types.Entity, error) {
	req := &languagepb.AnalyzeEntitiesRequest{
		Document: &languagepb.Document{
			Source: &languagepb.Document_Content{
				Content: text,
			},
			Type: languagepb.Document_PLAIN_TEXT,
		},
		EncodingType: languagepb.EncodingType_UTF8,
	}

	resp, err := g.client.AnalyzeEntities(ctx, req)
	if err != nil {
		return nil, classifyRPCError(fmt.Errorf("AnalyzeEntities: %w", err))
	}

	entities := make([]types.Entity, 0, len(resp.Entities))
	for _, e := range resp.Entities {
		entities = append(entities, types.Entity{
			Name:     e.Name,
			Type:     e.Type.String(),
			Metadata: e.Metadata,
		})
	}
	return entities, nil
}

func (g *GoogleExtractor) ExtractLocations(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}
	entities, err := g.AnalyzeEntities(ctx, text)
	if err != nil {
		return nil, err
	}
	return Locations(entities, "LOCATION", "ADDRESS"), nil
}

func (g *GoogleExtractor) Close() error {
	return g.client.Close()
}

func classifyRPCError(err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
