package nlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"geosleuth/types"
)

const locationPrompt = `List every geographic location (cities, regions, countries, landmarks, addresses) mentioned in the text below.
Answer with a JSON object of the form {"locations": ["..."]}, using the names exactly as written. Use an empty list when there are none.

Text:
%s`

// OpenAIExtractor asks a chat completion model for the locations in a text.
type OpenAIExtractor struct {
	client *openai.Client
	model  string
}

// NewOpenAIExtractor targets baseURL when set, which allows any OpenAI compatible server.
func NewOpenAIExtractor(apiKey, baseURL, model string) *OpenAIExtractor {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIExtractor{client: openai.NewClientWithConfig(cfg), model: model}
}

func (o *OpenAIExtractor) ExtractLocations(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	resp, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: o.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an assistant that extracts place names from text and answers only in JSON.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf(locationPrompt, text),
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0,
		},
	)
	if err != nil {
		return nil, classifyOpenAIError(fmt.Errorf("openai chat completion error: %w", err))
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, errors.New("openai returned empty response or choices")
	}

	var answer struct {
		Locations []string `json:"locations"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &answer); err != nil {
		return nil, fmt.Errorf("parsing openai answer: %w", err)
	}

	entities := make([]types.Entity, 0, len(answer.Locations))
	for _, l := range answer.Locations {
		entities = append(entities, types.Entity{Name: l, Type: "LOCATION"})
	}
	return Locations(entities, "LOCATION"), nil
}

func classifyOpenAIError(err error) error {
	var status int
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	default:
		return err
	}
	if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
