// Package genai looks the cigars up with Google's Gemini models.
package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"humidor/lookup"
	"humidor/transform/dimension"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// generator is implemented by *genai.Models.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client the lookup provider backed by the Gemini API.
type Client struct {
	gen   generator
	model string
}

// NewClient creates the client to the Gemini API.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("GenAI API key is required")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newClient(c.Models, model), nil
}

func newClient(gen generator, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{gen: gen, model: model}
}

func (c *Client) Lookup(ctx context.Context, brand, name string) (lookup.Attributes, error) {
	var o lookup.Attributes
	contents := []*genai.Content{
		genai.NewContentFromText(prompt(brand, name), genai.RoleUser),
	}
	resp, err := c.gen.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema(),
	})
	if err != nil {
		return o, fmt.Errorf("GenAI generation failed: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return o, errors.New("GenAI returned no content")
	}
	var v struct {
		lookup.Attributes
		Known *bool `json:"known"`
	}
	if err = json.Unmarshal([]byte(text), &v); err != nil {
		return o, fmt.Errorf("could not decode the GenAI answer: %w", err)
	}
	if v.Known != nil && !*v.Known {
		return o, fmt.Errorf("%w: %s %s", lookup.ErrNotFound, brand, name)
	}
	return v.Attributes, nil
}

func prompt(brand, name string) string {
	return fmt.Sprintf(`You are a cigar expert. Describe the cigar "%s %s" by brand %q.
Pick every attribute from the listed values only. Set "known" to false when you do not know the cigar.
Vitola: %s.
Wrapper: %s.
Origin: %s.
Strength: %s.
Description: two sentences on the flavour profile and construction.`,
		brand, name, brand,
		strings.Join(dimension.Vitolas(), ", "),
		strings.Join(dimension.Wrappers(), ", "),
		strings.Join(dimension.Origins(), ", "),
		strings.Join(dimension.Strengths(), ", "),
	)
}

func schema() *genai.Schema {
	enum := func(values []string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Enum: values}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"known":       {Type: genai.TypeBoolean},
			"vitola":      enum(dimension.Vitolas()),
			"wrapper":     enum(dimension.Wrappers()),
			"origin":      enum(dimension.Origins()),
			"strength":    enum(dimension.Strengths()),
			"description": {Type: genai.TypeString},
		},
		Required: []string{"known", "vitola", "wrapper", "origin", "strength", "description"},
	}
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			sb.WriteString(p.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}
