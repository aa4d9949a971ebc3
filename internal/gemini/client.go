package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"audio-schema-go/internal/types"
)

// Client adapts the Gemini Files and content-generation APIs to the
// pipeline's service interface. One Client is scoped to one extraction run;
// there is no process-wide instance.
type Client struct {
	genai *genai.Client
}

func New(ctx context.Context, apiKey string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{genai: c}, nil
}

func (c *Client) UploadFile(ctx context.Context, path string) (*types.Asset, error) {
	f, err := c.genai.Files.UploadFromPath(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return toAsset(f), nil
}

func (c *Client) GetFile(ctx context.Context, name string) (*types.Asset, error) {
	f, err := c.genai.Files.Get(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	return toAsset(f), nil
}

// GenerateContent sends one user turn: the instruction text followed by a
// reference to the uploaded audio file.
func (c *Client) GenerateContent(ctx context.Context, model, prompt string, asset *types.Asset) (*types.Response, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromURI(asset.URI, asset.MIMEType),
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	resp, err := c.genai.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return nil, err
	}
	return toResponse(resp), nil
}

func toAsset(f *genai.File) *types.Asset {
	return &types.Asset{
		Name:     f.Name,
		URI:      f.URI,
		MIMEType: f.MIMEType,
		State:    types.AssetState(f.State),
	}
}

func toResponse(resp *genai.GenerateContentResponse) *types.Response {
	out := &types.Response{}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		c := types.Candidate{}
		for _, part := range cand.Content.Parts {
			c.Parts = append(c.Parts, types.Part{Text: part.Text})
		}
		out.Candidates = append(out.Candidates, c)
	}

	if u := resp.UsageMetadata; u != nil {
		out.Usage = types.Usage{
			InputTokens:  u.PromptTokenCount,
			OutputTokens: u.CandidatesTokenCount,
		}
	}

	return out
}
