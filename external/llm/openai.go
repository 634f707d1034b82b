package llm

import (
	"context"
	"net/http"

	"github.com/foxseedlab/dailynotes/external/httpclient"
)

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  httpclient.Options
}

// OpenAIProvider calls the chat completions endpoint.
type OpenAIProvider struct {
	http  *httpclient.Client
	model string
}

func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	opts := cfg.Client
	opts.BaseURL = cfg.BaseURL
	opts.Header = http.Header{"Authorization": []string{"Bearer " + cfg.APIKey}}
	return &OpenAIProvider{http: httpclient.New(opts), model: cfg.Model}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (p *OpenAIProvider) Summarize(ctx context.Context, text, prompt string) (string, error) {
	var resp chatResponse
	err := p.http.DoJSON(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/chat/completions",
		JSON: chatRequest{
			Model: p.model,
			Messages: []chatMessage{
				{Role: "system", Content: prompt},
				{Role: "user", Content: text},
			},
		},
	}, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
