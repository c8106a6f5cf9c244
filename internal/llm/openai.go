package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// openaiModels maps friendly names to OpenAI model IDs.
var openaiModels = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
}

// OpenAIProvider implements Provider and Streamer using the OpenAI SDK.
// It also serves DashScope, OpenRouter and other compatible APIs via BaseURL.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  resolveModel(cfg.Model, openaiModels),
	}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	req = req.WithDefaults()
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	resp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(req))
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{
			Err: fmt.Errorf("no choices in OpenAI response"),
		}
	}

	return &Response{
		Text: resp.Choices[0].Message.Content,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Model:      resp.Model,
		StopReason: mapOpenAIStopReason(resp.Choices[0].FinishReason),
	}, nil
}

// Stream delivers completion deltas to onChunk as they arrive.
func (p *OpenAIProvider) Stream(ctx context.Context, req Request, onChunk func(string)) (*Response, error) {
	req = req.WithDefaults()
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	chatReq := p.buildRequest(req)
	chatReq.Stream = true

	stream, err := p.client.CreateChatCompletionStream(ctx, chatReq)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	defer stream.Close()

	out := &Response{Model: chatReq.Model, StopReason: "end"}
	var full []byte
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, mapOpenAIError(err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta != "" {
			full = append(full, delta...)
			onChunk(delta)
		}
		if chunk.Choices[0].FinishReason != "" {
			out.StopReason = mapOpenAIStopReason(chunk.Choices[0].FinishReason)
		}
	}
	out.Text = string(full)
	return out, nil
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

func (p *OpenAIProvider) buildRequest(req Request) openai.ChatCompletionRequest {
	model := p.model
	if req.Model != "" {
		model = resolveModel(req.Model, openaiModels)
	}
	return openai.ChatCompletionRequest{
		Model:               model,
		Messages:            buildOpenAIMessages(req),
		MaxCompletionTokens: req.MaxNewTokens,
		Temperature:         float32(req.Temperature),
		TopP:                float32(req.TopP),
	}
}

func buildOpenAIMessages(req Request) []openai.ChatCompletionMessage {
	system := req.System
	if system == "" {
		system = "You are a helpful assistant."
	}
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
	}
}

func mapOpenAIStopReason(reason openai.FinishReason) string {
	switch reason {
	case openai.FinishReasonLength:
		return "max_tokens"
	default:
		return "end"
	}
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.HTTPStatusCode > 0:
			return &ErrServer{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &ErrServer{StatusCode: reqErr.HTTPStatusCode, Body: string(reqErr.Body)}
	}
	return &ErrProviderUnavailable{Err: err}
}
