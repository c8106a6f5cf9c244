package llm

import (
	"context"
)

// Provider is the core abstraction for text generation.
// Every caller above this layer treats a returned error as a signal to
// substitute local fallback content; providers never retry.
type Provider interface {
	// Generate sends a prompt and returns the completed text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Streamer is implemented by providers that can deliver the response as a
// sequence of text chunks. onChunk is called once per chunk, in order.
type Streamer interface {
	Stream(ctx context.Context, req Request, onChunk func(chunk string)) (*Response, error)
}

// Request describes one generation call.
type Request struct {
	// Prompt is the full user prompt. Required.
	Prompt string `json:"prompt" validate:"required"`

	// System is an optional system prompt. Providers that do not support a
	// separate system role prepend it to the prompt.
	System string `json:"-"`

	// MaxNewTokens bounds the length of the completion.
	MaxNewTokens int `json:"max_new_tokens" validate:"gt=0,lte=2400"`

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64 `json:"temperature" validate:"gte=0,lte=1"`

	// TopP is the nucleus sampling cutoff. Range: (0, 1].
	TopP float64 `json:"top_p" validate:"gt=0,lte=1"`

	// Model overrides the provider's configured model when non-empty.
	Model string `json:"model,omitempty"`
}

// Default generation parameters, matching the backend's /generate defaults.
const (
	DefaultMaxNewTokens = 256
	DefaultTemperature  = 0.1
	DefaultTopP         = 0.9
)

// WithDefaults fills unset generation parameters.
func (r Request) WithDefaults() Request {
	if r.MaxNewTokens == 0 {
		r.MaxNewTokens = DefaultMaxNewTokens
	}
	if r.TopP == 0 {
		r.TopP = DefaultTopP
	}
	return r
}

// Response holds the generated text.
type Response struct {
	Text string

	// Usage reports token consumption when the backend exposes it.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "" when unknown.
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, req Request) (*Response, error)

func (f ProviderFunc) Generate(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

func (f ProviderFunc) ModelID() string { return "func" }

// Text is a convenience wrapper returning the trimmed completion text with
// any leading reasoning block removed.
func Text(ctx context.Context, p Provider, req Request) (string, error) {
	resp, err := p.Generate(ctx, req.WithDefaults())
	if err != nil {
		return "", err
	}
	return StripThinking(resp.Text), nil
}

// StreamText streams through p when it implements Streamer, otherwise it
// falls back to a single Generate call delivered as one chunk.
func StreamText(ctx context.Context, p Provider, req Request, onChunk func(string)) (*StreamResult, error) {
	req = req.WithDefaults()
	acc := &StreamResult{}
	emit := func(chunk string) {
		acc.append(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}

	if s, ok := p.(Streamer); ok {
		if _, err := s.Stream(ctx, req, emit); err != nil {
			return nil, err
		}
		return acc, nil
	}

	resp, err := p.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	emit(resp.Text)
	return acc, nil
}
