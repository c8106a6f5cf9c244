package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPProvider calls the rlpro backend's POST /generate endpoint.
// The body is {prompt, max_new_tokens, temperature, top_p, model} and the
// reply is {text}.
type HTTPProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewHTTPProvider creates a provider for the backend at cfg.BaseURL.
func NewHTTPProvider(cfg HTTPConfig, timeout time.Duration) (*HTTPProvider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("http provider base URL is required")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &HTTPProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type generateBody struct {
	Prompt       string  `json:"prompt"`
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
	TopP         float64 `json:"top_p"`
	Model        string  `json:"model,omitempty"`
}

type generateReply struct {
	Text string `json:"text"`
}

func (p *HTTPProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	req = req.WithDefaults()
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = p.model
	}

	prompt := req.Prompt
	if req.System != "" {
		prompt = req.System + "\n" + prompt
	}

	payload, err := json.Marshal(generateBody{
		Prompt:       prompt,
		MaxNewTokens: req.MaxNewTokens,
		Temperature:  req.Temperature,
		TopP:         req.TopP,
		Model:        model,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ErrServer{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out generateReply
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &ErrInvalidResponse{Content: body, Err: err}
	}

	return &Response{
		Text:       out.Text,
		Model:      model,
		StopReason: "end",
	}, nil
}

func (p *HTTPProvider) ModelID() string {
	return p.model
}
