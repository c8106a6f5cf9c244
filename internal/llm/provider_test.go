package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "first", Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Text: "second"},
	)

	resp1, err := mock.Generate(context.Background(), Request{Prompt: "one"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Text != "first" {
		t.Fatalf("expected 'first', got %q", resp1.Text)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Prompt: "two"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp2.Text != "second" {
		t.Fatalf("expected 'second', got %q", resp2.Text)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "{}"})

	_, _ = mock.Generate(context.Background(), Request{System: "sys", Prompt: "hello"})

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrServer{StatusCode: 500, Body: "boom"}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	var srv *ErrServer
	if !errors.As(err, &srv) {
		t.Fatalf("expected ErrServer, got: %T", err)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestText_AppliesDefaultsAndTrims(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "\n  Think about it.  \n"})

	got, err := Text(context.Background(), mock, Request{Prompt: "x", Temperature: 0.35})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Think about it." {
		t.Fatalf("unexpected text %q", got)
	}
	call := mock.Calls[0]
	if call.MaxNewTokens != DefaultMaxNewTokens || call.TopP != DefaultTopP || call.Temperature != 0.35 {
		t.Fatalf("defaults not applied: %+v", call)
	}
}

func TestStreamText(t *testing.T) {
	t.Run("uses Streamer", func(t *testing.T) {
		mock := NewMockProvider(MockResponse{Chunks: []string{"a", "b", "c"}})
		var seen []string
		res, err := StreamText(context.Background(), mock, Request{Prompt: "x"}, func(c string) {
			seen = append(seen, c)
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Text() != "abc" || res.Chunks() != 3 || len(seen) != 3 {
			t.Fatalf("unexpected stream result %q/%d/%v", res.Text(), res.Chunks(), seen)
		}
	})

	t.Run("falls back to Generate", func(t *testing.T) {
		p := ProviderFunc(func(ctx context.Context, req Request) (*Response, error) {
			return &Response{Text: strings.ToUpper(req.Prompt)}, nil
		})
		res, err := StreamText(context.Background(), p, Request{Prompt: "xyz"}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Text() != "XYZ" || res.Chunks() != 1 {
			t.Fatalf("unexpected stream result %q/%d", res.Text(), res.Chunks())
		}
	})

	t.Run("propagates errors", func(t *testing.T) {
		mock := NewMockProvider(MockResponse{Err: &ErrServer{StatusCode: 502}})
		if _, err := StreamText(context.Background(), mock, Request{Prompt: "x"}, nil); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, PurposeRemediation)
	if p := PurposeFrom(ctx); p != PurposeRemediation {
		t.Fatalf("expected %q, got %q", PurposeRemediation, p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "default http config",
			cfg:     DefaultConfig(),
			wantErr: false,
		},
		{
			name:    "http without endpoint",
			cfg:     Config{Provider: "http"},
			wantErr: true,
		},
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openrouter without key",
			cfg:     Config{Provider: "openrouter"},
			wantErr: true,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeModel(t *testing.T) {
	if got := NormalizeModel("qwen3-8b-npu"); got != "qwen3-8b-npu" {
		t.Fatalf("expected preset to pass through, got %q", got)
	}
	if got := NormalizeModel("gpt-17"); got != DefaultModel {
		t.Fatalf("expected default for unknown model, got %q", got)
	}
}

func TestValidateRequest_NamesJSONFields(t *testing.T) {
	err := ValidateRequest(Request{Prompt: "x", MaxNewTokens: 3000, TopP: 0.9})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "max_new_tokens") {
		t.Fatalf("expected json field name in error, got %q", err)
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*MockProvider); !ok {
		t.Fatalf("expected *MockProvider, got %T", p)
	}

	cfg := DefaultConfig()
	p, err = NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*LoggingProvider); !ok {
		t.Fatalf("expected logging wrapper, got %T", p)
	}
	if p.ModelID() != DefaultModel {
		t.Fatalf("expected %q, got %q", DefaultModel, p.ModelID())
	}

	if _, err := NewProvider(context.Background(), Config{Provider: "openai"}, nil, nil); err == nil {
		t.Fatal("expected error for openai without key")
	}
}
