package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rlpro/rlpro/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an event
// and mirrors it to slog.
type LoggingProvider struct {
	inner     Provider
	eventRepo store.EventRepo
	logger    *slog.Logger
}

// WithLogging wraps a Provider with event logging. repo may be nil, in which
// case calls are only logged through slog.
func WithLogging(p Provider, repo store.EventRepo, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingProvider{inner: p, eventRepo: repo, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	l.record(ctx, req, resp, err, time.Since(start))
	return resp, err
}

// Stream forwards to the inner provider when it streams, and degrades to a
// single-chunk Generate otherwise.
func (l *LoggingProvider) Stream(ctx context.Context, req Request, onChunk func(string)) (*Response, error) {
	start := time.Now()

	var resp *Response
	var err error
	if s, ok := l.inner.(Streamer); ok {
		resp, err = s.Stream(ctx, req, onChunk)
	} else {
		resp, err = l.inner.Generate(ctx, req)
		if err == nil {
			onChunk(resp.Text)
		}
	}

	l.record(ctx, req, resp, err, time.Since(start))
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) record(ctx context.Context, req Request, resp *Response, err error, latency time.Duration) {
	purpose := PurposeFrom(ctx)

	data := store.LLMRequestEventData{
		Provider:    l.inner.ModelID(),
		Model:       req.Model,
		Purpose:     purpose,
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if data.Model == "" {
		data.Model = l.inner.ModelID()
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = resp.Text
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		l.logger.Warn("llm request failed",
			"purpose", purpose,
			"model", data.Model,
			"latency_ms", data.LatencyMs,
			"err", err,
		)
	} else {
		l.logger.Debug("llm request",
			"purpose", purpose,
			"model", data.Model,
			"latency_ms", data.LatencyMs,
			"out_tokens", data.OutputTokens,
		)
	}

	if l.eventRepo == nil {
		return
	}
	// A failed write must not fail the request.
	if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
		l.logger.Warn("failed to log LLM request event", "err", logErr)
	}
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[params] max_new_tokens=%d temperature=%.2f top_p=%.2f", req.MaxNewTokens, req.Temperature, req.TopP)
	if req.Model != "" {
		fmt.Fprintf(&b, " model=%s", req.Model)
	}
	b.WriteString("\n\n")

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	b.WriteString("[prompt]\n")
	b.WriteString(req.Prompt)
	b.WriteString("\n")

	return b.String()
}
