package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rlpro/rlpro/internal/store"
)

type recordingRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{Text: "hello", Usage: Usage{InputTokens: 3, OutputTokens: 2}})
	p := WithLogging(mock, repo, nil)

	ctx := WithPurpose(context.Background(), PurposeTutor)
	resp, err := p.Generate(ctx, Request{Prompt: "greet", MaxNewTokens: 64, Temperature: 0.1, TopP: 0.9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "hello" {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Purpose != PurposeTutor || !ev.Success || ev.ResponseBody != "hello" || ev.OutputTokens != 2 {
		t.Fatalf("unexpected event %+v", ev)
	}
	if !strings.Contains(ev.RequestBody, "greet") || !strings.Contains(ev.RequestBody, "max_new_tokens=64") {
		t.Fatalf("request body missing prompt or params: %q", ev.RequestBody)
	}
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{Err: &ErrServer{StatusCode: 503, Body: "busy"}})
	p := WithLogging(mock, repo, nil)

	_, err := p.Generate(context.Background(), Request{Prompt: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	ev := repo.events[0]
	if ev.Success || !strings.Contains(ev.ErrorMessage, "503") {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestLoggingProvider_RepoErrorDoesNotFailRequest(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockResponse{Text: "ok"}), repo, nil)

	if _, err := p.Generate(context.Background(), Request{Prompt: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoggingProvider_StreamForwardsChunks(t *testing.T) {
	repo := &recordingRepo{}
	p := WithLogging(NewMockProvider(MockResponse{Chunks: []string{"a", "b"}}), repo, nil)

	res, err := StreamText(context.Background(), p, Request{Prompt: "x"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Chunks() != 2 || res.Text() != "ab" {
		t.Fatalf("unexpected result %q/%d", res.Text(), res.Chunks())
	}
	if len(repo.events) != 1 || repo.events[0].ResponseBody != "ab" {
		t.Fatalf("unexpected events %+v", repo.events)
	}
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	p := WithLogging(NewMockProvider(MockResponse{Text: "ok"}), nil, nil)
	if _, err := p.Generate(context.Background(), Request{Prompt: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
