package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not checked here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"llm_request_events", "session_events", "preferences", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestLLMEvents_AppendQueryGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "http", Model: "qwen2.5-1.5b-cpu", Purpose: "tutor", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true, RequestBody: "prompt one", ResponseBody: "reply one"},
		{Provider: "http", Model: "qwen2.5-1.5b-cpu", Purpose: "coach", LatencyMs: 300, Success: false, ErrorMessage: "server error (500)"},
		{Provider: "http", Model: "qwen2.5-1.5b-cpu", Purpose: "tutor", InputTokens: 20, OutputTokens: 7, LatencyMs: 200, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Sequence < all[1].Sequence {
		t.Errorf("events not newest first: %d before %d", all[0].Sequence, all[1].Sequence)
	}

	tutor, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "tutor", Limit: 1})
	if err != nil {
		t.Fatalf("query purpose: %v", err)
	}
	if len(tutor) != 1 || tutor[0].InputTokens != 20 {
		t.Fatalf("purpose filter returned %+v", tutor)
	}

	oldest := all[len(all)-1]
	got, err := repo.GetLLMEvent(ctx, oldest.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected event")
	}
	if got.RequestBody != "prompt one" || got.ResponseBody != "reply one" {
		t.Errorf("bodies = %q / %q", got.RequestBody, got.ResponseBody)
	}
	if time.Since(got.Timestamp) > time.Minute {
		t.Errorf("timestamp %v too old", got.Timestamp)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing event")
	}
}

func TestLLMUsageByPurpose(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Purpose: "tutor", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true},
		{Purpose: "tutor", InputTokens: 30, OutputTokens: 15, LatencyMs: 300, Success: true},
		{Purpose: "translate", LatencyMs: 50, Success: false},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	usage, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("got %d purposes, want 2", len(usage))
	}

	// Ordered by purpose name.
	tr, tu := usage[0], usage[1]
	if tr.Purpose != "translate" || tr.Calls != 1 || tr.Failures != 1 {
		t.Errorf("translate usage = %+v", tr)
	}
	if tu.Purpose != "tutor" || tu.Calls != 2 || tu.InputTokens != 40 || tu.OutputTokens != 20 {
		t.Errorf("tutor usage = %+v", tu)
	}
	if tu.AvgLatencyMs != 200 {
		t.Errorf("tutor avg latency = %d, want 200", tu.AvgLatencyMs)
	}
}

func TestSessionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appendEv := func(id, action, phase string, progress int, detail map[string]any) {
		t.Helper()
		err := repo.AppendSessionEvent(ctx, SessionEventData{
			SessionID: id, Action: action, Phase: phase, Progress: progress, Detail: detail,
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	appendEv("a", "start", "learn", 0, nil)
	appendEv("a", "reflect", "learn", 20, nil)
	appendEv("b", "start", "learn", 0, nil)
	appendEv("a", "submit", "test", 66, map[string]any{"correct": false})

	evs, err := repo.QuerySessionEvents(ctx, QueryOpts{SessionID: "a"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(evs) != 3 {
		t.Fatalf("got %d events, want 3", len(evs))
	}
	if evs[0].Action != "submit" {
		t.Errorf("newest action = %q, want submit", evs[0].Action)
	}
	if evs[0].Detail["correct"] != false {
		t.Errorf("detail = %v", evs[0].Detail)
	}
	if evs[1].Detail != nil {
		t.Errorf("empty detail decoded as %v", evs[1].Detail)
	}

	sums, err := repo.QuerySessionSummaries(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("got %d summaries, want 2", len(sums))
	}
	if sums[0].SessionID != "a" || sums[0].Events != 3 || sums[0].LastPhase != "test" || sums[0].Progress != 66 {
		t.Errorf("summary a = %+v", sums[0])
	}
	if sums[1].SessionID != "b" || sums[1].LastPhase != "learn" {
		t.Errorf("summary b = %+v", sums[1])
	}
}

func TestPreferences(t *testing.T) {
	s := openTestStore(t)
	repo := s.PreferenceRepo()
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, PrefLanguage)
	if err != nil {
		t.Fatalf("get empty: %v", err)
	}
	if ok {
		t.Fatal("expected no stored language")
	}

	if err := repo.Set(ctx, PrefLanguage, "Chinese"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, PrefLanguage, "Japanese"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := repo.Set(ctx, PrefModel, "qwen3-4b-cpu"); err != nil {
		t.Fatalf("set model: %v", err)
	}

	v, ok, err := repo.Get(ctx, PrefLanguage)
	if err != nil || !ok || v != "Japanese" {
		t.Fatalf("get = %q, %v, %v", v, ok, err)
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 || all[PrefModel] != "qwen3-4b-cpu" {
		t.Errorf("all = %v", all)
	}
}
