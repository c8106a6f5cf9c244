package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var sessionEventColumns = []string{
	"id", "sequence", "timestamp", "session_id", "action", "phase", "progress", "detail",
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	detail := []byte("{}")
	if len(data.Detail) > 0 {
		detail, err = json.Marshal(data.Detail)
		if err != nil {
			return fmt.Errorf("marshal session detail: %w", err)
		}
	}

	query, args := builder().Insert("session_events").
		Columns(sessionEventColumns[1:]...).
		Values(
			seqNum,
			time.Now().UnixMilli(),
			data.SessionID,
			data.Action,
			data.Phase,
			data.Progress,
			string(detail),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEventRecord, error) {
	b := builder()
	sel := b.Select(sessionEventColumns...).
		From(b.Table("session_events")).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts)
	if opts.SessionID != "" {
		sel.Where(entsql.EQ("session_id", opts.SessionID))
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var records []SessionEventRecord
	for rows.Next() {
		var rec SessionEventRecord
		var ts int64
		var detail string
		if err := rows.Scan(
			&rec.ID,
			&rec.Sequence,
			&ts,
			&rec.SessionID,
			&rec.Action,
			&rec.Phase,
			&rec.Progress,
			&detail,
		); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		if detail != "" && detail != "{}" {
			if err := json.Unmarshal([]byte(detail), &rec.Detail); err != nil {
				return nil, fmt.Errorf("decode session detail: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummary, error) {
	b := builder()
	sel := b.Select(
		"session_id",
		entsql.As(entsql.Min("timestamp"), "started"),
		entsql.As(entsql.Max("timestamp"), "last_seen"),
		entsql.As(entsql.Count("*"), "events"),
		entsql.As(entsql.Max("sequence"), "last_seq"),
	).
		From(b.Table("session_events")).
		GroupBy("session_id").
		OrderBy(entsql.Desc("last_seq"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}

	var out []SessionSummary
	var lastSeqs []int64
	for rows.Next() {
		var s SessionSummary
		var started, lastSeen, lastSeq int64
		if err := rows.Scan(&s.SessionID, &started, &lastSeen, &s.Events, &lastSeq); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		s.Started = time.UnixMilli(started)
		s.LastSeen = time.UnixMilli(lastSeen)
		out = append(out, s)
		lastSeqs = append(lastSeqs, lastSeq)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Fill in the phase and progress of each session's latest event.
	for i, seq := range lastSeqs {
		q, args := b.Select("phase", "progress").
			From(b.Table("session_events")).
			Where(entsql.EQ("sequence", seq)).
			Query()
		if err := r.db.QueryRowContext(ctx, q, args...).Scan(&out[i].LastPhase, &out[i].Progress); err != nil {
			return nil, fmt.Errorf("query last phase: %w", err)
		}
	}
	return out, nil
}
