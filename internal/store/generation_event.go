package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const generationEventsTable = "generation_events"

var generationEventColumns = []string{
	"id", "sequence", "created_at", "request_id", "session_id", "action",
	"concept", "attempts", "repair_calls", "stage", "provider", "outcome",
	"accepted", "error_message", "latency_ms",
}

func (r *eventRepo) AppendGeneration(ctx context.Context, data GenerationEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(generationEventsTable).
		Columns(generationEventColumns[1:]...).
		Values(
			seqNum,
			time.Now().UnixMilli(),
			data.RequestID,
			data.SessionID,
			data.Action,
			data.Concept,
			data.Attempts,
			data.RepairCalls,
			data.Stage,
			data.Provider,
			data.Outcome,
			data.Accepted,
			data.ErrorMessage,
			data.LatencyMs,
		).Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save generation event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryGenerations(ctx context.Context, opts QueryOpts) ([]GenerationEventRecord, error) {
	sel := builder().Select(generationEventColumns...).
		From(builder().Table(generationEventsTable)).
		OrderBy(entsql.Desc("sequence"))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query generation events: %w", err)
	}
	defer rows.Close()

	var out []GenerationEventRecord
	for rows.Next() {
		var rec GenerationEventRecord
		var created int64
		err := rows.Scan(
			&rec.ID,
			&rec.Sequence,
			&created,
			&rec.RequestID,
			&rec.SessionID,
			&rec.Action,
			&rec.Concept,
			&rec.Attempts,
			&rec.RepairCalls,
			&rec.Stage,
			&rec.Provider,
			&rec.Outcome,
			&rec.Accepted,
			&rec.ErrorMessage,
			&rec.LatencyMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan generation event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(created).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) GenerationStatsByAction(ctx context.Context) ([]GenerationStats, error) {
	query, args := builder().Select(
		"action",
		entsql.As(entsql.Count("*"), "total"),
		entsql.As(entsql.Sum("accepted"), "accepted"),
		entsql.As(entsql.Avg("attempts"), "avg_attempts"),
		entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
	).
		From(builder().Table(generationEventsTable)).
		GroupBy("action").
		OrderBy("action").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query generation stats: %w", err)
	}
	defer rows.Close()

	var out []GenerationStats
	for rows.Next() {
		var st GenerationStats
		var avgLatency float64
		if err := rows.Scan(&st.Action, &st.Total, &st.Accepted, &st.AvgAttempts, &avgLatency); err != nil {
			return nil, fmt.Errorf("scan generation stats: %w", err)
		}
		st.AvgLatencyMs = int64(avgLatency)
		out = append(out, st)
	}
	return out, rows.Err()
}
