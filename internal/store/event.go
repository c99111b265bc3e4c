package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequenceCounter hands out the sequence number shared by the LLM request
// and generation event tables. A generation's provider calls are the LLM
// events between the previous generation's sequence and its own, which
// per-table IDs cannot tell.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

const (
	sequenceTable = `CREATE TABLE IF NOT EXISTS global_sequence (
		id       INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`
	sequenceSeed = `INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`
	sequenceNext = `UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`
)

// Next returns the next sequence number. RETURNING makes the increment
// atomic in the database; the mutex keeps callers in this process in order.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var n int64
	if err := sc.db.QueryRowContext(ctx, sequenceNext).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return n, nil
}
