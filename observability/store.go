// CLAUDE:SUMMARY Async batched SQLite store for extraction audit entries.
// Package observability persists one audit entry per extraction operation.
//
// The store is a structured log sink, not application state: writes are
// queued on a bounded channel and flushed in batches, and a full buffer
// drops entries rather than blocking the pipeline.
package observability

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Schema for the extraction_log table. Passed to dbopen.WithSchema or
// applied via Store.Init.
const Schema = `
CREATE TABLE IF NOT EXISTS extraction_log (
	entry_id TEXT PRIMARY KEY,
	timestamp INTEGER NOT NULL,
	operation TEXT NOT NULL,
	path TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT,
	duration_ms INTEGER NOT NULL,
	page_count INTEGER,
	char_count INTEGER
);
CREATE INDEX IF NOT EXISTS idx_extraction_log_ts ON extraction_log(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_extraction_log_op ON extraction_log(operation, timestamp DESC);
`

// Entry is a single extraction operation record.
type Entry struct {
	EntryID      string    `json:"entry_id"`
	Timestamp    time.Time `json:"timestamp"`
	Operation    string    `json:"operation"` // "extract_text", "extract_pages", "extract_metadata"
	Path         string    `json:"path"`
	Status       string    `json:"status"` // "success" or "error"
	ErrorMessage string    `json:"error_message,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
	PageCount    int       `json:"page_count"`
	CharCount    int       `json:"char_count"`
}

// NewEntry builds an Entry from an operation outcome.
func NewEntry(operation, path string, err error, duration time.Duration) *Entry {
	e := &Entry{
		EntryID:    "ext_" + uuid.NewString(),
		Timestamp:  time.Now(),
		Operation:  operation,
		Path:       path,
		Status:     "success",
		DurationMs: duration.Milliseconds(),
	}
	if err != nil {
		e.Status = "error"
		e.ErrorMessage = err.Error()
	}
	return e
}

// Filter controls Query results.
type Filter struct {
	Operation string
	Status    string
	Limit     int // default 100
}

// Store persists extraction log entries asynchronously.
type Store struct {
	db   *sql.DB
	ch   chan *Entry
	done chan struct{}
	once sync.Once
}

// NewStore creates a store backed by db and starts its flush loop.
func NewStore(db *sql.DB) *Store {
	s := &Store{
		db:   db,
		ch:   make(chan *Entry, 1024),
		done: make(chan struct{}),
	}
	go s.flushLoop()
	return s
}

// Init creates the extraction_log table if it doesn't exist.
func (s *Store) Init() error {
	_, err := s.db.Exec(Schema)
	return err
}

// RecordAsync queues an entry for persistence. Non-blocking; drops the
// entry if the buffer is full so a slow disk never backs up extraction.
func (s *Store) RecordAsync(e *Entry) {
	select {
	case s.ch <- e:
	default:
		slog.Warn("extraction log buffer full, entry dropped", "operation", e.Operation)
	}
}

// Record inserts an entry synchronously.
func (s *Store) Record(ctx context.Context, e *Entry) error {
	return s.insert(ctx, e)
}

// Query returns entries matching the filter, newest first.
func (s *Store) Query(ctx context.Context, f Filter) ([]*Entry, error) {
	q := `SELECT entry_id, timestamp, operation, path, status,
		COALESCE(error_message, ''), duration_ms,
		COALESCE(page_count, 0), COALESCE(char_count, 0)
		FROM extraction_log WHERE 1=1`
	var args []any

	if f.Operation != "" {
		q += " AND operation = ?"
		args = append(args, f.Operation)
	}
	if f.Status != "" {
		q += " AND status = ?"
		args = append(args, f.Status)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	q += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query extraction log: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var ts int64
		var errMsg string
		if err := rows.Scan(&e.EntryID, &ts, &e.Operation, &e.Path, &e.Status,
			&errMsg, &e.DurationMs, &e.PageCount, &e.CharCount); err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(0, ts)
		e.ErrorMessage = errMsg
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Cleanup deletes entries older than the retention window. Zero days means
// no cleanup.
func (s *Store) Cleanup(ctx context.Context, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays).UnixNano()
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM extraction_log WHERE timestamp < ?`, cutoff); err != nil {
		return fmt.Errorf("cleanup extraction log: %w", err)
	}
	return nil
}

// Close drains the buffer and stops the flush goroutine. The underlying
// database stays open; the caller owns it.
func (s *Store) Close() error {
	s.once.Do(func() {
		close(s.ch)
		<-s.done
	})
	return nil
}

func (s *Store) flushLoop() {
	defer close(s.done)

	batch := make([]*Entry, 0, 64)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-s.ch:
			if !ok {
				s.flushBatch(batch)
				return
			}
			batch = append(batch, e)
			if len(batch) >= 64 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *Store) flushBatch(batch []*Entry) {
	if len(batch) == 0 {
		return
	}

	tx, err := s.db.Begin()
	if err != nil {
		slog.Error("extraction log: begin tx", "error", err)
		return
	}

	stmt, err := tx.Prepare(`INSERT INTO extraction_log
		(entry_id, timestamp, operation, path, status, error_message, duration_ms, page_count, char_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		slog.Error("extraction log: prepare", "error", err)
		return
	}
	defer stmt.Close()

	for _, e := range batch {
		if _, err := stmt.Exec(e.EntryID, e.Timestamp.UnixNano(), e.Operation, e.Path,
			e.Status, nullable(e.ErrorMessage), e.DurationMs, e.PageCount, e.CharCount); err != nil {
			slog.Error("extraction log: insert", "error", err)
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("extraction log: commit", "error", err)
	}
}

func (s *Store) insert(ctx context.Context, e *Entry) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO extraction_log
		(entry_id, timestamp, operation, path, status, error_message, duration_ms, page_count, char_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.EntryID, e.Timestamp.UnixNano(), e.Operation, e.Path,
		e.Status, nullable(e.ErrorMessage), e.DurationMs, e.PageCount, e.CharCount)
	if err != nil {
		return fmt.Errorf("insert extraction log: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
