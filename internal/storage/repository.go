package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// JournalEntry is one row of the expense change journal: what changed,
// the expense fields at the time of the change, and when the worker
// recorded it.
type JournalEntry struct {
	ID         int64
	Op         string
	ExpenseID  string
	Amount     float64
	Currency   string
	Category   string
	DateISO    string
	Note       string
	RecordedAt time.Time
}

// MonthSpending is a journal aggregate: the sum of added amounts per
// YYYY-MM key, in the amounts' original currencies mixed together. It
// feeds the worker's periodic report logging, not the user-facing
// summary (that one is computed by the core from live state).
type MonthSpending struct {
	Month string
	Total float64
}

// JournalRepository persists the change journal in SQLite.
type JournalRepository struct {
	db *sql.DB
}

func NewJournalRepository(dbPath string) (*JournalRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &JournalRepository{db: db}, nil
}

func (r *JournalRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// RecordChange appends one change event to the journal.
func (r *JournalRepository) RecordChange(ctx context.Context, e JournalEntry) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expense_journal (op, expense_id, amount, currency, category, date_iso, note, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Op, e.ExpenseID, e.Amount, e.Currency, e.Category, e.DateISO, e.Note, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert journal entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("journal entry id: %w", err)
	}

	slog.InfoContext(ctx, "Change recorded in journal",
		"journal_id", id,
		"op", e.Op,
		"expense_id", e.ExpenseID)

	return id, nil
}

// ListRecent returns the newest journal entries, newest first.
func (r *JournalRepository) ListRecent(ctx context.Context, limit int) ([]JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, op, expense_id, amount, currency, category, date_iso, note, recorded_at
		FROM expense_journal
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var out []JournalEntry
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.ID, &e.Op, &e.ExpenseID, &e.Amount, &e.Currency, &e.Category, &e.DateISO, &e.Note, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal entries: %w", err)
	}
	return out, nil
}

// MonthTotals sums the added amounts per month key, newest month
// first.
func (r *JournalRepository) MonthTotals(ctx context.Context) ([]MonthSpending, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT substr(date_iso, 1, 7) AS month, SUM(amount) AS total
		FROM expense_journal
		WHERE op = 'added'
		GROUP BY month
		ORDER BY month DESC`)
	if err != nil {
		return nil, fmt.Errorf("month totals: %w", err)
	}
	defer rows.Close()

	var out []MonthSpending
	for rows.Next() {
		var m MonthSpending
		if err := rows.Scan(&m.Month, &m.Total); err != nil {
			return nil, fmt.Errorf("scan month total: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate month totals: %w", err)
	}
	return out, nil
}

// CountByOp returns how many journal entries exist per operation.
func (r *JournalRepository) CountByOp(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT op, COUNT(*) FROM expense_journal GROUP BY op`)
	if err != nil {
		return nil, fmt.Errorf("count by op: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var op string
		var n int64
		if err := rows.Scan(&op, &n); err != nil {
			return nil, fmt.Errorf("scan op count: %w", err)
		}
		out[op] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate op counts: %w", err)
	}
	return out, nil
}
