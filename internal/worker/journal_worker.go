package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wydatki/internal/amqp"
	"wydatki/internal/storage"
)

// Journal is the slice of the storage repository the worker needs.
type Journal interface {
	RecordChange(ctx context.Context, e storage.JournalEntry) (int64, error)
	MonthTotals(ctx context.Context) ([]storage.MonthSpending, error)
	CountByOp(ctx context.Context) (map[string]int64, error)
}

// JournalWorker appends consumed change events to the SQLite journal
// and periodically logs a spending report.
type JournalWorker struct {
	journal Journal
}

func NewJournalWorker(journal Journal) *JournalWorker {
	return &JournalWorker{journal: journal}
}

// HandleChangeMessage records one change event. Returning an error
// makes the AMQP client requeue the delivery.
func (w *JournalWorker) HandleChangeMessage(ctx context.Context, msg *amqp.ExpenseChangeMessage) error {
	switch msg.Op {
	case amqp.OpAdded, amqp.OpEdited, amqp.OpDeleted:
	default:
		// Unknown ops are dropped, not requeued: redelivery cannot fix
		// a message this worker does not understand.
		slog.WarnContext(ctx, "Skipping unknown change op", "op", msg.Op, "expense_id", msg.ExpenseID)
		return nil
	}

	_, err := w.journal.RecordChange(ctx, storage.JournalEntry{
		Op:        msg.Op,
		ExpenseID: msg.ExpenseID,
		Amount:    msg.Amount,
		Currency:  msg.Currency,
		Category:  msg.Category,
		DateISO:   msg.DateISO,
		Note:      msg.Note,
	})
	if err != nil {
		return fmt.Errorf("record change: %w", err)
	}
	return nil
}

// LogReport writes the current journal aggregates to the log. Failures
// are logged and swallowed; the report is informational.
func (w *JournalWorker) LogReport(ctx context.Context) {
	counts, err := w.journal.CountByOp(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to count journal entries", "error", err)
		return
	}
	totals, err := w.journal.MonthTotals(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to aggregate month totals", "error", err)
		return
	}

	slog.InfoContext(ctx, "Journal report",
		"added", counts[amqp.OpAdded],
		"edited", counts[amqp.OpEdited],
		"deleted", counts[amqp.OpDeleted],
		"months", len(totals))
	for _, m := range totals {
		slog.InfoContext(ctx, "Month spending", "month", m.Month, "total", m.Total)
	}
}

// RunReports logs a report on every tick until ctx is cancelled.
func (w *JournalWorker) RunReports(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.LogReport(ctx)
		}
	}
}
