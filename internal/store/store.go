// Package store holds the live application state and funnels every
// change through the pure reducer. It owns the two impure edges the
// core keeps out: snapshot persistence and change-event publishing.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"wydatki/internal/amqp"
	"wydatki/internal/core"
)

// Publisher is the optional change-event sink. The AMQP client
// satisfies it; a nil publisher disables eventing.
type Publisher interface {
	PublishExpenseChange(ctx context.Context, msg *amqp.ExpenseChangeMessage) error
}

// Store guards the current state and applies actions atomically:
// reduce, snapshot, publish — in that order, under one lock.
type Store struct {
	mu           sync.Mutex
	state        core.State
	snapshotPath string
	publisher    Publisher
	logger       *slog.Logger
}

func New(snapshotPath string, publisher Publisher, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		state:        core.NewState(),
		snapshotPath: snapshotPath,
		publisher:    publisher,
		logger:       logger,
	}
}

// Load reads the snapshot from disk. A missing file means a fresh
// start; a malformed file is an error so a corrupt snapshot never gets
// silently overwritten on the next dispatch.
func (s *Store) Load(ctx context.Context) error {
	data, err := os.ReadFile(s.snapshotPath)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.InfoContext(ctx, "No snapshot found, starting fresh", "path", s.snapshotPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	state, err := core.Deserialize(data)
	if err != nil {
		return fmt.Errorf("decode snapshot %s: %w", s.snapshotPath, err)
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Snapshot loaded",
		"path", s.snapshotPath,
		"expenses", len(state.Expenses),
		"categories", len(state.Categories))
	return nil
}

// State returns a copy of the current state.
func (s *Store) State() core.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Visible returns the filtered, sorted expense view for the current
// filters and sort mode.
func (s *Store) Visible() []core.Expense {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	return core.SelectVisible(state)
}

// Summary aggregates the visible expenses in the display currency.
func (s *Store) Summary() core.Summary {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	return core.Summarize(core.SelectVisible(state), state.Currency, state.Rates)
}

// Dispatch applies the action and persists the resulting state. The
// snapshot write must succeed — on failure the previous state is kept
// and the error returned. Event publishing is best-effort: a dead
// broker costs an error log, never a failed dispatch.
func (s *Store) Dispatch(ctx context.Context, action core.Action) (core.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := core.Reduce(s.state, action)
	if err := s.persist(next); err != nil {
		return core.State{}, err
	}
	s.state = next

	s.publish(ctx, action)
	return next.Clone(), nil
}

// Export serializes the current state for download.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	return core.Serialize(state)
}

// Import decodes an uploaded document and either replaces the current
// state or merges it in. Decode failures surface to the caller; the
// per-record leniency lives in core.Deserialize.
func (s *Store) Import(ctx context.Context, data []byte, merge bool) (core.State, error) {
	incoming, err := core.Deserialize(data)
	if err != nil {
		return core.State{}, err
	}
	if merge {
		return s.Dispatch(ctx, core.MergeState{Incoming: incoming})
	}
	return s.Dispatch(ctx, core.ReplaceState{State: incoming})
}

// persist writes the snapshot atomically: temp file in the same
// directory, then rename.
func (s *Store) persist(state core.State) error {
	data, err := core.Serialize(state)
	if err != nil {
		return fmt.Errorf("serialize state: %w", err)
	}

	dir := filepath.Dir(s.snapshotPath)
	tmp, err := os.CreateTemp(dir, ".wydatki-*.json")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.snapshotPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// publish translates expense transitions into change events. Other
// action kinds (filters, sort, rates) stay local.
func (s *Store) publish(ctx context.Context, action core.Action) {
	if s.publisher == nil {
		return
	}

	var msg *amqp.ExpenseChangeMessage
	switch act := action.(type) {
	case core.AddExpense:
		msg = changeMessage(amqp.OpAdded, act.Expense)
	case core.EditExpense:
		if e, ok := s.findExpense(act.ID); ok {
			msg = changeMessage(amqp.OpEdited, e)
		}
	case core.DeleteExpense:
		msg = amqp.NewExpenseChangeMessage(amqp.OpDeleted, act.ID)
	default:
		return
	}
	if msg == nil {
		return
	}

	if err := s.publisher.PublishExpenseChange(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish change event",
			"error", err,
			"op", msg.Op,
			"expense_id", msg.ExpenseID)
	}
}

// findExpense expects s.mu to be held.
func (s *Store) findExpense(id string) (core.Expense, bool) {
	for _, e := range s.state.Expenses {
		if e.ID == id {
			return e, true
		}
	}
	return core.Expense{}, false
}

func changeMessage(op string, e core.Expense) *amqp.ExpenseChangeMessage {
	msg := amqp.NewExpenseChangeMessage(op, e.ID)
	msg.Amount = e.Amount
	msg.Currency = string(e.Currency)
	msg.Category = e.Category
	msg.DateISO = e.DateISO
	msg.Note = e.Note
	return msg
}
