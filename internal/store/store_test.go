package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"wydatki/internal/amqp"
	"wydatki/internal/core"
)

type fakePublisher struct {
	messages []*amqp.ExpenseChangeMessage
	fail     error
}

func (p *fakePublisher) PublishExpenseChange(_ context.Context, msg *amqp.ExpenseChangeMessage) error {
	if p.fail != nil {
		return p.fail
	}
	p.messages = append(p.messages, msg)
	return nil
}

func newTestStore(t *testing.T, pub Publisher) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "snapshot.json"), pub, nil)
}

func expense(id string) core.Expense {
	return core.Expense{ID: id, Amount: 10, Currency: core.PLN, Category: "Dom", DateISO: "2024-01-05"}
}

func TestDispatchPersistsSnapshot(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	_, err := s.Dispatch(ctx, core.AddExpense{Expense: expense("a")})
	require.NoError(t, err)

	data, err := os.ReadFile(s.snapshotPath)
	require.NoError(t, err)
	decoded, err := core.Deserialize(data)
	require.NoError(t, err)
	require.Len(t, decoded.Expenses, 1)
	require.Equal(t, "a", decoded.Expenses[0].ID)
}

func TestLoadRestoresState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")
	ctx := context.Background()

	first := New(path, nil, nil)
	_, err := first.Dispatch(ctx, core.AddExpense{Expense: expense("a")})
	require.NoError(t, err)

	second := New(path, nil, nil)
	require.NoError(t, second.Load(ctx))
	require.Len(t, second.State().Expenses, 1)
}

func TestLoadMissingSnapshotStartsFresh(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.Load(context.Background()))
	require.Empty(t, s.State().Expenses)
	require.Equal(t, core.PLN, s.State().Currency)
}

func TestLoadMalformedSnapshotFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	s := New(path, nil, nil)
	err := s.Load(context.Background())
	require.ErrorIs(t, err, core.ErrMalformedDocument)
}

func TestDispatchPublishesChangeEvents(t *testing.T) {
	pub := &fakePublisher{}
	s := newTestStore(t, pub)
	ctx := context.Background()

	_, err := s.Dispatch(ctx, core.AddExpense{Expense: expense("a")})
	require.NoError(t, err)

	amount := 99.0
	_, err = s.Dispatch(ctx, core.EditExpense{ID: "a", Patch: core.ExpensePatch{Amount: &amount}})
	require.NoError(t, err)

	_, err = s.Dispatch(ctx, core.DeleteExpense{ID: "a"})
	require.NoError(t, err)

	// Filter changes are local and never published.
	text := "czynsz"
	_, err = s.Dispatch(ctx, core.SetFilters{Patch: core.FilterPatch{Text: &text}})
	require.NoError(t, err)

	require.Len(t, pub.messages, 3)
	require.Equal(t, amqp.OpAdded, pub.messages[0].Op)
	require.Equal(t, amqp.OpEdited, pub.messages[1].Op)
	require.Equal(t, 99.0, pub.messages[1].Amount)
	require.Equal(t, amqp.OpDeleted, pub.messages[2].Op)
	require.Equal(t, "a", pub.messages[2].ExpenseID)
}

func TestDispatchSurvivesPublisherFailure(t *testing.T) {
	pub := &fakePublisher{fail: context.DeadlineExceeded}
	s := newTestStore(t, pub)

	state, err := s.Dispatch(context.Background(), core.AddExpense{Expense: expense("a")})
	require.NoError(t, err)
	require.Len(t, state.Expenses, 1)
}

func TestExportImportReplace(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	_, err := s.Dispatch(ctx, core.AddExpense{Expense: expense("a")})
	require.NoError(t, err)
	exported, err := s.Export()
	require.NoError(t, err)

	other := newTestStore(t, nil)
	_, err = other.Dispatch(ctx, core.AddExpense{Expense: expense("z")})
	require.NoError(t, err)

	state, err := other.Import(ctx, exported, false)
	require.NoError(t, err)
	require.Len(t, state.Expenses, 1)
	require.Equal(t, "a", state.Expenses[0].ID)
}

func TestImportMergeDeduplicates(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	_, err := s.Dispatch(ctx, core.AddExpense{Expense: expense("a")})
	require.NoError(t, err)

	incoming := core.NewState()
	incoming.Expenses = []core.Expense{expense("a"), expense("b")}
	incoming.Categories = []string{"Dom", "Podróże"}
	data, err := core.Serialize(incoming)
	require.NoError(t, err)

	state, err := s.Import(ctx, data, true)
	require.NoError(t, err)
	require.Len(t, state.Expenses, 2)
	require.Equal(t, []string{"Dom", "Podróże"}, state.Categories)
}

func TestImportMalformedDocument(t *testing.T) {
	s := newTestStore(t, nil)
	_, err := s.Import(context.Background(), []byte(`[]`), false)
	require.ErrorIs(t, err, core.ErrMalformedDocument)
}

func TestVisibleAndSummary(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	_, err := s.Dispatch(ctx, core.AddExpense{Expense: expense("a")})
	require.NoError(t, err)
	e2 := core.Expense{ID: "b", Amount: 20, Currency: core.PLN, Category: "Jedzenie", DateISO: "2024-02-01"}
	_, err = s.Dispatch(ctx, core.AddExpense{Expense: e2})
	require.NoError(t, err)

	visible := s.Visible()
	require.Len(t, visible, 2)
	require.Equal(t, "b", visible[0].ID) // date descending by default

	summary := s.Summary()
	require.Equal(t, 30.0, summary.Total)
	require.Equal(t, core.PLN, summary.Currency)
}
