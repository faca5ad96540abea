package core

// Action is the sealed set of state transitions understood by Reduce.
// Callers construct a variant and hand it to the reducer together with
// the current state; the reducer never sees partially-built actions
// because validation happens upstream.
type Action interface {
	isAction()
}

type (
	// AddExpense prepends a fully-formed expense (id already assigned
	// by the caller) and registers its category if new.
	AddExpense struct {
		Expense Expense
	}

	// EditExpense shallow-merges a patch into the expense with the
	// given id. Unknown ids are a no-op.
	EditExpense struct {
		ID    string
		Patch ExpensePatch
	}

	// DeleteExpense removes the expense with the given id, if present.
	DeleteExpense struct {
		ID string
	}

	// SetFilters applies a filter patch with date-range reconciliation.
	SetFilters struct {
		Patch FilterPatch
	}

	// SetSort replaces the sort mode.
	SetSort struct {
		Mode SortMode
	}

	// AddCategory appends a trimmed category name if non-empty and not
	// already present. Idempotent.
	AddCategory struct {
		Name string
	}

	// SetCurrency replaces the display currency without touching rates.
	SetCurrency struct {
		Code Currency
	}

	// SetRates replaces the rate table and its provenance label. The
	// reference currency stays pinned to 1 and non-positive incoming
	// rates are rejected per currency, keeping the previous value.
	SetRates struct {
		Rates RateTable
		Label string
	}

	// ReplaceState substitutes the whole state with the incoming one.
	ReplaceState struct {
		State State
	}

	// MergeState unions categories and appends incoming expenses whose
	// id is not already known. Rates, label and display currency are
	// preserved from the current state.
	MergeState struct {
		Incoming State
	}
)

// ExpensePatch is a partial update over any expense field except the
// id. Nil fields are left untouched.
type ExpensePatch struct {
	Amount   *float64
	Currency *Currency
	Category *string
	DateISO  *string
	Note     *string
}

// FilterPatch is a partial update over the filter fields. Nil fields
// are left untouched; the reconciler needs to know which date bound
// was just changed, hence pointers rather than zero values.
type FilterPatch struct {
	DateFrom *string
	DateTo   *string
	Category *string
	Text     *string
}

func (AddExpense) isAction()    {}
func (EditExpense) isAction()   {}
func (DeleteExpense) isAction() {}
func (SetFilters) isAction()    {}
func (SetSort) isAction()       {}
func (AddCategory) isAction()   {}
func (SetCurrency) isAction()   {}
func (SetRates) isAction()      {}
func (ReplaceState) isAction()  {}
func (MergeState) isAction()    {}
