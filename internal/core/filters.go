package core

// ReconcileFilterDates merges patch into current and repairs an
// inverted date range. The repair is silent by design: there is no
// error channel for filter input, the bound the user just moved wins
// and the other bound snaps onto it. When both bounds arrive in the
// same patch the from-bound takes precedence.
func ReconcileFilterDates(current Filters, patch FilterPatch) Filters {
	out := current
	if patch.DateFrom != nil {
		out.DateFrom = *patch.DateFrom
	}
	if patch.DateTo != nil {
		out.DateTo = *patch.DateTo
	}
	if patch.Category != nil {
		out.Category = *patch.Category
	}
	if patch.Text != nil {
		out.Text = *patch.Text
	}

	if out.DateFrom == "" || out.DateTo == "" {
		return out
	}
	from, errFrom := ParseDate(out.DateFrom)
	to, errTo := ParseDate(out.DateTo)
	if errFrom != nil || errTo != nil {
		// Unparseable bounds cannot be compared; leave them alone.
		return out
	}
	if from.After(to) {
		if patch.DateFrom != nil {
			out.DateTo = out.DateFrom
		} else if patch.DateTo != nil {
			out.DateFrom = out.DateTo
		}
	}
	return out
}
