package core

// Convert translates amount from one currency to another in two hops
// through the reference unit: amount * rate(from) / rate(to). A
// currency missing from the table converts at 1 — a deliberate
// fallback so a stale or partial table degrades to identity instead of
// failing. No rounding happens here; display formatting is the
// caller's concern.
func Convert(amount float64, from, to Currency, rates RateTable) float64 {
	return amount * rateOrIdentity(rates, from) / rateOrIdentity(rates, to)
}

func rateOrIdentity(rates RateTable, c Currency) float64 {
	if r, ok := rates[c]; ok && r > 0 {
		return r
	}
	return 1
}
