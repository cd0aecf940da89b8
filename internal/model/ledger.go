package model

// Ledger summarizes one mutation pass. It is threaded through each
// feature call as a value and folded at the driver.
type Ledger struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Merge folds another ledger delta into this one.
func (l Ledger) Merge(delta Ledger) Ledger {
	l.Applied += delta.Applied
	l.Skipped += delta.Skipped
	l.Failed += delta.Failed

	return l
}

// Changed reports whether the pass applied any rewrite.
func (l Ledger) Changed() bool {
	return l.Applied > 0
}
