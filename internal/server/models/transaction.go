package models

import "time"

// Transaction is one accepted ledger entry. Positive amounts are spends.
// Immutable after creation except IsUseful, which the owner may set post hoc
// (idempotent overwrite).
type Transaction struct {
	ID          string
	UserID      string
	Amount      float64
	Description string
	Category    string

	// Verified marks entries that count toward streak and coin accrual,
	// as opposed to record-keeping-only imports.
	Verified bool

	// IsUseful is the user's post-hoc judgment; nil until set.
	IsUseful *bool

	CreatedAt time.Time
}
