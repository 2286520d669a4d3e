package models

import "time"

// Redemption records a coin spend against a reward offer.
type Redemption struct {
	ID        string
	UserID    string
	Brand     string
	Coins     int64
	CreatedAt time.Time
}
