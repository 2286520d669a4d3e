package models

import "time"

// User is the account record. Budget profile and progression counters live
// on the row itself so the commit path can lock and update them atomically.
type User struct {
	ID           string
	Username     string
	PasswordHash string

	// Budget profile. EmergencyFund may exceed MonthlyBudget; the engine
	// tolerates the resulting negative safe limit. An empty EmergencyPIN
	// means no PIN is configured and emergency authorization never matches.
	MonthlyBudget float64
	EmergencyFund float64
	EmergencyPIN  string

	Coins int64

	// Progression counters, recomputed by the tracker, never hand-edited.
	CurrentStreak      int
	LongestStreak      int
	MilestoneWatermark int
	TreesPlanted       int

	CreatedAt time.Time
}
