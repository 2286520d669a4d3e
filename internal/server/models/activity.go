package models

import "time"

// ActivityDay is the per-(user, calendar date) activity flag maintained by
// the progression tracker. Day is the date truncated to midnight in the
// server-local timezone; the (UserID, Day) pair is unique, recomputing
// overwrites.
type ActivityDay struct {
	UserID      string
	Day         time.Time
	HadActivity bool
}

// ProgressionState is the derived streak snapshot cached on the user record.
type ProgressionState struct {
	CurrentStreak int
	LongestStreak int
	// TreeProgress is CurrentStreak mod 7; a streak that is an exact
	// multiple of 7 displays 0, not 7.
	TreeProgress int
	TreesPlanted int
}
