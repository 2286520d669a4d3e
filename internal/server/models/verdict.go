package models

import "time"

// RiskLevel classifies a scanned message.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Verdict sources.
const (
	VerdictSourceModel    = "model"
	VerdictSourceFallback = "fallback"
)

// RiskVerdict is one immutable scam-check result. Source records whether the
// verdict came from the external model or the keyword fallback.
type RiskVerdict struct {
	ID          string
	UserID      string
	Message     string
	RiskScore   int
	RiskLevel   RiskLevel
	Explanation string
	Source      string
	CreatedAt   time.Time
}
