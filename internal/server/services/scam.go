package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/budgetguard/internal/common"
	"github.com/dmitrijs2005/budgetguard/internal/logging"
	"github.com/dmitrijs2005/budgetguard/internal/server/genai"
	"github.com/dmitrijs2005/budgetguard/internal/server/models"
	"github.com/dmitrijs2005/budgetguard/internal/server/repositories/repomanager"
)

const scamPromptTemplate = `Analyze the following message for signs of a scam or phishing attempt.
Respond in exactly this format:
Risk Score: <number between 0 and 100>
Risk Level: <LOW, MEDIUM or HIGH>
Explanation: <one or two sentences explaining the assessment>

Message:
%s`

// Keyword weights and thresholds for the deterministic fallback classifier.
const (
	fallbackKeywordWeight   = 15
	fallbackHighThreshold   = 70
	fallbackMediumThreshold = 40
)

// scamKeywords are matched case-insensitively; each distinct hit adds
// fallbackKeywordWeight to the score.
var scamKeywords = []string{
	"urgent",
	"verify",
	"suspended",
	"click here",
	"prize",
	"winner",
	"bank account",
	"password",
	"otp",
	"expire",
}

var fallbackExplanations = map[models.RiskLevel]string{
	models.RiskHigh:   "Message contains multiple patterns commonly used in scams. Do not click links or share personal information.",
	models.RiskMedium: "Message contains wording often seen in scam attempts. Verify the sender through an official channel before acting.",
	models.RiskLow:    "No common scam patterns detected. Stay cautious with unexpected messages.",
}

const defaultHistoryLimit = 50

// ScamService classifies messages with the external model and falls back to
// keyword scoring when the model is unreachable or returns garbage. Every
// verdict, whatever its source, is persisted.
type ScamService struct {
	gen         genai.TextGenerator
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	timeout     time.Duration
	now         func() time.Time
}

func NewScamService(gen genai.TextGenerator, db *sql.DB, m repomanager.RepositoryManager, timeout time.Duration, logger logging.Logger) *ScamService {
	return &ScamService{
		gen:         gen,
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "scam"),
		timeout:     timeout,
		now:         time.Now,
	}
}

// CheckMessage classifies message for userID and persists the verdict.
func (s *ScamService) CheckMessage(ctx context.Context, userID string, message string) (*models.RiskVerdict, error) {

	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message must not be blank", common.ErrValidation)
	}

	verdict := s.classify(ctx, message)
	verdict.ID = uuid.New().String()
	verdict.UserID = userID
	verdict.Message = message
	verdict.CreatedAt = s.now()

	saved, err := s.repomanager.Verdicts(s.db).Create(ctx, verdict)
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// History returns the user's most recent verdicts, newest first.
func (s *ScamService) History(ctx context.Context, userID string) ([]*models.RiskVerdict, error) {
	return s.repomanager.Verdicts(s.db).ListByUser(ctx, userID, defaultHistoryLimit)
}

// classify tries the model first and degrades to the keyword fallback. It
// never fails: a verdict always comes back from one of the two paths.
func (s *ScamService) classify(ctx context.Context, message string) *models.RiskVerdict {

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.gen.Generate(ctx, fmt.Sprintf(scamPromptTemplate, message))
	if err != nil {
		s.logger.Warn(ctx, "model unavailable, using keyword fallback", "error", err)
		return s.fallbackVerdict(message)
	}

	verdict, ok := parseModelResponse(raw)
	if !ok {
		s.logger.Warn(ctx, "model returned an empty response, using keyword fallback")
		return s.fallbackVerdict(message)
	}

	return verdict
}

// parseModelResponse extracts score, level and explanation from the model
// output. The parse is tolerant: missing fields get defaults (score 50,
// level LOW, explanation = full raw text). Only a blank response is
// rejected.
func parseModelResponse(raw string) (*models.RiskVerdict, bool) {

	if strings.TrimSpace(raw) == "" {
		return nil, false
	}

	verdict := &models.RiskVerdict{
		RiskScore:   50,
		RiskLevel:   models.RiskLow,
		Explanation: strings.TrimSpace(raw),
		Source:      models.VerdictSourceModel,
	}

	// The first line containing each label wins; later repeats are ignored.
	scoreSeen, levelSeen := false, false
	for _, line := range strings.Split(raw, "\n") {
		lower := strings.ToLower(line)

		if !scoreSeen && strings.Contains(lower, "risk score:") {
			scoreSeen = true
			// Every digit on the line counts, so "80/100" reads as 80100
			// and clamps to 100 rather than passing as a plausible 80.
			if score, ok := lineDigits(line); ok {
				verdict.RiskScore = clampScore(score)
			}
		}

		if !levelSeen && strings.Contains(lower, "risk level:") {
			levelSeen = true
			switch {
			case strings.Contains(lower, "high"):
				verdict.RiskLevel = models.RiskHigh
			case strings.Contains(lower, "medium"):
				verdict.RiskLevel = models.RiskMedium
			default:
				verdict.RiskLevel = models.RiskLow
			}
		}
	}

	if idx := strings.Index(strings.ToLower(raw), "explanation:"); idx >= 0 {
		if text := strings.TrimSpace(raw[idx+len("explanation:"):]); text != "" {
			verdict.Explanation = text
		}
	}

	return verdict, true
}

// lineDigits concatenates all digit runes in s into one number, saturating
// above the score range instead of overflowing.
func lineDigits(s string) (int, bool) {
	n, found := 0, false
	for _, r := range s {
		if !unicode.IsDigit(r) {
			continue
		}
		found = true
		if n > 100 {
			continue
		}
		n = n*10 + int(r-'0')
	}
	return n, found
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// fallbackVerdict scores the message by distinct keyword hits.
func (s *ScamService) fallbackVerdict(message string) *models.RiskVerdict {

	lower := strings.ToLower(message)

	score := 0
	for _, kw := range scamKeywords {
		if strings.Contains(lower, kw) {
			score += fallbackKeywordWeight
		}
	}
	score = clampScore(score)

	level := models.RiskLow
	switch {
	case score >= fallbackHighThreshold:
		level = models.RiskHigh
	case score >= fallbackMediumThreshold:
		level = models.RiskMedium
	}

	return &models.RiskVerdict{
		RiskScore:   score,
		RiskLevel:   level,
		Explanation: fallbackExplanations[level],
		Source:      models.VerdictSourceFallback,
	}
}
