package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/budgetguard/internal/dbx"
	"github.com/dmitrijs2005/budgetguard/internal/logging"
	"github.com/dmitrijs2005/budgetguard/internal/server/models"
	"github.com/dmitrijs2005/budgetguard/internal/server/repositories/activity"
	"github.com/dmitrijs2005/budgetguard/internal/server/repositories/repomanager"
)

// streakMilestoneDays is the streak length converted into one planted tree.
const streakMilestoneDays = 7

// initialStreakWindowDays bounds the first activity fetch when walking the
// streak backwards; the window doubles until it covers the whole streak.
const initialStreakWindowDays = 366

// ProgressionService maintains the per-day activity ledger and derives the
// consecutive-day streak and milestone counters from it.
//
// Calendar days use the server-local timezone for every user. This is a
// known simplification inherited from the source system; per-user timezones
// would need the upsert key and the day walk to move to user-local dates.
type ProgressionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewProgressionService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ProgressionService {
	return &ProgressionService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "progression"),
		now:         time.Now,
	}
}

// truncateToDay drops the time-of-day component, keeping the location.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dateKey renders a calendar date for map lookups, ignoring location.
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Recompute refreshes the user's progression state for the current day in
// its own transaction. Used by dashboard reads; the commit path calls
// recomputeTx inside the commit transaction instead.
func (s *ProgressionService) Recompute(ctx context.Context, userID string) (*models.ProgressionState, error) {

	var state *models.ProgressionState

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		// The row lock keeps two concurrent recomputes from double-awarding
		// a milestone.
		user, err := s.repomanager.Users(tx).GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		state, err = s.recomputeTx(ctx, tx, user, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	return state, nil
}

// recomputeTx runs the recompute steps against the caller's transaction.
// The caller must already hold the user row lock.
//
// Recomputing twice for the same day with no new transactions is a no-op:
// the activity upsert overwrites with the same flag and the milestone
// watermark only advances when the streak strictly exceeds it.
func (s *ProgressionService) recomputeTx(ctx context.Context, tx dbx.DBTX, user *models.User, ref time.Time) (*models.ProgressionState, error) {

	day := truncateToDay(ref)
	activityRepo := s.repomanager.Activity(tx)

	had, err := s.repomanager.Transactions(tx).HasVerifiedInRange(ctx, user.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	if err := activityRepo.Upsert(ctx, user.ID, day, had); err != nil {
		return nil, err
	}

	streak, err := s.walkStreak(ctx, activityRepo, user.ID, day)
	if err != nil {
		return nil, err
	}

	longest := user.LongestStreak
	if streak > longest {
		longest = streak
	}

	watermark := user.MilestoneWatermark
	trees := user.TreesPlanted
	if streak > 0 && streak%streakMilestoneDays == 0 && streak > watermark {
		trees++
		watermark = streak
	}

	if err := s.repomanager.Users(tx).UpdateProgression(ctx, user.ID, streak, longest, watermark, trees); err != nil {
		return nil, err
	}

	// Keep the in-memory copy coherent for callers that go on using it.
	user.CurrentStreak = streak
	user.LongestStreak = longest
	user.MilestoneWatermark = watermark
	user.TreesPlanted = trees

	return &models.ProgressionState{
		CurrentStreak: streak,
		LongestStreak: longest,
		TreeProgress:  streak % streakMilestoneDays,
		TreesPlanted:  trees,
	}, nil
}

// walkStreak counts consecutive active calendar days ending at day. A date
// with no record counts as a gap, same as an explicit false — absence of
// data and absence of activity are deliberately not distinguished here,
// mirroring the source system.
func (s *ProgressionService) walkStreak(ctx context.Context, repo activity.Repository, userID string, day time.Time) (int, error) {

	window := initialStreakWindowDays
	for {
		since := day.AddDate(0, 0, -(window - 1))
		rows, err := repo.ListSince(ctx, userID, since)
		if err != nil {
			return 0, err
		}

		active := make(map[string]bool, len(rows))
		for _, r := range rows {
			if r.HadActivity {
				active[dateKey(r.Day)] = true
			}
		}

		streak := 0
		for streak < window {
			if !active[dateKey(day.AddDate(0, 0, -streak))] {
				break
			}
			streak++
		}

		// The gap was inside the window: the count is final. Otherwise the
		// streak may extend past the fetched range; widen and retry.
		if streak < window {
			return streak, nil
		}
		window *= 2
	}
}
