package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/budgetguard/internal/server/models"
)

var testDay = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

// pastActiveDays returns active rows for the n days preceding day.
func pastActiveDays(userID string, day time.Time, n int) []*models.ActivityDay {
	rows := make([]*models.ActivityDay, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, &models.ActivityDay{
			UserID:      userID,
			Day:         day.AddDate(0, 0, -i),
			HadActivity: true,
		})
	}
	return rows
}

func newProgressionService(t *testing.T, rm *fakeRepoManager) *ProgressionService {
	t.Helper()
	p := NewProgressionService(nil, rm, nopLogger{})
	p.now = func() time.Time { return testDay.Add(10 * time.Hour) }
	return p
}

func TestRecomputeTx_ConsecutiveDaysExtendStreak(t *testing.T) {
	rm := &fakeRepoManager{
		users:    &fakeUsersRepo{},
		txns:     &fakeTxnRepo{hasVerified: true},
		activity: &fakeActivityRepo{rows: pastActiveDays("u1", testDay, 2)},
	}
	p := newProgressionService(t, rm)

	state, err := p.recomputeTx(context.Background(), nil, &models.User{ID: "u1"}, testDay.Add(10*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, state.CurrentStreak)
	assert.Equal(t, 3, state.LongestStreak)
	assert.Equal(t, 3, state.TreeProgress)
	assert.Equal(t, 0, state.TreesPlanted)

	// Today's flag was persisted at midnight of the reference day.
	require.Len(t, rm.activity.upserts, 1)
	assert.True(t, rm.activity.upserts[0].day.Equal(testDay))
	assert.True(t, rm.activity.upserts[0].hadActivity)
}

func TestRecomputeTx_MissingDayResetsStreak(t *testing.T) {
	// Active two days ago but not yesterday: only today counts.
	rm := &fakeRepoManager{
		users: &fakeUsersRepo{},
		txns:  &fakeTxnRepo{hasVerified: true},
		activity: &fakeActivityRepo{rows: []*models.ActivityDay{
			{UserID: "u1", Day: testDay.AddDate(0, 0, -2), HadActivity: true},
		}},
	}
	p := newProgressionService(t, rm)

	state, err := p.recomputeTx(context.Background(), nil, &models.User{ID: "u1"}, testDay)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentStreak)
}

func TestRecomputeTx_InactiveTodayKeepsLongest(t *testing.T) {
	rm := &fakeRepoManager{
		users:    &fakeUsersRepo{},
		txns:     &fakeTxnRepo{hasVerified: false},
		activity: &fakeActivityRepo{},
	}
	p := newProgressionService(t, rm)

	user := &models.User{ID: "u1", LongestStreak: 5}
	state, err := p.recomputeTx(context.Background(), nil, user, testDay)
	require.NoError(t, err)
	assert.Equal(t, 0, state.CurrentStreak)
	assert.Equal(t, 5, state.LongestStreak)
	assert.Equal(t, 0, state.TreeProgress)
}

func TestRecomputeTx_MilestonePlantsTreeOnce(t *testing.T) {
	rm := &fakeRepoManager{
		users:    &fakeUsersRepo{},
		txns:     &fakeTxnRepo{hasVerified: true},
		activity: &fakeActivityRepo{rows: pastActiveDays("u1", testDay, 6)},
	}
	p := newProgressionService(t, rm)

	user := &models.User{ID: "u1"}
	state, err := p.recomputeTx(context.Background(), nil, user, testDay)
	require.NoError(t, err)
	assert.Equal(t, 7, state.CurrentStreak)
	assert.Equal(t, 1, state.TreesPlanted)
	// An exact multiple of the milestone length shows an empty tree in
	// progress, not a full one.
	assert.Equal(t, 0, state.TreeProgress)

	// Running the recompute again on the same day must not plant another.
	state, err = p.recomputeTx(context.Background(), nil, user, testDay)
	require.NoError(t, err)
	assert.Equal(t, 7, state.CurrentStreak)
	assert.Equal(t, 1, state.TreesPlanted)
}

func TestRecomputeTx_NoTreeBetweenMilestones(t *testing.T) {
	rm := &fakeRepoManager{
		users:    &fakeUsersRepo{},
		txns:     &fakeTxnRepo{hasVerified: true},
		activity: &fakeActivityRepo{rows: pastActiveDays("u1", testDay, 7)},
	}
	p := newProgressionService(t, rm)

	user := &models.User{ID: "u1", CurrentStreak: 7, LongestStreak: 7, MilestoneWatermark: 7, TreesPlanted: 1}
	state, err := p.recomputeTx(context.Background(), nil, user, testDay)
	require.NoError(t, err)
	assert.Equal(t, 8, state.CurrentStreak)
	assert.Equal(t, 1, state.TreesPlanted)
	assert.Equal(t, 1, state.TreeProgress)
}

func TestRecomputeTx_SecondMilestoneAtFourteen(t *testing.T) {
	rm := &fakeRepoManager{
		users:    &fakeUsersRepo{},
		txns:     &fakeTxnRepo{hasVerified: true},
		activity: &fakeActivityRepo{rows: pastActiveDays("u1", testDay, 13)},
	}
	p := newProgressionService(t, rm)

	user := &models.User{ID: "u1", MilestoneWatermark: 7, TreesPlanted: 1, LongestStreak: 13}
	state, err := p.recomputeTx(context.Background(), nil, user, testDay)
	require.NoError(t, err)
	assert.Equal(t, 14, state.CurrentStreak)
	assert.Equal(t, 2, state.TreesPlanted)
	assert.Equal(t, 14, state.LongestStreak)
}

// A streak longer than the initial fetch window is still counted in full.
func TestRecomputeTx_StreakLongerThanInitialWindow(t *testing.T) {
	rm := &fakeRepoManager{
		users:    &fakeUsersRepo{},
		txns:     &fakeTxnRepo{hasVerified: true},
		activity: &fakeActivityRepo{rows: pastActiveDays("u1", testDay, 399)},
	}
	p := newProgressionService(t, rm)

	state, err := p.recomputeTx(context.Background(), nil, &models.User{ID: "u1"}, testDay)
	require.NoError(t, err)
	assert.Equal(t, 400, state.CurrentStreak)
}

func TestRecompute_PersistsCountersInTransaction(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{
		users:    &fakeUsersRepo{user: &models.User{ID: "u1"}},
		txns:     &fakeTxnRepo{hasVerified: true},
		activity: &fakeActivityRepo{rows: pastActiveDays("u1", testDay, 1)},
	}
	p := NewProgressionService(db, rm, nopLogger{})
	p.now = func() time.Time { return testDay.Add(10 * time.Hour) }

	state, err := p.Recompute(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, state.CurrentStreak)

	require.Len(t, rm.users.progressionUpdates, 1)
	assert.Equal(t, progressionUpdate{
		currentStreak: 2, longestStreak: 2, milestoneWatermark: 0, treesPlanted: 0,
	}, rm.users.progressionUpdates[0])
	require.NoError(t, mock.ExpectationsWereMet())
}
