package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/budgetguard/internal/dbx"
	"github.com/dmitrijs2005/budgetguard/internal/logging"
	"github.com/dmitrijs2005/budgetguard/internal/server/models"
	activityrepo "github.com/dmitrijs2005/budgetguard/internal/server/repositories/activity"
	redemptionsrepo "github.com/dmitrijs2005/budgetguard/internal/server/repositories/redemptions"
	transactionsrepo "github.com/dmitrijs2005/budgetguard/internal/server/repositories/transactions"
	usersrepo "github.com/dmitrijs2005/budgetguard/internal/server/repositories/users"
	verdictsrepo "github.com/dmitrijs2005/budgetguard/internal/server/repositories/verdicts"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) With(...any) logging.Logger            { return nopLogger{} }

// --- fakes ---

type progressionUpdate struct {
	currentStreak      int
	longestStreak      int
	milestoneWatermark int
	treesPlanted       int
}

type fakeUsersRepo struct {
	user   *models.User
	getErr error

	createOut *models.User
	createErr error
	created   *models.User

	updateBudgetErr error

	progressionUpdates []progressionUpdate
	updateProgErr      error

	creditCalls []int64
	creditErr   error
	debitCalls  []int64
	debitErr    error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = u
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.user, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.user, nil
}

func (f *fakeUsersRepo) GetByIDForUpdate(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.user, nil
}

func (f *fakeUsersRepo) UpdateBudget(ctx context.Context, id string, monthlyBudget, emergencyFund float64, emergencyPIN string) error {
	return f.updateBudgetErr
}

func (f *fakeUsersRepo) UpdateProgression(ctx context.Context, id string, currentStreak, longestStreak, milestoneWatermark, treesPlanted int) error {
	if f.updateProgErr != nil {
		return f.updateProgErr
	}
	f.progressionUpdates = append(f.progressionUpdates, progressionUpdate{
		currentStreak:      currentStreak,
		longestStreak:      longestStreak,
		milestoneWatermark: milestoneWatermark,
		treesPlanted:       treesPlanted,
	})
	return nil
}

func (f *fakeUsersRepo) CreditCoins(ctx context.Context, id string, amount int64) error {
	if f.creditErr != nil {
		return f.creditErr
	}
	f.creditCalls = append(f.creditCalls, amount)
	return nil
}

func (f *fakeUsersRepo) DebitCoins(ctx context.Context, id string, amount int64) error {
	if f.debitErr != nil {
		return f.debitErr
	}
	f.debitCalls = append(f.debitCalls, amount)
	return nil
}

type fakeTxnRepo struct {
	sum    float64
	sumErr error

	created   []*models.Transaction
	createErr error

	hasVerified    bool
	hasVerifiedErr error

	listOut []*models.Transaction
	listErr error

	usefulnessCalls []string
	usefulnessErr   error
}

func (f *fakeTxnRepo) Create(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, txn)
	return txn, nil
}

func (f *fakeTxnRepo) ListForPeriod(ctx context.Context, userID string, from, to time.Time) ([]*models.Transaction, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeTxnRepo) SumForPeriod(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	if f.sumErr != nil {
		return 0, f.sumErr
	}
	return f.sum, nil
}

func (f *fakeTxnRepo) HasVerifiedInRange(ctx context.Context, userID string, from, to time.Time) (bool, error) {
	if f.hasVerifiedErr != nil {
		return false, f.hasVerifiedErr
	}
	return f.hasVerified, nil
}

func (f *fakeTxnRepo) SetUsefulness(ctx context.Context, userID, transactionID string, useful bool) error {
	if f.usefulnessErr != nil {
		return f.usefulnessErr
	}
	f.usefulnessCalls = append(f.usefulnessCalls, transactionID)
	return nil
}

type upsertCall struct {
	day         time.Time
	hadActivity bool
}

type fakeActivityRepo struct {
	rows    []*models.ActivityDay
	listErr error

	upserts   []upsertCall
	upsertErr error
}

func (f *fakeActivityRepo) Upsert(ctx context.Context, userID string, day time.Time, hadActivity bool) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, upsertCall{day: day, hadActivity: hadActivity})
	for _, r := range f.rows {
		if r.Day.Equal(day) {
			r.HadActivity = hadActivity
			return nil
		}
	}
	f.rows = append(f.rows, &models.ActivityDay{UserID: userID, Day: day, HadActivity: hadActivity})
	return nil
}

func (f *fakeActivityRepo) ListSince(ctx context.Context, userID string, since time.Time) ([]*models.ActivityDay, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.ActivityDay
	for _, r := range f.rows {
		if !r.Day.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeVerdictsRepo struct {
	created   []*models.RiskVerdict
	createErr error

	listOut []*models.RiskVerdict
	listErr error
}

func (f *fakeVerdictsRepo) Create(ctx context.Context, v *models.RiskVerdict) (*models.RiskVerdict, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, v)
	return v, nil
}

func (f *fakeVerdictsRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*models.RiskVerdict, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

type fakeRedemptionsRepo struct {
	created   []*models.Redemption
	createErr error

	listOut []*models.Redemption
}

func (f *fakeRedemptionsRepo) Create(ctx context.Context, r *models.Redemption) (*models.Redemption, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, r)
	return r, nil
}

func (f *fakeRedemptionsRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Redemption, error) {
	return f.listOut, nil
}

type fakeRepoManager struct {
	users       *fakeUsersRepo
	txns        *fakeTxnRepo
	activity    *fakeActivityRepo
	verdicts    *fakeVerdictsRepo
	redemptions *fakeRedemptionsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository               { return m.users }
func (m *fakeRepoManager) Transactions(db dbx.DBTX) transactionsrepo.Repository { return m.txns }
func (m *fakeRepoManager) Activity(db dbx.DBTX) activityrepo.Repository         { return m.activity }
func (m *fakeRepoManager) Verdicts(db dbx.DBTX) verdictsrepo.Repository         { return m.verdicts }
func (m *fakeRepoManager) Redemptions(db dbx.DBTX) redemptionsrepo.Repository {
	return m.redemptions
}
