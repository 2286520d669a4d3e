package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/budgetguard/internal/common"
	"github.com/dmitrijs2005/budgetguard/internal/logging"
	"github.com/dmitrijs2005/budgetguard/internal/server/auth"
	"github.com/dmitrijs2005/budgetguard/internal/server/models"
	"github.com/dmitrijs2005/budgetguard/internal/server/repositories/repomanager"
)

// UserService covers registration, login and budget-profile updates.
type UserService struct {
	db                  *sql.DB
	repomanager         repomanager.RepositoryManager
	logger              logging.Logger
	secretKey           []byte
	tokenValidityPeriod time.Duration
	now                 func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, secretKey []byte, tokenValidityPeriod time.Duration, logger logging.Logger) *UserService {
	return &UserService{
		db:                  db,
		repomanager:         m,
		logger:              logger.With("module", "users"),
		secretKey:           secretKey,
		tokenValidityPeriod: tokenValidityPeriod,
		now:                 time.Now,
	}
}

// Register creates an account and returns an access token for it.
func (s *UserService) Register(ctx context.Context, username, password string) (string, error) {

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password must not be blank", common.ErrValidation)
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return "", fmt.Errorf("%w: username already taken", common.ErrValidation)
	} else if !errors.Is(err, common.ErrNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user, err := repo.Create(ctx, &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	})
	if err != nil {
		return "", err
	}

	return auth.GenerateToken(user.ID, s.secretKey, s.tokenValidityPeriod)
}

// Login verifies credentials and returns a fresh access token. A missing
// user and a wrong password report the same error.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", common.ErrUnauthorized
	}

	return auth.GenerateToken(user.ID, s.secretKey, s.tokenValidityPeriod)
}

// SetBudget replaces the user's budget profile. An empty pin clears the
// stored PIN. A fund larger than the budget is allowed; the decision engine
// treats the resulting negative safe limit as "everything needs the PIN".
func (s *UserService) SetBudget(ctx context.Context, userID string, monthlyBudget, emergencyFund float64, emergencyPIN string) error {

	if monthlyBudget < 0 || emergencyFund < 0 {
		return fmt.Errorf("%w: budget and emergency fund must not be negative", common.ErrValidation)
	}

	return s.repomanager.Users(s.db).UpdateBudget(ctx, userID, monthlyBudget, emergencyFund, emergencyPIN)
}
