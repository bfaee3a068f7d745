package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"codelearn/internal/auth"
	"codelearn/internal/repository"
	"codelearn/internal/testutil"
	"codelearn/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "service-test-secret-at-least-32-chars"

func assertAppError(t *testing.T, err error, sentinel *models.AppError) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, errors.Is(err, sentinel), "expected %s, got %v", sentinel.Code, err)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.ErrValidation)
}

type authFixture struct {
	db     *gorm.DB
	users  repository.UserRepository
	tokens *auth.TokenService
	svc    *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	users := repository.NewUserRepository(db, nil)
	tokens := auth.NewTokenService(testSecret, time.Hour)
	return &authFixture{
		db:     db,
		users:  users,
		tokens: tokens,
		svc:    NewAuthService(users, auth.NewBcryptHasher(bcrypt.MinCost), tokens),
	}
}

func validRegistration(username string) RegisterInput {
	return RegisterInput{
		Username:       username,
		Email:          username + "@example.com",
		Password:       "secret1",
		FullName:       "Ada Lovelace",
		PhoneNumber:    "555-0101",
		Profession:     "Engineer",
		ReferralSource: "friend",
	}
}

// usageRepoStub is a function-field test double for repository.UsageRepository.
type usageRepoStub struct {
	trackFn func(ctx context.Context, userID *uint, feature models.FeatureKind) error
	countFn func(ctx context.Context, userID *uint, feature models.FeatureKind) (int64, error)
}

func (s *usageRepoStub) Track(ctx context.Context, userID *uint, feature models.FeatureKind) error {
	if s.trackFn == nil {
		return nil
	}
	return s.trackFn(ctx, userID, feature)
}

func (s *usageRepoStub) Count(ctx context.Context, userID *uint, feature models.FeatureKind) (int64, error) {
	if s.countFn == nil {
		return 0, nil
	}
	return s.countFn(ctx, userID, feature)
}

// generatorStub counts calls and returns a fixed result.
type generatorStub struct {
	calls   int
	prompts []string
	text    string
	err     error
}

func (g *generatorStub) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}
