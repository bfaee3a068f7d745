// Package service holds the business rules behind each API operation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"codelearn/internal/auth"
	"codelearn/internal/observability"
	"codelearn/internal/repository"
	"codelearn/internal/validation"
	"codelearn/models"
)

// AuthService registers users, checks credentials and manages tokens.
type AuthService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens *auth.TokenService
}

type RegisterInput struct {
	Username       string
	Email          string
	Password       string
	FullName       string
	PhoneNumber    string
	Profession     string
	ReferralSource string
}

type LoginInput struct {
	// Login holds either a username or an email address.
	Login    string
	Password string
}

type UpdatePasswordInput struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenService) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// TokenTTL is the lifetime of tokens issued by this service.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = validation.NormalizeEmail(in.Email)

	var errs validation.FieldErrors
	errs.Check(validation.ValidateUsername(in.Username))
	errs.Check(validation.ValidateEmail(in.Email))
	errs.Check(validation.ValidatePassword(in.Password))
	errs.Check(validation.ValidateRequired("fullName", in.FullName))
	errs.Check(validation.ValidateRequired("phoneNumber", in.PhoneNumber))
	errs.Check(validation.ValidateRequired("profession", in.Profession))
	errs.Check(validation.ValidateRequired("referralSource", in.ReferralSource))
	if !errs.Empty() {
		observability.AuthEvents.WithLabelValues("register", "invalid").Inc()
		return nil, models.NewValidationError(errs.Error())
	}

	existing, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		observability.AuthEvents.WithLabelValues("register", "conflict").Inc()
		return nil, models.NewConflictError("Username already exists")
	}

	existing, err = s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		observability.AuthEvents.WithLabelValues("register", "conflict").Inc()
		return nil, models.NewConflictError("Email already exists")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		Password:       hash,
		FullName:       strings.TrimSpace(in.FullName),
		PhoneNumber:    strings.TrimSpace(in.PhoneNumber),
		Profession:     strings.TrimSpace(in.Profession),
		ReferralSource: strings.TrimSpace(in.ReferralSource),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			observability.AuthEvents.WithLabelValues("register", "conflict").Inc()
		}
		return nil, err
	}
	user.Password = ""

	observability.AuthEvents.WithLabelValues("register", "success").Inc()
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	login := strings.TrimSpace(in.Login)
	if login == "" || in.Password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	user, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		auth.BurnVerify(s.hasher, in.Password)
		observability.AuthEvents.WithLabelValues("login", "failure").Inc()
		return nil, models.NewInvalidCredentialsError()
	}
	if !s.hasher.Verify(user.Password, in.Password) {
		observability.AuthEvents.WithLabelValues("login", "failure").Inc()
		return nil, models.NewInvalidCredentialsError()
	}
	user.Password = ""

	observability.AuthEvents.WithLabelValues("login", "success").Inc()
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Authenticate resolves a bearer token to its user. Any failure is UNAUTHORIZED.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	userID, err := s.tokens.Verify(ctx, token)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("User not found")
	}
	return user, nil
}

// Logout revokes token when revocation is available. It never fails the caller.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.tokens.Revoke(ctx, token); err != nil {
		slog.WarnContext(ctx, "token revocation failed", slog.String("error", err.Error()))
		observability.AuthEvents.WithLabelValues("logout", "revoke_failed").Inc()
		return
	}
	observability.AuthEvents.WithLabelValues("logout", "success").Inc()
}

func (s *AuthService) UpdatePassword(ctx context.Context, in UpdatePasswordInput) error {
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return models.NewValidationError("Current password and new password are required")
	}
	if err := validation.ValidatePassword(in.NewPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	user, err := s.users.GetWithPassword(ctx, in.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewNotFoundError("User", in.UserID)
	}

	if !s.hasher.Verify(user.Password, in.CurrentPassword) {
		observability.AuthEvents.WithLabelValues("update_password", "failure").Inc()
		return &models.AppError{
			Code:    models.CodeInvalidCredentials,
			Message: "Current password is incorrect",
		}
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := s.users.UpdatePassword(ctx, in.UserID, hash); err != nil {
		return err
	}

	observability.AuthEvents.WithLabelValues("update_password", "success").Inc()
	return nil
}
