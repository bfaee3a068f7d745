// Package repository provides data access for users, usage events, projects and feedback.
package repository

import (
	"errors"
	"strings"

	"codelearn/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// isUniqueConstraintError recognizes unique violations from postgres, sqlite,
// and GORM's translated form.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// uniqueViolationDetail returns the constraint or column text of a unique
// violation when the driver exposes it.
func uniqueViolationDetail(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.ToLower(pgErr.ConstraintName + " " + pgErr.Detail)
	}
	return strings.ToLower(err.Error())
}

// userConflict maps a unique violation on users to a field-specific conflict.
func userConflict(err error) *models.AppError {
	detail := uniqueViolationDetail(err)
	switch {
	case strings.Contains(detail, "email"):
		return models.NewConflictError("Email already exists")
	case strings.Contains(detail, "username"):
		return models.NewConflictError("Username already exists")
	default:
		return models.NewConflictError("Username or email already exists")
	}
}
