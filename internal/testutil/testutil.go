// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"testing"

	"codelearn/internal/database"
	"codelearn/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewTestDB returns a migrated in-memory SQLite database with foreign keys enforced.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// CreateUser inserts a user whose password hash matches password.
func CreateUser(t *testing.T, db *gorm.DB, username, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:       username,
		Email:          username + "@example.com",
		Password:       string(hash),
		FullName:       "Test " + username,
		PhoneNumber:    "555-0100",
		Profession:     "Student",
		ReferralSource: "search",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
