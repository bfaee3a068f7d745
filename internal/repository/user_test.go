package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"codelearn/internal/cache"
	"codelearn/internal/testutil"
	"codelearn/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func newUser(username string) *models.User {
	return &models.User{
		Username:       username,
		Email:          username + "@example.com",
		Password:       "$2a$04$hash",
		FullName:       "Full " + username,
		PhoneNumber:    "555",
		Profession:     "Dev",
		ReferralSource: "friend",
	}
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	user := newUser("alice")
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, "Full alice", byID.FullName)
	assert.Empty(t, byID.Password)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Empty(t, byName.Password)

	byEmail, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Empty(t, byEmail.Password)
}

func TestUserRepository_NotFoundIsNil(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	u, err := repo.GetByID(ctx, 99)
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = repo.GetByUsername(ctx, "ghost")
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = repo.GetByEmail(ctx, "ghost@example.com")
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = repo.FindByLogin(ctx, "ghost")
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserRepository_FindByLoginIncludesHash(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("bob")))

	for _, login := range []string{"bob", "bob@example.com", "BOB@example.com"} {
		u, err := repo.FindByLogin(ctx, login)
		require.NoError(t, err, login)
		require.NotNil(t, u, login)
		assert.Equal(t, "$2a$04$hash", u.Password)
	}
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("carol")))

	dupName := newUser("carol")
	dupName.Email = "other@example.com"
	err := repo.Create(ctx, dupName)
	assert.True(t, errors.Is(err, models.ErrConflict))
	assert.Contains(t, err.Error(), "Username")

	dupEmail := newUser("carol2")
	dupEmail.Email = "carol@example.com"
	err = repo.Create(ctx, dupEmail)
	assert.True(t, errors.Is(err, models.ErrConflict))
	assert.Contains(t, err.Error(), "Email")
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	user := newUser("dave")
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "$2a$04$new"))

	withHash, err := repo.GetWithPassword(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "$2a$04$new", withHash.Password)

	err = repo.UpdatePassword(ctx, 999, "x")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := NewUserRepository(db, nil)
	projects := NewProjectRepository(db)
	usage := NewUsageRepository(db)
	ctx := context.Background()

	user := newUser("erin")
	require.NoError(t, users.Create(ctx, user))
	require.NoError(t, projects.Create(ctx, &models.SavedProject{UserID: user.ID, Title: "t", Content: "c"}))
	require.NoError(t, usage.Track(ctx, &user.ID, models.FeatureFeedback))

	require.NoError(t, users.Delete(ctx, user.ID))

	list, err := projects.ListByOwner(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	n, err := usage.Count(ctx, &user.ID, models.FeatureFeedback)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.True(t, errors.Is(users.Delete(ctx, user.ID), models.ErrNotFound))
}

func TestUserRepository_GetByIDUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db, cache.NewStore(rdb))
	ctx := context.Background()

	user := newUser("frank")
	require.NoError(t, repo.Create(ctx, user))

	_, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.UserKey(user.ID)))

	cached, err := mr.Get(cache.UserKey(user.ID))
	require.NoError(t, err)
	assert.NotContains(t, cached, "$2a$")

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "$2a$04$rotated"))
	assert.False(t, mr.Exists(cache.UserKey(user.ID)))
}

func TestUserRepository_MapsPostgresErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Unique violation", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserRepository(db, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"})
		mock.ExpectRollback()

		err := repo.Create(ctx, newUser("gina"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrConflict))
		assert.Contains(t, err.Error(), "Email already exists")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Driver failure", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserRepository(db, nil)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","username","email"`)).
			WillReturnError(errors.New("connection reset"))

		u, err := repo.GetByUsername(ctx, "gina")
		assert.Nil(t, u)
		assert.True(t, errors.Is(err, models.ErrInternal))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Lookup selects no password", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserRepository(db, nil)

		rows := sqlmock.NewRows([]string{"id", "username", "email"}).AddRow(1, "gina", "gina@example.com")
		mock.ExpectQuery(`SELECT "id","username","email","full_name","phone_number","profession","referral_source","created_at","updated_at" FROM "users"`).
			WillReturnRows(rows)

		u, err := repo.GetByEmail(ctx, "gina@example.com")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "gina", u.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.False(t, isUniqueConstraintError(nil))
	assert.True(t, isUniqueConstraintError(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueConstraintError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueConstraintError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: users.username")))
	assert.False(t, isUniqueConstraintError(errors.New("timeout")))
}
