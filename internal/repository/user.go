package repository

import (
	"context"
	"errors"
	"strings"

	"codelearn/internal/cache"
	"codelearn/internal/observability"
	"codelearn/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
// Lookups return (nil, nil) when no user matches.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByLogin matches login against username or email and includes the password hash.
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	// GetWithPassword loads a user including the password hash.
	GetWithPassword(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	Delete(ctx context.Context, id uint) error
}

// userRepository implements UserRepository
type userRepository struct {
	db    *gorm.DB
	cache *cache.Store
}

// NewUserRepository creates a new user repository. store may be nil.
func NewUserRepository(db *gorm.DB, store *cache.Store) UserRepository {
	return &userRepository{db: db, cache: store}
}

var errUserNotFound = errors.New("user not found")

func (r *userRepository) public(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Select(models.PublicColumns)
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("get_by_id", "users")()

	var user models.User
	err := r.cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		err := r.public(ctx).First(&user, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errUserNotFound
		}
		return err
	})
	if errors.Is(err, errUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) firstWhere(q *gorm.DB) (*models.User, error) {
	var user models.User
	err := q.First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	defer observability.TrackQuery("get_by_username", "users")()
	return r.firstWhere(r.public(ctx).Where("username = ?", username))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer observability.TrackQuery("get_by_email", "users")()
	return r.firstWhere(r.public(ctx).Where("email = ?", strings.ToLower(email)))
}

func (r *userRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	defer observability.TrackQuery("find_by_login", "users")()
	q := r.db.WithContext(ctx).Where("username = ? OR email = ?", login, strings.ToLower(login))
	return r.firstWhere(q)
}

func (r *userRepository) GetWithPassword(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("get_with_password", "users")()
	return r.firstWhere(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", "users")()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return userConflict(err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	defer observability.TrackQuery("update_password", "users")()

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	r.cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "users")()

	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	r.cache.InvalidateUser(ctx, id)
	return nil
}
