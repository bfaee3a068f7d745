package repository

import (
	"context"
	"errors"

	"codelearn/internal/observability"
	"codelearn/models"

	"gorm.io/gorm"
)

// ProjectRepository defines data access for saved projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.SavedProject) error
	// ListByOwner returns the owner's projects, newest first.
	ListByOwner(ctx context.Context, ownerID uint) ([]models.SavedProject, error)
	// GetByID returns (nil, nil) when the project does not exist.
	GetByID(ctx context.Context, id uint) (*models.SavedProject, error)
	Delete(ctx context.Context, id uint) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.SavedProject) error {
	defer observability.TrackQuery("create", "saved_projects")()

	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.SavedProject, error) {
	defer observability.TrackQuery("list_by_owner", "saved_projects")()

	projects := make([]models.SavedProject, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&projects).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return projects, nil
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (*models.SavedProject, error) {
	defer observability.TrackQuery("get_by_id", "saved_projects")()

	var project models.SavedProject
	err := r.db.WithContext(ctx).First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &project, nil
}

func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "saved_projects")()

	res := r.db.WithContext(ctx).Delete(&models.SavedProject{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Project", id)
	}
	return nil
}
