package service

import (
	"context"
	"strings"

	"codelearn/internal/repository"
	"codelearn/internal/validation"
	"codelearn/models"
)

type ProjectService struct {
	projects repository.ProjectRepository
}

type SaveProjectInput struct {
	OwnerID     uint
	Title       string
	Description string
	Content     string
}

func NewProjectService(projects repository.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

func (s *ProjectService) Save(ctx context.Context, in SaveProjectInput) (*models.SavedProject, error) {
	title := strings.TrimSpace(in.Title)
	if err := validation.ValidateTitle(title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateRequired("content", in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	project := &models.SavedProject{
		UserID:      in.OwnerID,
		Title:       title,
		Description: in.Description,
		Content:     in.Content,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) List(ctx context.Context, ownerID uint) ([]models.SavedProject, error) {
	return s.projects.ListByOwner(ctx, ownerID)
}

// Delete removes projectID if ownerID owns it.
func (s *ProjectService) Delete(ctx context.Context, ownerID, projectID uint) error {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return models.NewNotFoundError("Project", projectID)
	}
	if project.UserID != ownerID {
		return models.NewForbiddenError("You can only delete your own projects")
	}
	return s.projects.Delete(ctx, projectID)
}
