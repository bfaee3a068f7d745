package server

import (
	"codelearn/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SaveProject handles POST /api/projects
// @Summary Save a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,description=string,content=string} true "Project"
// @Success 201 {object} models.SavedProject
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /projects [post]
func (s *Server) SaveProject(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	project, err := s.projectService.Save(c.UserContext(), service.SaveProjectInput{
		OwnerID:     userID(c),
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

// ListProjects handles GET /api/projects
// @Summary List saved projects, newest first
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SavedProject
// @Failure 401 {object} models.ErrorResponse
// @Router /projects [get]
func (s *Server) ListProjects(c *fiber.Ctx) error {
	projects, err := s.projectService.List(c.UserContext(), userID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(projects)
}

// DeleteProject handles DELETE /api/projects/:id
// @Summary Delete a saved project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} object{success=bool}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{id} [delete]
func (s *Server) DeleteProject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.projectService.Delete(c.UserContext(), userID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
