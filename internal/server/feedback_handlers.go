package server

import (
	"codelearn/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SubmitFeedback handles POST /api/feedback
// @Summary Send feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,feedback=string} true "Feedback"
// @Success 201 {object} object{message=string,id=int}
// @Failure 400 {object} models.ErrorResponse
// @Router /feedback [post]
func (s *Server) SubmitFeedback(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Feedback string `json:"feedback"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	in := service.FeedbackInput{Name: req.Name, Email: req.Email, Feedback: req.Feedback}
	if p := principal(c); !p.IsAnonymous() {
		in.UserID = p.UserID
	}

	fb, err := s.feedbackService.Submit(c.UserContext(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Feedback submitted successfully",
		"id":      fb.ID,
	})
}

// JoinEarlyAccess handles POST /api/early-access
// @Summary Join the early access list
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body object{email=string} true "Email"
// @Success 201 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /early-access [post]
func (s *Server) JoinEarlyAccess(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	if _, err := s.feedbackService.JoinEarlyAccess(c.UserContext(), req.Email); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Successfully joined early access",
	})
}

// EarlyAccessCount handles GET /api/early-access/count
// @Summary Number of early access signups
// @Tags feedback
// @Produce json
// @Success 200 {object} object{count=int}
// @Router /early-access/count [get]
func (s *Server) EarlyAccessCount(c *fiber.Ctx) error {
	count, err := s.feedbackService.EarlyAccessCount(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}
