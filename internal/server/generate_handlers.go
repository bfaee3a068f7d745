package server

import (
	"codelearn/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GenerateExplanation handles POST /api/generate/explanation
// @Summary Explain code
// @Description Anonymous callers get three free uses and English output only
// @Tags generate
// @Accept json
// @Produce json
// @Param request body object{code=string,programmingLanguage=string,explanationLanguage=string,explanationTone=string} true "Snippet"
// @Success 200 {object} object{explanation=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /generate/explanation [post]
func (s *Server) GenerateExplanation(c *fiber.Ctx) error {
	var req struct {
		Code                string `json:"code"`
		ProgrammingLanguage string `json:"programmingLanguage"`
		ExplanationLanguage string `json:"explanationLanguage"`
		ExplanationTone     string `json:"explanationTone"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	text, err := s.generationService.Explain(c.UserContext(), principal(c), service.ExplainInput{
		Code:                req.Code,
		ProgrammingLanguage: req.ProgrammingLanguage,
		ExplanationLanguage: req.ExplanationLanguage,
		ExplanationTone:     req.ExplanationTone,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"explanation": text})
}

// GenerateFeedback handles POST /api/generate/feedback
// @Summary Review code
// @Tags generate
// @Accept json
// @Produce json
// @Param request body object{code=string,programmingLanguage=string} true "Snippet"
// @Success 200 {object} object{feedback=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /generate/feedback [post]
func (s *Server) GenerateFeedback(c *fiber.Ctx) error {
	var req struct {
		Code                string `json:"code"`
		ProgrammingLanguage string `json:"programmingLanguage"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	text, err := s.generationService.Review(c.UserContext(), principal(c), service.ReviewInput{
		Code:                req.Code,
		ProgrammingLanguage: req.ProgrammingLanguage,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"feedback": text})
}

// GenerateProject handles POST /api/generate/project
// @Summary Suggest a project idea
// @Tags generate
// @Accept json
// @Produce json
// @Param request body object{skillLevel=string,programmingLanguage=string,interestArea=string,additionalInterests=string} true "Learner profile"
// @Success 200 {object} object{projectIdea=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /generate/project [post]
func (s *Server) GenerateProject(c *fiber.Ctx) error {
	var req struct {
		SkillLevel          string `json:"skillLevel"`
		ProgrammingLanguage string `json:"programmingLanguage"`
		InterestArea        string `json:"interestArea"`
		AdditionalInterests string `json:"additionalInterests"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	text, err := s.generationService.SuggestProject(c.UserContext(), principal(c), service.ProjectIdeaInput{
		SkillLevel:          req.SkillLevel,
		ProgrammingLanguage: req.ProgrammingLanguage,
		InterestArea:        req.InterestArea,
		AdditionalInterests: req.AdditionalInterests,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"projectIdea": text})
}
