package server

import (
	"codelearn/models"

	"github.com/gofiber/fiber/v2"
)

// TrackFeatureUsage handles POST /api/feature-usage/:featureType
// @Summary Record a feature use
// @Tags usage
// @Produce json
// @Param featureType path string true "explanation, feedback or project"
// @Success 201 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /feature-usage/{featureType} [post]
func (s *Server) TrackFeatureUsage(c *fiber.Ctx) error {
	return s.trackUsage(c, c.Params("featureType"))
}

// TrackUsage handles POST /api/track-usage with the feature in the body.
// @Summary Record a feature use (body form)
// @Tags usage
// @Accept json
// @Produce json
// @Param request body object{featureType=string} true "Feature"
// @Success 201 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /track-usage [post]
func (s *Server) TrackUsage(c *fiber.Ctx) error {
	var req struct {
		FeatureType string `json:"featureType"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	return s.trackUsage(c, req.FeatureType)
}

func (s *Server) trackUsage(c *fiber.Ctx, raw string) error {
	feature, err := models.ParseFeature(raw)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.usageService.Track(c.UserContext(), principal(c), feature); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Usage tracked",
	})
}

// FeatureUsageCount handles GET /api/feature-usage/:featureType/count
// @Summary Usage count for the caller
// @Description Anonymous callers share one bucket
// @Tags usage
// @Produce json
// @Param featureType path string true "explanation, feedback or project"
// @Success 200 {object} object{count=int}
// @Failure 400 {object} models.ErrorResponse
// @Router /feature-usage/{featureType}/count [get]
func (s *Server) FeatureUsageCount(c *fiber.Ctx) error {
	feature, err := models.ParseFeature(c.Params("featureType"))
	if err != nil {
		return respondServiceError(c, err)
	}

	count, err := s.usageService.Count(c.UserContext(), principal(c), feature)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}
