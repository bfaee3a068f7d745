package server

import (
	"time"

	"codelearn/internal/service"
	"codelearn/models"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	FullName       string `json:"fullName"`
	PhoneNumber    string `json:"phoneNumber"`
	Profession     string `json:"profession"`
	ReferralSource string `json:"referralSource"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// setAuthCookie mirrors the issued token into an HttpOnly cookie.
func (s *Server) setAuthCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Register handles POST /api/register
// @Summary Register
// @Description Create an account and receive a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "Registration details"
// @Success 201 {object} object{token=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	result, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		FullName:       req.FullName,
		PhoneNumber:    req.PhoneNumber,
		Profession:     req.Profession,
		ReferralSource: req.ReferralSource,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.setAuthCookie(c, result.Token, result.ExpiresAt)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  result.User,
		"token": result.Token,
	})
}

// Login handles POST /api/login
// @Summary Login
// @Description Authenticate with a username or email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Credentials"
// @Success 200 {object} object{token=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	login := req.Username
	if login == "" {
		login = req.Email
	}

	result, err := s.authService.Login(c.UserContext(), service.LoginInput{
		Login:    login,
		Password: req.Password,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.setAuthCookie(c, result.Token, result.ExpiresAt)
	return c.JSON(fiber.Map{
		"user":  result.User,
		"token": result.Token,
	})
}

// Me handles GET /api/me
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{user=models.User}
// @Failure 401 {object} models.ErrorResponse
// @Router /me [get]
func (s *Server) Me(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return respondServiceError(c, models.NewUnauthorizedError("Authentication required"))
	}
	return c.JSON(fiber.Map{"user": user})
}

// Logout handles POST /api/logout
// @Summary Logout
// @Description Clears the session cookie and revokes the presented token
// @Tags auth
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	s.authService.Logout(c.UserContext(), requestToken(c))
	s.clearAuthCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// UpdatePassword handles POST /api/update-password
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body updatePasswordRequest true "Current and new password"
// @Success 200 {object} object{success=bool}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /update-password [post]
func (s *Server) UpdatePassword(c *fiber.Ctx) error {
	var req updatePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	err := s.authService.UpdatePassword(c.UserContext(), service.UpdatePasswordInput{
		UserID:          userID(c),
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
