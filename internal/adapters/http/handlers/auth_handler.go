package handlers

import (
	"strings"
	"time"

	"gadgethub-api/internal/adapters/http/middleware"
	"gadgethub-api/internal/config"
	"gadgethub-api/internal/core/services"
	"gadgethub-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Email    string `json:"email" example:"budi@gmail.com"`
	Password string `json:"password" example:"rahasia123"`
	Location string `json:"location" example:"Bandung"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email" example:"customer@gmail.com"`
	Password string `json:"password" example:"123456"`
}

// VerifyRequest carries the token from the verification link
type VerifyRequest struct {
	Token string `json:"token"`
}

// Register handles user registration
// @Summary Register new account
// @Description Create an unverified customer account. The branch follows the location. A verification link is e-mailed.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if strings.TrimSpace(req.Email) == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	user, err := h.authService.Register(c.Context(), &services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Location: req.Location,
	})
	if err != nil {
		return fail(c, err, "Failed to register user")
	}

	return response.Created(c, "Registrasi berhasil, cek email untuk verifikasi", fiber.Map{
		"user": user,
	})
}

// Verify handles e-mail verification
// @Summary Verify account
// @Description Mark the account named by a verification token as verified
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body VerifyRequest true "Verification token"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/verify [post]
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return response.BadRequest(c, "Token is required")
	}

	user, err := h.authService.Verify(c.Context(), req.Token)
	if err != nil {
		return fail(c, err, "Failed to verify account")
	}

	return response.Success(c, "Akun berhasil diverifikasi", fiber.Map{
		"user": user,
	})
}

// Login handles user login
// @Summary Login
// @Description Authenticate a verified account and return tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	result, err := h.authService.Login(c.Context(), &services.LoginInput{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		return fail(c, err, "Failed to login")
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Login successful", fiber.Map{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"user":          result.User,
	})
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Rotate the refresh token cookie and issue a new access token
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		return response.Unauthorized(c, "Refresh token not found")
	}

	result, err := h.authService.RefreshToken(c.Context(), refreshToken)
	if err != nil {
		h.clearAuthCookies(c)
		return fail(c, err, "Failed to refresh token")
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Token refreshed successfully", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.User,
	})
}

// Logout handles user logout
// @Summary Logout
// @Description Revoke the refresh token cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if refreshToken := c.Cookies("refresh_token"); refreshToken != "" {
		_ = h.authService.Logout(c.Context(), refreshToken)
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out successfully", nil)
}

// LogoutAll handles logout from all devices
// @Summary Logout from all devices
// @Description Revoke all refresh tokens for the user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.authService.LogoutAll(c.Context(), actor.ID); err != nil {
		return fail(c, err, "Failed to logout from all devices")
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out from all devices", nil)
}

// Me returns the current user info
// @Summary Get current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.authService.GetUserByID(c.Context(), actor.ID)
	if err != nil {
		return fail(c, err, "Failed to load user")
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": user,
	})
}

func (h *AuthHandler) authCookie(name, value string, maxAge int) *fiber.Cookie {
	cookie := &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	}
	if maxAge < 0 {
		cookie.Expires = time.Now().Add(-1 * time.Hour)
	}
	return cookie
}

// setAuthCookies sets access and refresh token cookies
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(h.authCookie("access_token", accessToken, h.cfg.JWT.AccessTokenMins*60))
	c.Cookie(h.authCookie("refresh_token", refreshToken, h.cfg.JWT.RefreshTokenDays*24*60*60))
}

// clearAuthCookies clears auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	c.Cookie(h.authCookie("access_token", "", -1))
	c.Cookie(h.authCookie("refresh_token", "", -1))
}
