package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/mehrbod2002/horizon/internal/config"
	"github.com/mehrbod2002/horizon/internal/middleware"
	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/mehrbod2002/horizon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RegisterRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Name string `json:"name" binding:"required"`
}

type UserHandler struct {
	authService service.AuthService
	logService  service.LogService
	cfg         *config.Config
	log         *logrus.Logger
}

func NewUserHandler(authService service.AuthService, logService service.LogService, cfg *config.Config, log *logrus.Logger) *UserHandler {
	return &UserHandler{authService: authService, logService: logService, cfg: cfg, log: log}
}

func (h *UserHandler) issueToken(c *gin.Context, session *models.Session, status int, message string) {
	ttl := h.cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token, err := middleware.GenerateJWT(session.User.ID, session.ID, ttl, h.cfg)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, status, gin.H{
		"message":    message,
		"token":      token,
		"session_id": session.ID,
		"user":       session.User,
	})
}

// @Summary Register a new user
// @Description Creates a user with a fresh customer id and public URL and opens a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} map[string]interface{} "User created"
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 409 {object} map[string]interface{} "User already exists"
// @Failure 500 {object} map[string]interface{} "Server error"
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON")
		return
	}

	session, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	metadata := map[string]interface{}{
		"email":       session.User.Email,
		"customer_id": session.User.CustomerID,
	}
	auditAction(c, h.log, h.logService, session.User.ID, "UserRegister", "User registered", metadata)

	h.issueToken(c, session, http.StatusCreated, "Registration successful")
}

// @Summary Log in
// @Description Opens a session for the email. Unknown emails get a new account.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{} "Login successful"
// @Failure 400 {object} map[string]interface{} "Invalid JSON"
// @Failure 401 {object} map[string]interface{} "Invalid credentials"
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON")
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	auditAction(c, h.log, h.logService, session.User.ID, "UserLogin", "User logged in", map[string]interface{}{
		"session_id": session.ID,
	})

	h.issueToken(c, session, http.StatusOK, "Login successful")
}

// @Summary Log out
// @Description Removes the caller's session
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Logged out"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	userID := c.GetString("user_id")
	sessionID := c.GetString("session_id")
	if err := h.authService.Logout(c.Request.Context(), sessionID); err != nil {
		respondError(c, h.log, err)
		return
	}

	auditAction(c, h.log, h.logService, userID, "UserLogout", "User logged out", map[string]interface{}{
		"session_id": sessionID,
	})

	respond(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// @Summary Current user
// @Description Returns the session's user and the sum of their linked balances
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Current user"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.authService.CurrentUser(c.Request.Context(), c.GetString("session_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"user":          user,
		"total_balance": user.TotalBalance(),
	})
}

// @Summary Update current user
// @Description Changes the display name in the user store and the session
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body UpdateUserRequest true "New display name"
// @Success 200 {object} map[string]interface{} "User updated"
// @Failure 400 {object} map[string]interface{} "Invalid JSON"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		badRequest(c, "Name is required")
		return
	}

	user, err := h.authService.UpdateUser(c.Request.Context(), c.GetString("session_id"), func(u *models.User) error {
		u.Name = name
		return nil
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	auditAction(c, h.log, h.logService, user.ID, "UpdateUser", "User profile updated", map[string]interface{}{
		"name": name,
	})

	respond(c, http.StatusOK, gin.H{"message": "User updated", "user": user})
}
