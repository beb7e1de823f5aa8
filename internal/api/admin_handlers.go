package api

import (
	"net/http"

	"github.com/mehrbod2002/horizon/internal/config"
	"github.com/mehrbod2002/horizon/internal/middleware"
	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/mehrbod2002/horizon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AdminHandler struct {
	admin       *models.AdminAccount
	cfg         *config.Config
	userService service.UserService
	log         *logrus.Logger
}

func NewAdminHandler(admin *models.AdminAccount, cfg *config.Config, userService service.UserService, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		admin:       admin,
		cfg:         cfg,
		userService: userService,
		log:         log,
	}
}

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary Admin login
// @Description Authenticates the operator account and returns a JWT token
// @Tags Admin
// @Accept json
// @Produce json
// @Param credentials body AdminLoginRequest true "Admin credentials"
// @Success 200 {object} map[string]interface{} "JWT token"
// @Failure 400 {object} map[string]interface{} "Invalid JSON"
// @Failure 401 {object} map[string]interface{} "Invalid credentials"
// @Router /admin/login [post]
func (h *AdminHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON")
		return
	}

	if h.admin == nil || req.Username != h.admin.Username || h.admin.AccountType != "admin" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.admin.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}

	token, err := middleware.GenerateAdminJWT(h.admin.ID, h.cfg)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
	})
}

// @Summary List users
// @Description Returns every stored user without password hashes (admin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Users"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /admin/users [get]
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	users, err := h.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	out := make([]*models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	respond(c, http.StatusOK, gin.H{"users": out, "total": len(out)})
}
