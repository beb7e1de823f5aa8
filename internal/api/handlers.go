package api

import (
	"errors"
	"net/http"

	"github.com/mehrbod2002/horizon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var statusByError = map[error]int{
	service.ErrInvalidEmail:        http.StatusBadRequest,
	service.ErrPasswordMismatch:    http.StatusBadRequest,
	service.ErrPasswordTooShort:    http.StatusBadRequest,
	service.ErrRecipientRequired:   http.StatusBadRequest,
	service.ErrSelfTransfer:        http.StatusBadRequest,
	service.ErrInvalidAmount:       http.StatusBadRequest,
	service.ErrInvalidAccessToken:  http.StatusBadRequest,
	service.ErrInvalidCredentials:  http.StatusUnauthorized,
	service.ErrSessionNotFound:     http.StatusUnauthorized,
	service.ErrUserNotFound:        http.StatusNotFound,
	service.ErrRecipientNotFound:   http.StatusNotFound,
	service.ErrBankAccountNotFound: http.StatusNotFound,
	service.ErrEmailTaken:          http.StatusConflict,
}

// respondError writes the failure envelope. Errors the service does not name
// are logged and reported without detail.
func respondError(c *gin.Context, log *logrus.Logger, err error) {
	for target, status := range statusByError {
		if errors.Is(err, target) {
			c.JSON(status, gin.H{"success": false, "error": target.Error()})
			return
		}
	}
	log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}

// respond writes the success envelope around payload.
func respond(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func auditAction(c *gin.Context, log *logrus.Logger, logService service.LogService, userID, action, description string, metadata map[string]interface{}) {
	if err := logService.LogAction(c.Request.Context(), userID, action, description, c.ClientIP(), metadata); err != nil {
		log.WithError(err).WithField("action", action).Warn("failed to record audit log")
	}
}
