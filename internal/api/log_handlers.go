package api

import (
	"net/http"
	"strconv"

	"github.com/mehrbod2002/horizon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type LogHandler struct {
	logService service.LogService
	log        *logrus.Logger
}

func NewLogHandler(logService service.LogService, log *logrus.Logger) *LogHandler {
	return &LogHandler{logService: logService, log: log}
}

func pageParams(c *gin.Context) (int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		badRequest(c, "Invalid page number")
		return 0, 0, false
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		badRequest(c, "Invalid limit")
		return 0, 0, false
	}
	return page, limit, true
}

// @Summary Get all logs
// @Description Audit log entries, newest first (admin only)
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{} "Log entries"
// @Failure 400 {object} map[string]interface{} "Invalid query parameters"
// @Router /admin/logs [get]
func (h *LogHandler) GetAllLogs(c *gin.Context) {
	page, limit, ok := pageParams(c)
	if !ok {
		return
	}
	logs, err := h.logService.GetAllLogs(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"logs": logs, "page": page, "limit": limit})
}

// @Summary Get logs by user ID
// @Description Audit log entries of one user, newest first (admin only)
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "User ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{} "Log entries"
// @Failure 400 {object} map[string]interface{} "Invalid query parameters"
// @Router /admin/logs/user/{user_id} [get]
func (h *LogHandler) GetLogsByUser(c *gin.Context) {
	page, limit, ok := pageParams(c)
	if !ok {
		return
	}
	logs, err := h.logService.GetLogsByUserID(c.Request.Context(), c.Param("user_id"), page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"logs": logs, "page": page, "limit": limit})
}
