package handler

import (
	"log"
	"net/http"

	"usermanager/internal/middleware"
	"usermanager/internal/model"
	"usermanager/internal/service"
	"usermanager/pkg/pagination"
	"usermanager/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/audit-logs", middleware.RequirePermission(model.PermAuditRead), h.GetAuditLogs)
}

// GetAuditLogs returns one page of the audit trail, newest first
// @Summary      Get audit logs
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20, max 100)"
// @Success      200    {object}  pagination.Page[service.AuditLogResponse]
// @Router       /admin/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	params := pagination.Parse(c)

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), params)
	if err != nil {
		log.Printf("audit: list failed: %v", err)
		c.JSON(http.StatusInternalServerError, response.Error("Failed to retrieve audit logs"))
		return
	}

	c.JSON(http.StatusOK, pagination.Wrap(logs, total, params))
}
