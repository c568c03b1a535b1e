package handler

import (
	"errors"
	"net/http"
	"strconv"

	"usermanager/internal/middleware"
	"usermanager/internal/model"
	"usermanager/internal/service"
	"usermanager/pkg/response"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	roleService service.RoleService
}

func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// RegisterRoutes binds the read-only role catalogue onto an authenticated /admin group
func (h *RoleHandler) RegisterRoutes(admin *gin.RouterGroup) {
	roles := admin.Group("/roles", middleware.RequirePermission(model.PermRolesRead))
	{
		roles.GET("", h.ListRoles)
		roles.GET("/:id", h.GetRole)
	}
}

// ListRoles returns all roles with their permissions
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   service.RoleResponse
// @Router       /admin/roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error("Failed to fetch roles"))
		return
	}
	c.JSON(http.StatusOK, roles)
}

// GetRole returns a single role by ID
// @Summary      Get role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Role ID"
// @Success      200  {object}  service.RoleResponse
// @Failure      404  {object}  response.Response
// @Router       /admin/roles/{id} [get]
func (h *RoleHandler) GetRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error("Role not found"))
		return
	}

	role, err := h.roleService.GetRole(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			c.JSON(http.StatusNotFound, response.Error("Role not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error("Failed to fetch role"))
		return
	}
	c.JSON(http.StatusOK, role)
}
