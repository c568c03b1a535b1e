package handler

import (
	"net/http"

	"usermanager/internal/middleware"
	"usermanager/internal/model"
	"usermanager/internal/service"
	"usermanager/pkg/response"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	userService service.UserService
}

// NewAdminHandler sets up the routing dependencies for user administration
func NewAdminHandler(userService service.UserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

// RegisterRoutes binds the user management endpoints onto an authenticated /admin group
func (h *AdminHandler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/", middleware.RequirePermission(model.PermUsersRead), h.ListUsers)
	admin.POST("/register/", middleware.RequirePermission(model.PermUsersWrite), h.RegisterAdmin)
	admin.GET("/:identification", middleware.RequirePermission(model.PermUsersRead), h.GetUser)
	admin.PUT("/:identification", middleware.RequirePermission(model.PermUsersWrite), h.UpdateUser)
	admin.DELETE("/:identification", middleware.RequirePermission(model.PermUsersDelete), h.DeleteUser)
}

// ListUsers returns every user with their roles
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   service.UserResponse
// @Failure      401  {object}  response.Response
// @Router       /admin/ [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		serviceError(c, err, "fetching")
		return
	}
	c.JSON(http.StatusOK, users)
}

// RegisterAdmin creates an account with the "admin" role
// @Summary      Create administrator
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateUserRequest  true  "User payload"
// @Success      201      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /admin/register/ [post]
func (h *AdminHandler) RegisterAdmin(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	actor, _ := middleware.CurrentUser(c)
	if _, err := h.userService.Register(c.Request.Context(), req, model.RoleAdmin, actor); err != nil {
		serviceError(c, err, "creating")
		return
	}

	c.JSON(http.StatusCreated, response.Message("User created successfully"))
}

// GetUser fetches one user by identification
// @Summary      Get user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        identification  path      string  true  "User identification"
// @Success      200             {object}  service.UserResponse
// @Failure      404             {object}  response.Response
// @Router       /admin/{identification} [get]
func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetByIdentification(c.Request.Context(), c.Param("identification"))
	if err != nil {
		serviceError(c, err, "fetching")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser applies a partial update; omitted fields keep their value
// @Summary      Update user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        identification  path      string                     true  "User identification"
// @Param        payload         body      service.UpdateUserRequest  true  "Fields to change"
// @Success      200             {object}  response.Response
// @Failure      404             {object}  response.Response
// @Failure      409             {object}  response.Response
// @Failure      422             {object}  response.Response
// @Router       /admin/{identification} [put]
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	actor, _ := middleware.CurrentUser(c)
	if _, err := h.userService.UpdateUser(c.Request.Context(), c.Param("identification"), req, actor); err != nil {
		serviceError(c, err, "updating")
		return
	}

	c.JSON(http.StatusOK, response.Message("User updated successfully"))
}

// DeleteUser removes a user and their role links
// @Summary      Delete user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        identification  path      string  true  "User identification"
// @Success      200             {object}  response.Response
// @Failure      404             {object}  response.Response
// @Router       /admin/{identification} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("identification"), actor); err != nil {
		serviceError(c, err, "deleting")
		return
	}

	c.JSON(http.StatusOK, response.Message("User deleted successfully"))
}
