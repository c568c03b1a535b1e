package handler

import (
	"net/http"

	"usermanager/internal/middleware"
	"usermanager/internal/model"
	"usermanager/internal/service"
	"usermanager/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

// NewUserHandler sets up the routing dependencies for self-service endpoints
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes binds /users/me behind authn, the bearer-token middleware
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, authn gin.HandlerFunc) {
	me := router.Group("/users/me", authn)
	{
		me.GET("", middleware.RequirePermission(model.PermSelfRead), h.GetMe)
		me.DELETE("", middleware.RequirePermission(model.PermSelfDelete), h.DeleteMe)
	}
}

// GetMe returns the authenticated caller
// @Summary      Get current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  service.UserResponse
// @Failure      401  {object}  response.Response
// @Router       /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, service.ToUserResponse(user))
}

// DeleteMe removes the caller's own account
// @Summary      Delete current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /users/me [delete]
func (h *UserHandler) DeleteMe(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if err := h.userService.DeleteUser(c.Request.Context(), user.Identification, user); err != nil {
		serviceError(c, err, "deleting")
		return
	}
	c.JSON(http.StatusOK, response.Message("User deleted successfully"))
}
