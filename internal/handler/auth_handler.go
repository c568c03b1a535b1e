package handler

import (
	"net/http"

	"usermanager/internal/model"
	"usermanager/internal/service"
	"usermanager/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type AuthHandler struct {
	userService service.UserService
}

// NewAuthHandler sets up the routing dependencies for registration and login
func NewAuthHandler(userService service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// RegisterRoutes binds the public endpoints
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register/", h.Register)
		auth.POST("/token", h.Login)
	}

	// Older clients register through the users router
	router.POST("/users/register/", h.Register)
}

// Register creates an account with the "user" role
// @Summary      Register
// @Description  Self-registration. The account always receives the "user" role.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateUserRequest  true  "Registration payload"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /auth/register/ [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if _, err := h.userService.Register(c.Request.Context(), req, model.RoleUser, nil); err != nil {
		serviceError(c, err, "creating")
		return
	}

	c.JSON(http.StatusCreated, response.Message("User created successfully"))
}

// Login exchanges form credentials for a bearer token
// @Summary      Login
// @Description  OAuth2 password flow. The username field accepts a username or an email.
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Username or email"
// @Param        password  formData  string  true  "Password"
// @Success      200       {object}  service.TokenResponse
// @Failure      401       {object}  response.Response
// @Failure      422       {object}  response.Response
// @Router       /auth/token [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindWith(&req, binding.FormPost); err != nil {
		bindError(c, err)
		return
	}

	token, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		serviceError(c, err, "authenticating")
		return
	}

	c.JSON(http.StatusOK, token)
}
