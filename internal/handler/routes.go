package handler

import "github.com/gin-gonic/gin"

// Handlers groups the HTTP handlers mounted by the API.
type Handlers struct {
	Home  *HomeHandler
	Auth  *AuthHandler
	User  *UserHandler
	Admin *AdminHandler
	Role  *RoleHandler
	Audit *AuditHandler
}

// Register mounts every route. authn resolves the bearer token and must run
// before any permission check.
func (h Handlers) Register(router *gin.Engine, authn gin.HandlerFunc) {
	root := router.Group("")
	h.Home.RegisterRoutes(root)
	h.Auth.RegisterRoutes(root)
	h.User.RegisterRoutes(root, authn)

	admin := router.Group("/admin", authn)
	h.Admin.RegisterRoutes(admin)
	h.Role.RegisterRoutes(admin)
	h.Audit.RegisterRoutes(admin)
}
