package handler

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

type HomeHandler struct {
	tmpl *template.Template
}

// NewHomeHandler parses the embedded landing page
func NewHomeHandler() (*HomeHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &HomeHandler{tmpl: tmpl}, nil
}

func (h *HomeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/", h.Home)
}

// Home renders the landing page
// @Summary      Landing page
// @Tags         common
// @Produce      html
// @Success      200
// @Router       / [get]
func (h *HomeHandler) Home(c *gin.Context) {
	c.Render(http.StatusOK, render.HTML{
		Template: h.tmpl,
		Name:     "index.html",
		Data: gin.H{
			"Title":   "User Manager",
			"DocsURL": "/swagger/index.html",
		},
	})
}
