package template

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/smartplan-api/internal/handler"
	"github.com/jwalitptl/smartplan-api/internal/service/template"
)

type Handler struct {
	svc *template.Service
}

func NewHandler(svc *template.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes exposes the template catalog. The catalog is public so the
// onboarding flow can show available plan types before signup.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/templates", h.List)
}

func (h *Handler) List(c *gin.Context) {
	templates, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(templates))
}
