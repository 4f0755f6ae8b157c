package history

import (
	"github.com/gin-gonic/gin"

	"github.com/Smith-Faldu/legal-lens/internal/shared/server/middleware"
	"github.com/Smith-Faldu/legal-lens/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/history/recent", h.recent)
}

func (h *Handler) recent(c *gin.Context) {
	limit, err := ParseLimit(c.Query("limit"))
	if err != nil {
		respond.Failure(c, err)
		return
	}
	entries, err := h.Svc.Recent(c.Request.Context(), middleware.UserIDFromContext(c), limit)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{"history": entries})
}
