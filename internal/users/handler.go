package users

import (
	"github.com/gin-gonic/gin"

	"github.com/Smith-Faldu/legal-lens/internal/shared/auth"
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
	rg.POST("/auth/verify", h.verify)
	rg.GET("/auth/me", h.me)
}

func (h *Handler) verify(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respond.Failure(c, auth.Fail(auth.ReasonMissing, nil))
		return
	}
	user, err := h.Svc.SignIn(c.Request.Context(), identity)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{"user": user})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{"user": user})
}
