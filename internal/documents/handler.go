package documents

import (
	"github.com/gin-gonic/gin"

	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
	"github.com/Smith-Faldu/legal-lens/internal/shared/server/middleware"
	"github.com/Smith-Faldu/legal-lens/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/history", h.list)
	rg.GET("/documents/:id", h.get)
	rg.PATCH("/documents/:id", h.update)
	rg.DELETE("/documents/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	opts, err := ParseListOptions(
		c.Query("page"),
		c.Query("limit"),
		c.Query("sortBy"),
		c.Query("order"),
		c.Query("cursor"),
	)
	if err != nil {
		respond.Failure(c, err)
		return
	}

	page, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), opts)
	if err != nil {
		respond.Failure(c, err)
		return
	}

	docs := make([]DocumentResponse, 0, len(page.Documents))
	for _, doc := range page.Documents {
		docs = append(docs, toResponse(doc, false))
	}
	respond.OK(c, gin.H{
		"documents":  docs,
		"pagination": toPagination(opts, page),
	})
}

func (h *Handler) get(c *gin.Context) {
	doc, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{"document": toResponse(doc, true)})
}

type updateRequest struct {
	FileName      *string `json:"fileName"`
	ExtractedText *string `json:"extractedText"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Failure(c, apperr.Validation("Invalid request body"))
		return
	}

	doc, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), Patch{
		FileName:      req.FileName,
		ExtractedText: req.ExtractedText,
	})
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{"document": toResponse(doc, true)})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Document deleted"})
}
