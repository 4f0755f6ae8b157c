package analyses

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Smith-Faldu/legal-lens/internal/extract"
	"github.com/Smith-Faldu/legal-lens/internal/llm"
	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
	"github.com/Smith-Faldu/legal-lens/internal/shared/server/middleware"
	"github.com/Smith-Faldu/legal-lens/internal/shared/server/respond"
	"github.com/Smith-Faldu/legal-lens/internal/uploads"
)

// multipartOverhead allows for form boundaries and headers around the file.
const multipartOverhead = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes. ai runs before every route that
// calls the OCR or LLM providers.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, ai ...gin.HandlerFunc) {
	rg.POST("/upload", withHandlers(ai, h.upload)...)
	rg.POST("/analyze", withHandlers(ai, h.analyze)...)
	rg.POST("/analyze/chat", withHandlers(ai, h.chat)...)
	rg.POST("/chat", withHandlers(ai, h.chat)...)
	rg.GET("/analyses", h.list)
	rg.GET("/analyses/:id", h.get)
	rg.DELETE("/analyses/:id", h.delete)
}

func withHandlers(pre []gin.HandlerFunc, final gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(pre)+1)
	out = append(out, pre...)
	return append(out, final)
}

func (h *Handler) upload(c *gin.Context) {
	maxBytes := h.Svc.Ingestor.MaxBytes
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Failure(c, uploads.ErrFileTooLarge)
			return
		}
		respond.Failure(c, apperr.Validation("No file uploaded"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Failure(c, apperr.Validation("No file uploaded"))
		return
	}
	defer file.Close()

	ctx := WithPipeline(c.Request.Context(), middleware.RequestIDFromContext(c), "upload")
	res, err := h.Svc.Upload(ctx, middleware.UserIDFromContext(c), uploads.Upload{
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Size:     fileHeader.Size,
		Body:     file,
	})
	if err != nil {
		respond.Failure(c, err)
		return
	}

	entities := res.Extraction.Entities
	if entities == nil {
		entities = []extract.Entity{}
	}
	c.Set("documentId", res.Document.ID)
	c.Set("analysisId", res.Analysis.ID)
	respond.OK(c, gin.H{
		"documentId":    res.Document.ID,
		"fileName":      res.Document.FileName,
		"storageUri":    res.Document.StorageURI,
		"extractedText": res.Extraction.Text,
		"confidence":    res.Extraction.Confidence,
		"entities":      entities,
		"analysis":      res.Analysis.Answer,
		"analysisId":    res.Analysis.ID,
	})
}

type analyzeRequest struct {
	DocumentID          string     `json:"documentId"`
	GCSURI              string     `json:"gcsUri"`
	Question            string     `json:"question"`
	ConversationHistory []chatTurn `json:"conversationHistory"`
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Failure(c, apperr.Validation("Invalid request body"))
		return
	}
	turns, err := toTurns(req.ConversationHistory)
	if err != nil {
		respond.Failure(c, err)
		return
	}

	ctx := WithPipeline(c.Request.Context(), middleware.RequestIDFromContext(c), "analyze")
	analysis, err := h.Svc.Analyze(ctx, middleware.UserIDFromContext(c), AnalyzeInput{
		DocumentID: req.DocumentID,
		StorageURI: req.GCSURI,
		Question:   req.Question,
		History:    turns,
	})
	if err != nil {
		respond.Failure(c, err)
		return
	}
	c.Set("documentId", analysis.DocumentID)
	c.Set("analysisId", analysis.ID)
	respond.OK(c, gin.H{"analysisId": analysis.ID, "summary": analysis.Answer})
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	DocumentID          string     `json:"documentId"`
	GCSURI              string     `json:"gcsUri"`
	Message             string     `json:"message"`
	ConversationHistory []chatTurn `json:"conversationHistory"`
}

func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Failure(c, apperr.Validation("Invalid request body"))
		return
	}
	turns, err := toTurns(req.ConversationHistory)
	if err != nil {
		respond.Failure(c, err)
		return
	}

	ctx := WithPipeline(c.Request.Context(), middleware.RequestIDFromContext(c), "chat")
	reply, err := h.Svc.Chat(ctx, middleware.UserIDFromContext(c), ChatInput{
		DocumentID: req.DocumentID,
		StorageURI: req.GCSURI,
		Message:    req.Message,
		History:    turns,
	})
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{"response": reply})
}

// toTurns accepts "user", "assistant" and the provider's "model" role.
// Turns with no content are dropped.
func toTurns(in []chatTurn) ([]llm.Turn, error) {
	out := make([]llm.Turn, 0, len(in))
	for _, t := range in {
		content := strings.TrimSpace(t.Content)
		if content == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(t.Role)) {
		case "user":
			out = append(out, llm.Turn{Role: llm.RoleUser, Content: content})
		case "assistant", "model":
			out = append(out, llm.Turn{Role: llm.RoleAssistant, Content: content})
		default:
			return nil, apperr.Validation("Invalid conversation role %q", t.Role)
		}
	}
	return out, nil
}

func (h *Handler) list(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respond.Failure(c, apperr.Validation("Invalid limit"))
			return
		}
		limit = parsed
	}
	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{"analyses": items})
}

func (h *Handler) get(c *gin.Context) {
	analysis, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{"analysis": analysis})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Analysis deleted"})
}
