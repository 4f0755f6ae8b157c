package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Smith-Faldu/legal-lens/internal/llm"
	"github.com/Smith-Faldu/legal-lens/internal/shared/telemetry"
)

const (
	DefaultModel = "gemini-1.5-flash"

	temperature     = 0.3
	topP            = 0.8
	topK            = 40
	maxOutputTokens = 2048
)

// Client implements llm.Client on the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient constructs a Gemini client authenticated with an API key.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: c, model: model}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) generativeModel() *genai.GenerativeModel {
	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(temperature)
	m.SetTopP(topP)
	m.SetTopK(topK)
	m.SetMaxOutputTokens(maxOutputTokens)
	return m
}

// Analyze sends a single prompt.
func (c *Client) Analyze(ctx context.Context, req llm.AnalyzeRequest) (string, error) {
	resp, err := c.generativeModel().GenerateContent(ctx, genai.Text(llm.AnalyzePrompt(req)))
	if err != nil {
		return "", classify(err)
	}
	return responseText(resp)
}

// Chat threads prior turns as chat history ahead of the current message.
func (c *Client) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	m := c.generativeModel()
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(llm.ChatInstruction(req.DocumentText))}}

	history, pending := toHistory(req.History)
	cs := m.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, genai.Text(llm.WithTranscript(pending, req.Message)))
	if err != nil {
		return "", classify(err)
	}
	return responseText(resp)
}

// toHistory splits turns into alternating user/model contents plus the
// turns that must travel with the live message instead. History opens on a
// user turn and closes on a model turn: model turns ahead of the first user
// turn are quoted inside it, and user turns after the last reply come back
// as pending. Consecutive turns with the same role are merged.
func toHistory(turns []llm.Turn) ([]*genai.Content, []llm.Turn) {
	kept := make([]llm.Turn, 0, len(turns))
	firstUser, lastModel := -1, -1
	for _, t := range turns {
		if strings.TrimSpace(t.Content) == "" {
			continue
		}
		if t.Role == llm.RoleAssistant {
			lastModel = len(kept)
		} else if firstUser < 0 {
			firstUser = len(kept)
		}
		kept = append(kept, t)
	}
	if firstUser < 0 || lastModel < firstUser {
		return nil, kept
	}

	var out []*genai.Content
	for i, t := range kept[:lastModel+1] {
		text := strings.TrimSpace(t.Content)
		role := "user"
		if t.Role == llm.RoleAssistant {
			if i < firstUser {
				text = "Assistant: " + text
			} else {
				role = "model"
			}
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Parts = append(out[n-1].Parts, genai.Text(text))
			continue
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(text)}})
	}
	return out, kept[lastModel+1:]
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", llm.Fail(llm.ReasonEmptyResponse, nil)
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil {
			continue
		}
		if cand.FinishReason == genai.FinishReasonSafety {
			return "", llm.Fail(llm.ReasonSafetyBlocked, errors.New("candidate stopped for safety"))
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				b.WriteString(string(txt))
			}
		}
		break
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", llm.Fail(llm.ReasonEmptyResponse, nil)
	}
	return text, nil
}

func classify(err error) error {
	if err == nil {
		return nil
	}

	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return llm.Fail(llm.ReasonSafetyBlocked, err)
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusTooManyRequests:
			return llm.Fail(llm.ReasonQuotaExceeded, err)
		case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
			return llm.Fail(llm.ReasonInvalidCredentials, err)
		case gerr.Code == http.StatusBadRequest && isAPIKeyMessage(gerr.Message):
			return llm.Fail(llm.ReasonInvalidCredentials, err)
		}
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.ResourceExhausted:
			return llm.Fail(llm.ReasonQuotaExceeded, err)
		case codes.Unauthenticated, codes.PermissionDenied:
			return llm.Fail(llm.ReasonInvalidCredentials, err)
		case codes.InvalidArgument:
			if isAPIKeyMessage(st.Message()) {
				return llm.Fail(llm.ReasonInvalidCredentials, err)
			}
		}
	}

	if isAPIKeyMessage(err.Error()) {
		return llm.Fail(llm.ReasonInvalidCredentials, err)
	}

	telemetry.Warn("gemini.error", map[string]any{"error": err})
	return llm.Fail(llm.ReasonUpstream, err)
}

func isAPIKeyMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "api_key_invalid") || strings.Contains(lower, "api key not valid")
}

var _ llm.Client = (*Client)(nil)
