// Package llm defines the reasoning client used to summarize and discuss
// legal documents, and the prompts sent to it.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Role of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one prior message in a conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// AnalyzeRequest asks for a summary, or an answer when Question is set.
type AnalyzeRequest struct {
	DocumentText string
	Question     string
	Prior        []Turn
}

// ChatRequest continues a conversation, optionally grounded in a document.
type ChatRequest struct {
	DocumentText string
	History      []Turn
	Message      string
}

// Client abstracts the generative-language provider.
type Client interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (string, error)
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// Reason classifies provider failures.
type Reason string

const (
	ReasonSafetyBlocked      Reason = "safety_blocked"
	ReasonQuotaExceeded      Reason = "quota_exceeded"
	ReasonInvalidCredentials Reason = "invalid_credentials"
	ReasonEmptyResponse      Reason = "empty_response"
	ReasonUpstream           Reason = "upstream"
)

// Error is returned by every Client.
type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("llm: %s", e.Reason)
	}
	return fmt.Sprintf("llm: %s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatus() int {
	switch e.Reason {
	case ReasonQuotaExceeded:
		return 429
	case ReasonInvalidCredentials:
		return 500
	default:
		return 502
	}
}

func (e *Error) Code() string { return string(e.Reason) }

// PublicMessage is the fixed user-facing text for each reason.
func (e *Error) PublicMessage() string {
	switch e.Reason {
	case ReasonSafetyBlocked:
		return "The request was blocked by content safety filters"
	case ReasonQuotaExceeded:
		return "AI service quota exceeded, please try again later"
	case ReasonInvalidCredentials:
		return "AI service is not configured correctly"
	case ReasonEmptyResponse:
		return "AI service returned an empty response"
	default:
		return "AI service request failed"
	}
}

// Fail wraps err as an llm Error.
func Fail(reason Reason, err error) error {
	return &Error{Reason: reason, Err: err}
}

// AsError extracts an llm Error from err.
func AsError(err error) (*Error, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// PlaceholderClient stands in when no provider key is configured.
type PlaceholderClient struct{}

func (PlaceholderClient) Analyze(ctx context.Context, req AnalyzeRequest) (string, error) {
	return "", Fail(ReasonInvalidCredentials, errors.New("GEMINI_API_KEY not configured"))
}

func (PlaceholderClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	return "", Fail(ReasonInvalidCredentials, errors.New("GEMINI_API_KEY not configured"))
}
