package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
	"github.com/Smith-Faldu/legal-lens/internal/shared/auth"
	"github.com/Smith-Faldu/legal-lens/internal/shared/storage/object"
)

func failWith(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/x", nil)
	Failure(c, err)

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec, body
}

func TestFailureMapping(t *testing.T) {
	HideDetails(false)
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperr.Validation("No file uploaded"), http.StatusBadRequest, "validation_error"},
		{"forbidden", fmt.Errorf("document: %w", apperr.ErrForbidden), http.StatusForbidden, "forbidden"},
		{"not found", fmt.Errorf("document: %w", apperr.ErrNotFound), http.StatusNotFound, "not_found"},
		{"auth", auth.Fail(auth.ReasonExpired, nil), http.StatusUnauthorized, "token_expired"},
		{"storage", object.Fail(object.ReasonWriteFailed, "put", "k", errors.New("boom")), http.StatusInternalServerError, "storage_write_failed"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := failWith(t, tc.err)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if body.Success || body.Code != tc.code {
				t.Fatalf("unexpected body %+v", body)
			}
			if body.Details == "" {
				t.Fatal("expected details when not hidden")
			}
		})
	}
}

func TestFailureHidesDetailsWhenConfigured(t *testing.T) {
	HideDetails(true)
	defer HideDetails(false)

	_, body := failWith(t, errors.New("secret connection string"))
	if body.Details != "" {
		t.Fatalf("details leaked: %q", body.Details)
	}
	if body.Error != "Internal server error" {
		t.Fatalf("error = %q", body.Error)
	}
}
