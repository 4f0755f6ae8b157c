package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationWrapped(t *testing.T) {
	err := fmt.Errorf("ingest: %w", Validation("File size too large"))
	if !IsValidation(err) {
		t.Fatal("expected wrapped validation error")
	}
	var pub Public
	if !errors.As(err, &pub) {
		t.Fatal("validation error should satisfy Public")
	}
	if pub.HTTPStatus() != 400 || pub.PublicMessage() != "File size too large" {
		t.Fatalf("unexpected mapping %d %q", pub.HTTPStatus(), pub.PublicMessage())
	}
}

func TestSentinelsWrap(t *testing.T) {
	err := fmt.Errorf("document %w", ErrNotFound)
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("expected ErrNotFound")
	}
	if IsValidation(err) {
		t.Fatal("not-found is not a validation error")
	}
}
