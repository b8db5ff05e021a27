package errors

import (
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{
		Code:    ErrNotFound,
		Status:  404,
		Message: "task not found",
	}

	expected := "NOT_FOUND: task not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("input_text is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "input_text is required" {
		t.Errorf("Message = %q, want %q", err.Message, "input_text is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("run 01J")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "run 01J" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "run 01J")
	}
}

func TestNewConfigMissing(t *testing.T) {
	err := NewConfigMissing("azure_deployment")

	if err.Code != ErrConfigMissing {
		t.Errorf("Code = %q, want %q", err.Code, ErrConfigMissing)
	}
	if err.Status != 412 {
		t.Errorf("Status = %d, want 412", err.Status)
	}
	if err.Details["field"] != "azure_deployment" {
		t.Errorf("Details[field] = %v, want %q", err.Details["field"], "azure_deployment")
	}
}

func TestNewProviderUnavailable(t *testing.T) {
	err := NewProviderUnavailable(fmt.Errorf("connection refused"))

	if err.Code != ErrProviderUnavailable {
		t.Errorf("Code = %q, want %q", err.Code, ErrProviderUnavailable)
	}
	if err.Status != 502 {
		t.Errorf("Status = %d, want 502", err.Status)
	}
	if err.Message != "connection refused" {
		t.Errorf("Message = %q, want %q", err.Message, "connection refused")
	}
}

func TestNewProviderUnavailable_NilError(t *testing.T) {
	err := NewProviderUnavailable(nil)

	if err.Message != "llm provider unavailable" {
		t.Errorf("Message = %q, want default", err.Message)
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("disk full"))

	if err.Code != ErrInternal {
		t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
	}
	if err.Message != "disk full" {
		t.Errorf("Message = %q, want %q", err.Message, "disk full")
	}
}

func TestIs(t *testing.T) {
	err := NewParseFailure("no JSON object found")

	if !Is(err, ErrParseFailure) {
		t.Error("Is() = false, want true for matching code")
	}
	if Is(err, ErrNotFound) {
		t.Error("Is() = true, want false for non-matching code")
	}
	if Is(fmt.Errorf("plain"), ErrParseFailure) {
		t.Error("Is() = true, want false for non-structured error")
	}
}
