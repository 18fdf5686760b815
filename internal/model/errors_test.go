package model

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAPIError_Error_IncludesCode(t *testing.T) {
	err := NewMealNotFoundError("meal-1")
	if !strings.HasPrefix(err.Error(), "[MEAL_NOT_FOUND]") {
		t.Errorf("Error() = %q, want prefix [MEAL_NOT_FOUND]", err.Error())
	}
	if !strings.Contains(err.Error(), "meal-1") {
		t.Errorf("Error() = %q, want to contain meal id", err.Error())
	}
}

func TestAPIError_ErrorsAs_ThroughWrap(t *testing.T) {
	wrapped := fmt.Errorf("failed: %w", NewUserNotFoundError())

	var apiErr *APIError
	if !errors.As(wrapped, &apiErr) {
		t.Fatal("expected errors.As to find *APIError")
	}
	if apiErr.Code != ErrCodeUserNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, ErrCodeUserNotFound)
	}
}

func TestValidationError_AddKeepsFirstMessage(t *testing.T) {
	v := NewValidationError()
	v.Add("name", "first")
	v.Add("name", "second")

	if v.Fields["name"] != "first" {
		t.Errorf("Fields[name] = %q, want %q", v.Fields["name"], "first")
	}
}

func TestValidationError_HasErrors(t *testing.T) {
	v := NewValidationError()
	if v.HasErrors() {
		t.Error("new ValidationError should have no errors")
	}
	v.Add("date", "invalid")
	if !v.HasErrors() {
		t.Error("expected HasErrors after Add")
	}
}

func TestValidationError_Error_SortedByField(t *testing.T) {
	v := NewValidationError()
	v.Add("name", "too short")
	v.Add("date", "invalid")

	want := "[VALIDATION_ERROR] date: invalid; name: too short"
	if v.Error() != want {
		t.Errorf("Error() = %q, want %q", v.Error(), want)
	}
}

func TestValidationError_APIError(t *testing.T) {
	apiErr := NewValidationError().APIError()
	if apiErr.Code != ErrCodeValidation {
		t.Errorf("Code = %q, want %q", apiErr.Code, ErrCodeValidation)
	}
	if apiErr.Category != "validation" {
		t.Errorf("Category = %q, want %q", apiErr.Category, "validation")
	}
}

func TestConstructors_Codes(t *testing.T) {
	tests := []struct {
		err  *APIError
		code string
	}{
		{NewNotAuthenticatedError(), ErrCodeNotAuthenticated},
		{NewUserNotFoundError(), ErrCodeUserNotFound},
		{NewMealNotFoundError("m-1"), ErrCodeMealNotFound},
		{NewInvalidRequestError(), ErrCodeInvalidRequest},
		{NewRateLimitExceededError(), ErrCodeRateLimitExceeded},
		{NewCSRFValidationError(), ErrCodeCSRFValidationFailed},
		{NewInternalError(), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.Message == "" || tt.err.Category == "" || tt.err.Action == "" {
				t.Errorf("expected all fields populated, got %+v", tt.err)
			}
		})
	}
}
