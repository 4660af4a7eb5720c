package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCustomErrorIsMatchesByCode(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("recommend: %w", ErrGenerationUnavailable.Wrap(cause))

	if !errors.Is(err, ErrGenerationUnavailable) {
		t.Fatalf("expected wrapped error to match ErrGenerationUnavailable")
	}
	if errors.Is(err, ErrGenerationParse) {
		t.Fatalf("did not expect match against a different code")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable through Unwrap")
	}
}

func TestWrapDoesNotMutatePredefined(t *testing.T) {
	_ = ErrDataSource.Wrap(errors.New("boom"))
	if ErrDataSource.Err != nil {
		t.Fatalf("predefined error was mutated: %v", ErrDataSource.Err)
	}
}

func TestAsCustomErrorFallsBackToInternal(t *testing.T) {
	ce := AsCustomError(errors.New("plain"))
	if ce.Code != ErrCodeInternalError || ce.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected fallback: %+v", ce)
	}

	ce = AsCustomError(ErrInvalidPreferences.Wrap(NewValidationError("number_of_people must be at least 1")))
	if ce.Code != ErrCodeInvalidPrefs || ce.Status != http.StatusBadRequest {
		t.Fatalf("unexpected custom error: %+v", ce)
	}
	if !IsValidationError(ce) {
		t.Fatalf("expected validation error in chain")
	}
}

func TestCustomErrorMessage(t *testing.T) {
	err := ErrDataSource.Wrap(errors.New("timeout"))
	if got, want := err.Error(), "menu data source unavailable: timeout"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if got := ErrUnauthorized.Error(); got != "unauthorized" {
		t.Fatalf("Error() = %q", got)
	}
}
