package core

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err          error
		expected     bool
		expectedWait bool
		name         string
	}{
		{&RetryableError{Err: ErrPersistence, RetryAfter: time.Second}, true, true, "Explicit retryable carries its wait"},
		{fmt.Errorf("wrapped: %w", &RetryableError{Err: ErrPersistence, RetryAfter: 2 * time.Second}), true, true, "Wrapped retryable is detected"},
		{ErrRobotsDisallowed, false, false, "Robots disallowed is a permanent policy block"},
		{ErrForbidden, false, false, "Authorization failures are never retried"},
		{errors.New("random error"), false, false, "Plain errors are not retried"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotRetry, gotWait := IsRetryable(tt.err)

			if gotRetry != tt.expected {
				t.Errorf("IsRetryable() retry flag = %v, want %v", gotRetry, tt.expected)
			}
			if tt.expectedWait && gotWait <= 0 {
				t.Errorf("IsRetryable() wait duration expected > 0, got %v", gotWait)
			}
		})
	}
}

func TestDetailedError(t *testing.T) {
	t.Run("Unwraps To Kind", func(t *testing.T) {
		err := fmt.Errorf("gate: %w", Describe(ErrForbidden, "Admin privileges required", "no signal matched"))
		if !errors.Is(err, ErrForbidden) {
			t.Error("expected errors.Is to find ErrForbidden")
		}
		var de *DetailedError
		if !errors.As(err, &de) || de.Details != "no signal matched" {
			t.Errorf("expected details to survive wrapping, got %+v", de)
		}
	})

	t.Run("Message Fallback", func(t *testing.T) {
		err := Describe(ErrPersistence, "", "")
		if err.Error() != "persistence error" {
			t.Errorf("unexpected message %q", err.Error())
		}
		err = Describe(ErrPersistence, "Failed to store search results", "duplicate key")
		if err.Error() != "Failed to store search results: duplicate key" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("Missing Token Is Unauthenticated", func(t *testing.T) {
		if !errors.Is(ErrMissingToken, ErrUnauthenticated) {
			t.Error("missing token must classify as unauthenticated")
		}
	})
}

func TestConnectorError(t *testing.T) {
	var err error = &ConnectorError{Connector: "firecrawl", Status: 429, StatusText: "Too Many Requests"}
	wrapped := fmt.Errorf("search: %w", err)

	var ce *ConnectorError
	if !errors.As(wrapped, &ce) {
		t.Fatal("expected ConnectorError through wrapping")
	}
	if ce.Status != 429 {
		t.Errorf("expected status 429, got %d", ce.Status)
	}
	if wrapped.Error() != "search: firecrawl: upstream status 429 Too Many Requests" {
		t.Errorf("unexpected message %q", wrapped.Error())
	}
}
