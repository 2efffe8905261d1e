package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "dial timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{
			name:   "server error",
			err:    &StatusError{Code: http.StatusBadGateway, Status: "502 Bad Gateway"},
			expect: true,
		},
		{
			name:   "wrapped server error",
			err:    fmt.Errorf("jsearch: %w", &StatusError{Code: http.StatusInternalServerError, Status: "500"}),
			expect: true,
		},
		{
			name:   "auth rejection",
			err:    &StatusError{Code: http.StatusForbidden, Status: "403 Forbidden"},
			expect: false,
		},
		{
			name:   "rate limited",
			err:    &StatusError{Code: http.StatusTooManyRequests, Status: "429"},
			expect: false,
		},
		{
			name:   "network failure",
			err:    timeoutErr{},
			expect: true,
		},
		{
			name:   "canceled context",
			err:    context.Canceled,
			expect: false,
		},
		{
			name:   "malformed response",
			err:    errors.New("decoding response: unexpected EOF"),
			expect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsTransient(tt.err); got != tt.expect {
				t.Fatalf("expected %v for %v, got %v", tt.expect, tt.err, got)
			}
		})
	}
}
