package ra2

import (
	"errors"
	"fmt"
	"testing"
)

func TestClientErrorKindChecks(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"transport", NewTransportError("send failed", errors.New("broken pipe")), IsTransport},
		{"timeout", NewTimeoutError("no response"), IsTimeout},
		{"validation", NewValidationError("level out of range"), IsValidation},
		{"not connected", NewNotConnectedError("session is disconnected"), IsNotConnected},
		{"not applicable", NewNotApplicableError("keypad has no level"), IsNotApplicable},
		{"not found", NewNotFoundError("no stored credential"), IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("kind check failed for %v", tt.err)
			}
			// Wrapped errors still match through errors.As.
			if !tt.check(fmt.Errorf("outer: %w", tt.err)) {
				t.Errorf("kind check failed for wrapped %v", tt.err)
			}
		})
	}
}

func TestClientErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewTransportError("receive failed", cause)
	if !errors.Is(err, cause) {
		t.Error("Unwrap() did not expose the underlying cause")
	}
}

func TestKindChecksRejectOtherErrors(t *testing.T) {
	plain := errors.New("plain error")
	if IsTransport(plain) || IsTimeout(plain) || IsValidation(plain) {
		t.Error("plain errors must not match any kind")
	}
	if IsTimeout(NewTransportError("x", nil)) {
		t.Error("transport error matched timeout kind")
	}
}
