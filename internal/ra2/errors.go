package ra2

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes client errors.
type ErrorKind int

const (
	// KindTransport indicates a connect, send, or receive failure.
	KindTransport ErrorKind = iota
	// KindTimeout indicates an operation exceeded its deadline.
	KindTimeout
	// KindValidation indicates an out-of-range or malformed argument.
	KindValidation
	// KindNotConnected indicates an operation attempted outside Ready state.
	KindNotConnected
	// KindProtocol indicates the controller sent something unexpected.
	KindProtocol
	// KindNotApplicable indicates the target device does not support the
	// operation (e.g., a trim test on a keypad).
	KindNotApplicable
	// KindNotFound indicates a lookup miss (credential, device).
	KindNotFound
)

// String returns a human-readable name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "Transport Error"
	case KindTimeout:
		return "Timeout"
	case KindValidation:
		return "Validation Error"
	case KindNotConnected:
		return "Not Connected"
	case KindProtocol:
		return "Protocol Error"
	case KindNotApplicable:
		return "Not Applicable"
	case KindNotFound:
		return "Not Found"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ClientError is the error type returned by all client operations.
type ClientError struct {
	Kind    ErrorKind
	Message string
	Err     error // underlying cause, if any
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a connect/send/receive failure.
func NewTransportError(message string, err error) *ClientError {
	return &ClientError{Kind: KindTransport, Message: message, Err: err}
}

// NewTimeoutError reports a missed deadline.
func NewTimeoutError(message string) *ClientError {
	return &ClientError{Kind: KindTimeout, Message: message}
}

// NewValidationError reports a bad argument.
func NewValidationError(message string) *ClientError {
	return &ClientError{Kind: KindValidation, Message: message}
}

// NewNotConnectedError reports an operation attempted without a ready session.
func NewNotConnectedError(message string) *ClientError {
	return &ClientError{Kind: KindNotConnected, Message: message}
}

// NewNotApplicableError reports an operation on an unsupporting device type.
func NewNotApplicableError(message string) *ClientError {
	return &ClientError{Kind: KindNotApplicable, Message: message}
}

// NewNotFoundError reports a lookup miss.
func NewNotFoundError(message string) *ClientError {
	return &ClientError{Kind: KindNotFound, Message: message}
}

func isKind(err error, kind ErrorKind) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}

// IsTransport checks whether err is a transport error.
func IsTransport(err error) bool { return isKind(err, KindTransport) }

// IsTimeout checks whether err is a timeout.
func IsTimeout(err error) bool { return isKind(err, KindTimeout) }

// IsValidation checks whether err is a validation error.
func IsValidation(err error) bool { return isKind(err, KindValidation) }

// IsNotConnected checks whether err is a not-connected error.
func IsNotConnected(err error) bool { return isKind(err, KindNotConnected) }

// IsNotApplicable checks whether err is a not-applicable error.
func IsNotApplicable(err error) bool { return isKind(err, KindNotApplicable) }

// IsNotFound checks whether err is a not-found error.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }
