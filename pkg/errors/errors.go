package errors

import "fmt"

// Signal classifies a response from Instagram. Healthy means the response
// carries real data; everything else is a defensive or degraded condition.
type Signal string

const (
	SignalHealthy         Signal = "healthy"
	SignalLoginWall       Signal = "login_wall"
	SignalChallengeWall   Signal = "challenge_wall"
	SignalRateLimited     Signal = "rate_limited"
	SignalServerError     Signal = "server_error"
	SignalConnectionError Signal = "connection_error"
	SignalEmptyResponse   Signal = "empty_response"
	SignalAPIFail         Signal = "api_fail"
)

// Error represents a classified scrape failure with raw diagnostics attached.
type Error struct {
	Signal     Signal
	Message    string
	StatusCode int
	// Redirect holds the redirect target path when a wall was detected via
	// redirect, empty otherwise.
	Redirect string
	// Snippet holds the start of the response body for operator diagnostics.
	Snippet string
}

func (e *Error) Error() string {
	return fmt.Sprintf("instagram %s (status %d): %s", e.Signal, e.StatusCode, e.Message)
}

// New creates a classified error.
func New(signal Signal, message string) *Error {
	return &Error{Signal: signal, Message: message}
}

// IsTransient reports whether a signal indicates a condition worth retrying.
func IsTransient(signal Signal) bool {
	switch signal {
	case SignalRateLimited, SignalServerError, SignalConnectionError, SignalEmptyResponse:
		return true
	default:
		return false
	}
}

// IsBlock reports whether a signal means the session itself is compromised.
// Block signals are never retried.
func IsBlock(signal Signal) bool {
	return signal == SignalLoginWall || signal == SignalChallengeWall
}

// Exhausted wraps the last classified error after all retry attempts for a
// logical request were spent. Mid-pagination this ends the scrape as a
// partial success rather than a failure.
type Exhausted struct {
	Attempts int
	Last     *Error
}

func (e *Exhausted) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *Exhausted) Unwrap() error {
	return e.Last
}

// BootstrapReason identifies why the session handshake failed.
type BootstrapReason string

const (
	BootstrapMissingToken BootstrapReason = "missing_token"
	BootstrapBlocked      BootstrapReason = "blocked"
)

// BootstrapError means no usable session could be established; the scrape
// never starts.
type BootstrapError struct {
	Reason  BootstrapReason
	Signal  Signal
	Message string
}

func (e *BootstrapError) Error() string {
	if e.Reason == BootstrapBlocked {
		return fmt.Sprintf("bootstrap blocked (%s): %s", e.Signal, e.Message)
	}
	return fmt.Sprintf("bootstrap failed (%s): %s", e.Reason, e.Message)
}
