package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

const defaultUserMessage = "Something went wrong. Please try again later."

type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

// NewStateError reports a conversation state that could not be read or changed.
func NewStateError(cause error) *AppError {
	return &AppError{
		Code:        "E100",
		Message:     fmt.Sprintf("conversation state error: %v", cause),
		UserMessage: "Could not update the conversation. Send /start to begin again.",
		Severity:    SeverityHigh,
		cause:       cause,
	}
}

// NewTelegramError reports a failed Bot API call such as send or edit.
func NewTelegramError(method string, cause error) *AppError {
	return &AppError{
		Code:        "E200",
		Message:     fmt.Sprintf("telegram %s failed: %v", method, cause),
		UserMessage: defaultUserMessage,
		Severity:    SeverityMedium,
		cause:       cause,
	}
}

// NewPanicError wraps a value recovered from a panicking handler.
func NewPanicError(recovered any) *AppError {
	return &AppError{
		Code:        "E300",
		Message:     fmt.Sprintf("panic recovered: %v", recovered),
		UserMessage: defaultUserMessage,
		Severity:    SeverityCritical,
	}
}

// NewRateLimitError reports a user that sent too many updates.
func NewRateLimitError(retryAfter int) *AppError {
	return &AppError{
		Code:        "E400",
		Message:     fmt.Sprintf("rate limit exceeded: retry after %d seconds", retryAfter),
		UserMessage: fmt.Sprintf("Too many requests. Try again in %d seconds.", retryAfter),
		Severity:    SeverityLow,
	}
}
