package types

// Result is the uniform outcome of every mutation operation. Message
// is human-readable and safe to display directly. FieldErrors is
// populated only when validation failed; store, conflict and not-found
// failures communicate through Message alone.
type Result struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}

// OK returns a successful result with the given message.
func OK(message string) Result {
	return Result{Success: true, Message: message}
}

// Fail returns a failed result with the given message.
func Fail(message string) Result {
	return Result{Success: false, Message: message}
}

// Invalid returns a failed validation result carrying field errors.
func Invalid(errs []FieldError) Result {
	return Result{
		Success:     false,
		Message:     "Validation failed. Fix the highlighted fields and try again.",
		FieldErrors: errs,
	}
}
