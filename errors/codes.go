package errors

// ErrorCategory classifies errors by who can fix them.
type ErrorCategory string

const (
	// CategoryPermanent covers failures the user must fix before rerunning,
	// such as missing profile fields or a page with no readable content.
	CategoryPermanent ErrorCategory = "permanent"

	// CategoryTransient covers failures that may go away on a manual rerun,
	// such as network errors and provider 5xx replies.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal covers unexpected failures.
	CategoryInternal ErrorCategory = "internal"
)

// String returns the string representation of the category.
func (c ErrorCategory) String() string {
	return string(c)
}

// ErrorCode identifies the stage that failed.
type ErrorCode string

const (
	ErrCodeConfiguration    ErrorCode = "CONFIGURATION"     // Required connection field missing
	ErrCodeExtraction       ErrorCode = "EXTRACTION"        // Page content unavailable
	ErrCodeTransport        ErrorCode = "TRANSPORT"         // Provider unreachable or non-2xx
	ErrCodeProviderResponse ErrorCode = "PROVIDER_RESPONSE" // Unrecognised reply body

	ErrCodeNotFound     ErrorCode = "NOT_FOUND"    // Profile or note does not exist
	ErrCodePrecondition ErrorCode = "PRECONDITION" // Operation not allowed in current state
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	ErrCodeTimeout  ErrorCode = "TIMEOUT"
	ErrCodeCanceled ErrorCode = "CANCELED"
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// String returns the string representation of the error code.
func (c ErrorCode) String() string {
	return string(c)
}

// DefaultCategory returns the default category for an error code.
func (c ErrorCode) DefaultCategory() ErrorCategory {
	switch c {
	case ErrCodeConfiguration, ErrCodeExtraction, ErrCodeProviderResponse,
		ErrCodeNotFound, ErrCodePrecondition, ErrCodeInvalidInput, ErrCodeCanceled:
		return CategoryPermanent
	case ErrCodeTransport, ErrCodeTimeout:
		return CategoryTransient
	default:
		return CategoryInternal
	}
}

var codeDescriptions = map[ErrorCode]string{
	ErrCodeConfiguration:    "provider configuration incomplete",
	ErrCodeExtraction:       "Extraction failed.",
	ErrCodeTransport:        "provider connection failed",
	ErrCodeProviderResponse: "Invalid response structure from provider.",
	ErrCodeNotFound:         "not found",
	ErrCodePrecondition:     "precondition failed",
	ErrCodeInvalidInput:     "invalid input",
	ErrCodeTimeout:          "operation timed out",
	ErrCodeCanceled:         "operation canceled",
	ErrCodeInternal:         "internal error",
}

// Description returns a human-readable description for the error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}
