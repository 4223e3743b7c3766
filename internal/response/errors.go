package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation      ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload  ErrCode = "INVALID_PAYLOAD"
	ErrInvalidSchedule ErrCode = "INVALID_SCHEDULE"

	// ─── Catalog ───────────────────────────────────────────────────────
	ErrUnknownBoard   ErrCode = "UNKNOWN_BOARD"
	ErrUnknownSubject ErrCode = "UNKNOWN_SUBJECT"

	// ─── Session ───────────────────────────────────────────────────────
	ErrNoActiveSession ErrCode = "NO_ACTIVE_SESSION"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidSchedule:
		return "The exam schedule is not valid."

	// ─── Catalog ───────────────────────────────────────────────────────
	case ErrUnknownBoard:
		return "Unknown exam board."
	case ErrUnknownSubject:
		return "Unknown subject code for this board."

	// ─── Session ───────────────────────────────────────────────────────
	case ErrNoActiveSession:
		return "No countdown is running."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
