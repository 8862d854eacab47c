package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Session ticket ────────────────────────────────────────────────
	ErrTicketRequired ErrCode = "TICKET_REQUIRED"
	ErrTicketInvalid  ErrCode = "TICKET_INVALID"
	ErrSessionExpired ErrCode = "SESSION_EXPIRED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Quiz flow ─────────────────────────────────────────────────────
	ErrModeRequired   ErrCode = "MODE_REQUIRED"
	ErrUnknownMode    ErrCode = "UNKNOWN_MODE"
	ErrUnknownTopic   ErrCode = "UNKNOWN_TOPIC"
	ErrNoQuestions    ErrCode = "NO_QUESTIONS"
	ErrWrongStage     ErrCode = "WRONG_STAGE"
	ErrQuizFinished   ErrCode = "QUIZ_FINISHED"
	ErrResultNotReady ErrCode = "RESULT_NOT_READY"
	ErrNotFound       ErrCode = "NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Session ticket ────────────────────────────────────────────────
	case ErrTicketRequired:
		return "A session ticket is required."
	case ErrTicketInvalid:
		return "The session ticket is invalid or has expired."
	case ErrSessionExpired:
		return "This quiz session no longer exists. Start a new one."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Quiz flow ─────────────────────────────────────────────────────
	case ErrModeRequired:
		return "Choose Quick Mode or Pro Mode before starting."
	case ErrUnknownMode:
		return "Unknown play mode."
	case ErrUnknownTopic:
		return "Unknown topic."
	case ErrNoQuestions:
		return "The selected topic has no questions."
	case ErrWrongStage:
		return "That action is not available right now."
	case ErrQuizFinished:
		return "The quiz has already finished."
	case ErrResultNotReady:
		return "The quiz is not finished yet."
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
