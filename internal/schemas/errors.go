package schemas

// CustomError is the error shape returned to clients.
// Code is a stable identifier, Message a human-readable explanation.
type CustomError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	// BadRequest is returned for malformed or invalid request bodies.
	BadRequest = &CustomError{
		Code:    "ERR-001",
		Message: "The request body is invalid. Please check the request body and try again.",
	}
	// EmailTaken is returned when registering with an email that already exists.
	EmailTaken = &CustomError{
		Code:    "ERR-002",
		Message: "A user with this email already exists. Please log in instead.",
	}
	// InvalidCredentials is returned on login with unknown email or wrong password.
	InvalidCredentials = &CustomError{
		Code:    "ERR-003",
		Message: "Invalid credentials. Please check your email and password.",
	}
	// UserNotVerified is returned on login before the email has been verified.
	UserNotVerified = &CustomError{
		Code:    "ERR-004",
		Message: "Please verify your email before logging in. We have sent you a new verification email.",
	}
	// InvalidToken is returned for a verification token that is malformed, mis-signed or not on record.
	InvalidToken = &CustomError{
		Code:    "ERR-005",
		Message: "The verification token is invalid. Please request a new one by logging in.",
	}
	// TokenExpired is returned when the stored verification token has expired.
	TokenExpired = &CustomError{
		Code:    "ERR-006",
		Message: "The verification token has expired. Please request a new one by logging in.",
	}
	// Unauthorized is returned for missing, invalid or expired session credentials.
	Unauthorized = &CustomError{
		Code:    "ERR-007",
		Message: "The request is unauthorized. Please login to your account.",
	}
	// TaskNotFound is returned when a task does not exist or belongs to another user.
	TaskNotFound = &CustomError{
		Code:    "ERR-008",
		Message: "The task was not found.",
	}
	// DatabaseError is returned when the database is unreachable or a query fails.
	DatabaseError = &CustomError{
		Code:    "ERR-009",
		Message: "A database error occurred. Please try again later.",
	}
	// InternalServerError is the catch-all for unexpected failures.
	InternalServerError = &CustomError{
		Code:    "ERR-010",
		Message: "An internal error occurred. Please try again later.",
	}
	// EmailUnreachable is returned when MX verification rejects the address.
	EmailUnreachable = &CustomError{
		Code:    "ERR-011",
		Message: "The email address appears to be unreachable. Please use a different address.",
	}
)
