package schemas

// RegistrationRequest is a struct that represents a registration request
// Name is required and must be between 2 and 100 characters
// Email is required and must be a valid email
// Password is required and must be at least 6 characters
type RegistrationRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest is a struct that represents a login request
// Email is required and must be a valid email
// Password is required
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyEmailRequest is a struct that represents an email verification request
// Token is the verification token from the emailed deep link
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// CreateTaskRequest is a struct that represents a create task request
// Title is required and must be between 1 and 200 characters
// Description is optional and must be less than 1000 characters
// DueDate is required and accepts either a date (2006-01-02) or an RFC 3339 timestamp
// DueTime is optional and must be HH:MM; it defaults to 09:00
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=1000"`
	DueDate     string `json:"dueDate" validate:"required,due_date_validation"`
	DueTime     string `json:"dueTime" validate:"omitempty,due_time_validation"`
}

// UpdateTaskRequest is a struct that represents a partial task update
// Every field is optional; present fields are validated with the same bounds as creation
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	DueDate     *string `json:"dueDate" validate:"omitempty,due_date_validation"`
	DueTime     *string `json:"dueTime" validate:"omitempty,due_time_validation"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending completed"`
}
