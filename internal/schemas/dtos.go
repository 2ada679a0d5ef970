package schemas

// ErrorDTO is a struct that represents an error response
// Error is the custom error, see CustomError
type ErrorDTO struct {
	Error CustomError `json:"error"`
}

// MetadataDTO is a struct that represents the root metadata response
type MetadataDTO struct {
	ApiVersion string `json:"apiVersion"`
	ApiName    string `json:"apiName"`
}

// RegistrationDTO is a struct that represents a successful registration response
// UserId is the id of the newly created user
type RegistrationDTO struct {
	Message string `json:"message"`
	UserId  string `json:"userId"`
}

// UserDTO is a struct that represents a user in responses
type UserDTO struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginDTO is a struct that represents a successful login response
// Token is the session JWT valid for seven days
type LoginDTO struct {
	Message string  `json:"message"`
	Token   string  `json:"token"`
	User    UserDTO `json:"user"`
}

// MessageDTO is a struct that represents a plain message response
type MessageDTO struct {
	Message string `json:"message"`
}

// TaskDTO is a struct that represents a task in responses
// DueDate is formatted as RFC 3339, DueTime as HH:MM
type TaskDTO struct {
	Id               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	DueDate          string `json:"dueDate"`
	DueTime          string `json:"dueTime"`
	Status           string `json:"status"`
	NotificationSent bool   `json:"notificationSent"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

// TaskEnvelopeDTO is a struct that wraps a single task response
type TaskEnvelopeDTO struct {
	Task TaskDTO `json:"task"`
}

// TaskListDTO is a struct that represents the task list response
// Tasks are sorted by due date ascending
type TaskListDTO struct {
	Tasks []TaskDTO `json:"tasks"`
}

// ReminderStatsDTO is a struct that represents the per-scan counters of a reminder run
type ReminderStatsDTO struct {
	TasksFound   int `json:"tasksFound"`
	EmailsSent   int `json:"emailsSent"`
	EmailsFailed int `json:"emailsFailed"`
}

// ReminderRunDTO is a struct that represents the response of a reminder trigger
type ReminderRunDTO struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Stats   ReminderStatsDTO `json:"stats"`
}
