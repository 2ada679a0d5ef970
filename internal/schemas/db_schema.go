// Package schemas defines the data structures
package schemas

import (
	"time"

	"github.com/google/uuid"
)

// Task status values.
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// User represents the data model for a user in the system.
type User struct {
	ID                      *uuid.UUID `json:"id"`                        // Unique identifier for the user.
	Name                    string     `json:"name"`                      // Display name of the user.
	Email                   string     `json:"email"`                     // Email address, unique case-insensitively.
	Password                string     `json:"password"`                  // Password hash of the user.
	IsVerified              bool       `json:"is_verified"`               // Whether the email address has been verified.
	VerificationToken       *string    `json:"verification_token"`        // Currently valid verification token, if any.
	VerificationTokenExpiry *time.Time `json:"verification_token_expiry"` // Expiry of the stored verification token.
	CreatedAt               *time.Time `json:"created_at"`                // Timestamp when the user was created.
}

// Task represents the data model for a task owned by a user.
type Task struct {
	ID                      *uuid.UUID `json:"id"`                        // Unique identifier for the task.
	UserID                  *uuid.UUID `json:"user_id"`                   // Identifier of the owning user.
	Title                   string     `json:"title"`                     // Title, 1-200 characters.
	Description             string     `json:"description"`               // Description, up to 1000 characters.
	DueDate                 *time.Time `json:"due_date"`                  // Due timestamp the reminder scans match against.
	DueTime                 string     `json:"due_time"`                  // Time of day in HH:MM, default 09:00.
	Status                  string     `json:"status"`                    // Either pending or completed.
	NotificationSent        bool       `json:"notification_sent"`         // Set once the urgent reminder went out.
	AdvanceNotificationSent bool       `json:"advance_notification_sent"` // Set once the advance reminder went out.
	CreatedAt               *time.Time `json:"created_at"`                // Timestamp when the task was created.
	UpdatedAt               *time.Time `json:"updated_at"`                // Timestamp of the last modification.
}
