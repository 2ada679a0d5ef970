package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"work-planner/internal/schemas"
)

func TestCreateTaskRequestValidation(t *testing.T) {
	v := GetValidator()

	testCases := []struct {
		name    string
		request schemas.CreateTaskRequest
		valid   bool
	}{
		{
			"ValidRequest",
			schemas.CreateTaskRequest{Title: "Submit report", DueDate: "2026-09-15", DueTime: "14:30"},
			true,
		},
		{
			"ValidWithoutDueTime",
			schemas.CreateTaskRequest{Title: "Submit report", DueDate: "2026-09-15"},
			true,
		},
		{
			"TitleAtMaxLength",
			schemas.CreateTaskRequest{Title: strings.Repeat("a", 200), DueDate: "2026-09-15"},
			true,
		},
		{
			"TitleTooLong",
			schemas.CreateTaskRequest{Title: strings.Repeat("a", 201), DueDate: "2026-09-15"},
			false,
		},
		{
			"MissingTitle",
			schemas.CreateTaskRequest{DueDate: "2026-09-15"},
			false,
		},
		{
			"MissingDueDate",
			schemas.CreateTaskRequest{Title: "Submit report"},
			false,
		},
		{
			"BadDueDate",
			schemas.CreateTaskRequest{Title: "Submit report", DueDate: "15.09.2026"},
			false,
		},
		{
			"BadDueTime",
			schemas.CreateTaskRequest{Title: "Submit report", DueDate: "2026-09-15", DueTime: "24:00"},
			false,
		},
		{
			"DescriptionTooLong",
			schemas.CreateTaskRequest{Title: "Submit report", Description: strings.Repeat("a", 1001), DueDate: "2026-09-15"},
			false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate.Struct(tc.request)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestUpdateTaskRequestStatusValidation(t *testing.T) {
	v := GetValidator()

	completed := "completed"
	archived := "archived"

	require.NoError(t, v.Validate.Struct(schemas.UpdateTaskRequest{Status: &completed}))
	assert.Error(t, v.Validate.Struct(schemas.UpdateTaskRequest{Status: &archived}))
}

func TestSanitizeDataStripsMarkup(t *testing.T) {
	v := GetValidator()

	request := &schemas.RegistrationRequest{
		Name:     "  <script>alert('x')</script>Jane  ",
		Email:    "jane@example.com",
		Password: "secret123",
	}
	require.NoError(t, v.SanitizeData(request))

	assert.Equal(t, "Jane", request.Name)
	assert.Equal(t, "jane@example.com", request.Email)
}

func TestSanitizeDataHandlesPointerFields(t *testing.T) {
	v := GetValidator()

	title := " <b>Submit</b> report "
	request := &schemas.UpdateTaskRequest{Title: &title}
	require.NoError(t, v.SanitizeData(request))

	assert.Equal(t, "Submit report", *request.Title)
}
