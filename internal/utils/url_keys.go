package utils

const (
	// TaskIdKey is the key for task ID used in routing parameters.
	TaskIdKey = "taskId"
)
