package utils

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// GenerateTraceId returns a fresh id correlating all log lines of one request.
func GenerateTraceId() string {
	return uuid.New().String()
}

// ExtractServiceName returns the service identifier attached to every log entry.
func ExtractServiceName() string {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "work-planner"
	}
	return service
}

// LogEntry dispatches a message to the entry at the requested level.
func LogEntry(entry *log.Entry, level, message string) {
	switch level {
	case "debug":
		entry.Debug(message)
	case "info":
		entry.Info(message)
	case "warn":
		entry.Warn(message)
	case "error":
		entry.Error(message)
	case "fatal":
		entry.Fatal(message)
	case "panic":
		entry.Panic(message)
	default:
		entry.Info(message)
	}
}

// LogMessageWithFields logs a message with the request's trace id and service name attached.
func LogMessageWithFields(ctx *gin.Context, level, message string) {
	traceId, _ := ctx.Value(TraceIdKey.String()).(string)
	entry := log.WithFields(log.Fields{
		"traceId": traceId,
		"service": ExtractServiceName(),
	})

	LogEntry(entry, level, message)
}

// LogMessageWithFieldsAndError is LogMessageWithFields with the error appended as a field.
func LogMessageWithFieldsAndError(ctx *gin.Context, level, message string, err error) {
	traceId, _ := ctx.Value(TraceIdKey.String()).(string)
	entry := log.WithFields(log.Fields{
		"traceId": traceId,
		"service": ExtractServiceName(),
		"error":   err,
	})

	LogEntry(entry, level, message)
}
