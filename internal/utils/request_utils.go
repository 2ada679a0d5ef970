package utils

import (
	"github.com/gin-gonic/gin"

	"work-planner/internal/schemas"
)

// WriteAndLogResponse encodes the response object to JSON and writes it with the provided status code.
func WriteAndLogResponse(ctx *gin.Context, response interface{}, statusCode int) {
	LogMessageWithFields(ctx, "info", "Returning response")
	ctx.JSON(statusCode, response)
}

// WriteAndLogError logs the provided error and sends an error response with the
// specified status code. The underlying error is logged, never serialized to the
// client, so internal detail stays out of production responses.
func WriteAndLogError(ctx *gin.Context, customErr *schemas.CustomError, statusCode int, err error) {
	LogMessageWithFieldsAndError(ctx, "error", "Returning "+customErr.Code+" / "+customErr.Message, err)
	ctx.JSON(statusCode, &schemas.ErrorDTO{Error: *customErr})
}
