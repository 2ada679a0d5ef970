package handlers

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"work-planner/internal/reminder"
	"work-planner/internal/schemas"
	"work-planner/internal/utils"
)

type CronHdl interface {
	RunReminders(c *gin.Context)
}

// CronHandler exposes the reminder scan as an HTTP trigger so external cron
// services can drive it. With no secret configured the endpoint is disabled
// rather than open.
type CronHandler struct {
	Secret   string
	Scanners []*reminder.Scanner
}

func NewCronHandler(secret string, scanners []*reminder.Scanner) CronHdl {
	return &CronHandler{
		Secret:   secret,
		Scanners: scanners,
	}
}

// RunReminders runs every configured scan once and reports aggregate counters.
func (handler *CronHandler) RunReminders(c *gin.Context) {
	if handler.Secret == "" {
		err := errors.New("cron secret not configured")
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, err)
		return
	}

	presented := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if subtle.ConstantTimeCompare([]byte(presented), []byte(handler.Secret)) != 1 {
		err := errors.New("invalid cron secret")
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, err)
		return
	}

	var total reminder.Stats
	for _, scanner := range handler.Scanners {
		stats, err := scanner.RunScan(c)
		if err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		total.TasksFound += stats.TasksFound
		total.EmailsSent += stats.EmailsSent
		total.EmailsFailed += stats.EmailsFailed
	}

	runDto := &schemas.ReminderRunDTO{
		Success: true,
		Message: fmt.Sprintf("Reminder scan complete, %d email(s) sent", total.EmailsSent),
		Stats: schemas.ReminderStatsDTO{
			TasksFound:   total.TasksFound,
			EmailsSent:   total.EmailsSent,
			EmailsFailed: total.EmailsFailed,
		},
	}
	utils.WriteAndLogResponse(c, runDto, http.StatusOK)
}
