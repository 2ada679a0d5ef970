package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"work-planner/internal/managers"
	"work-planner/internal/schemas"
	"work-planner/internal/utils"
)

type TaskHdl interface {
	GetTasks(c *gin.Context)
	CreateTask(c *gin.Context)
	UpdateTask(c *gin.Context)
	DeleteTask(c *gin.Context)
}

type TaskHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewTaskHandler(databaseManager *managers.DatabaseMgr) TaskHdl {
	return &TaskHandler{
		DatabaseManager: *databaseManager,
	}
}

// GetTasks returns all tasks of the authenticated user sorted by due date ascending.
func (handler *TaskHandler) GetTasks(c *gin.Context) {
	userId, err := userIdFromClaims(c)
	if err != nil {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, err)
		return
	}

	queryString := "SELECT task_id, title, description, due_date, due_time, status, notification_sent, " +
		"created_at, updated_at FROM work_planner.tasks WHERE user_id = $1 ORDER BY due_date"
	rows, err := handler.DatabaseManager.GetPool().Query(c, queryString, userId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	tasks := make([]schemas.TaskDTO, 0)
	for rows.Next() {
		var taskId uuid.UUID
		var task schemas.TaskDTO
		var dueDate, createdAt, updatedAt pgtype.Timestamptz

		if err := rows.Scan(&taskId, &task.Title, &task.Description, &dueDate, &task.DueTime,
			&task.Status, &task.NotificationSent, &createdAt, &updatedAt); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}

		task.Id = taskId.String()
		task.DueDate = dueDate.Time.Format(time.RFC3339)
		task.CreatedAt = createdAt.Time.Format(time.RFC3339)
		task.UpdatedAt = updatedAt.Time.Format(time.RFC3339)
		tasks = append(tasks, task)
	}

	utils.WriteAndLogResponse(c, &schemas.TaskListDTO{Tasks: tasks}, http.StatusOK)
}

// CreateTask creates a pending task owned by the authenticated user.
func (handler *TaskHandler) CreateTask(c *gin.Context) {
	userId, err := userIdFromClaims(c)
	if err != nil {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, err)
		return
	}

	createRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.CreateTaskRequest)

	dueTime := createRequest.DueTime
	if dueTime == "" {
		dueTime = utils.DefaultDueTime
	}

	dueDate, err := utils.ParseDueDate(createRequest.DueDate, dueTime)
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	taskId := uuid.New()
	now := time.Now()

	queryString := "INSERT INTO work_planner.tasks (task_id, user_id, title, description, due_date, due_time, " +
		"status, notification_sent, advance_notification_sent, created_at, updated_at) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)"
	if _, err = tx.Exec(c, queryString, taskId, userId, createRequest.Title, createRequest.Description,
		dueDate, dueTime, schemas.TaskStatusPending, false, false, now, now); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	taskDto := schemas.TaskDTO{
		Id:               taskId.String(),
		Title:            createRequest.Title,
		Description:      createRequest.Description,
		DueDate:          dueDate.Format(time.RFC3339),
		DueTime:          dueTime,
		Status:           schemas.TaskStatusPending,
		NotificationSent: false,
		CreatedAt:        now.Format(time.RFC3339),
		UpdatedAt:        now.Format(time.RFC3339),
	}
	utils.WriteAndLogResponse(c, &schemas.TaskEnvelopeDTO{Task: taskDto}, http.StatusCreated)
}

// UpdateTask applies a partial update to a task owned by the authenticated
// user. A task owned by someone else is reported as absent, not forbidden.
func (handler *TaskHandler) UpdateTask(c *gin.Context) {
	userId, err := userIdFromClaims(c)
	if err != nil {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, err)
		return
	}

	taskId, err := uuid.Parse(c.Param(utils.TaskIdKey))
	if err != nil {
		utils.WriteAndLogError(c, schemas.TaskNotFound, http.StatusNotFound, err)
		return
	}

	updateRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.UpdateTaskRequest)

	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	var title, description, dueTime, status string
	var notificationSent bool
	var dueDate, createdAt pgtype.Timestamptz

	queryString := "SELECT title, description, due_date, due_time, status, notification_sent, created_at " +
		"FROM work_planner.tasks WHERE task_id = $1 AND user_id = $2"
	if err = tx.QueryRow(c, queryString, taskId, userId).Scan(&title, &description, &dueDate, &dueTime,
		&status, &notificationSent, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.TaskNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if updateRequest.Title != nil {
		title = *updateRequest.Title
	}
	if updateRequest.Description != nil {
		description = *updateRequest.Description
	}
	if updateRequest.Status != nil {
		status = *updateRequest.Status
	}
	if updateRequest.DueTime != nil {
		dueTime = *updateRequest.DueTime
	}

	resolvedDue := dueDate.Time
	switch {
	case updateRequest.DueDate != nil:
		resolvedDue, err = utils.ParseDueDate(*updateRequest.DueDate, dueTime)
		if err != nil {
			utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
			return
		}
	case updateRequest.DueTime != nil:
		// Keep the day, move the clock.
		clock, clockErr := time.Parse("15:04", dueTime)
		if clockErr != nil {
			err = clockErr
			utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
			return
		}
		day := dueDate.Time.UTC()
		resolvedDue = time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
	}

	updatedAt := time.Now()
	queryString = "UPDATE work_planner.tasks SET title = $1, description = $2, due_date = $3, due_time = $4, " +
		"status = $5, updated_at = $6 WHERE task_id = $7 AND user_id = $8"
	if _, err = tx.Exec(c, queryString, title, description, resolvedDue, dueTime, status, updatedAt, taskId, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	taskDto := schemas.TaskDTO{
		Id:               taskId.String(),
		Title:            title,
		Description:      description,
		DueDate:          resolvedDue.Format(time.RFC3339),
		DueTime:          dueTime,
		Status:           status,
		NotificationSent: notificationSent,
		CreatedAt:        createdAt.Time.Format(time.RFC3339),
		UpdatedAt:        updatedAt.Format(time.RFC3339),
	}
	utils.WriteAndLogResponse(c, &schemas.TaskEnvelopeDTO{Task: taskDto}, http.StatusOK)
}

// DeleteTask removes a task owned by the authenticated user.
func (handler *TaskHandler) DeleteTask(c *gin.Context) {
	userId, err := userIdFromClaims(c)
	if err != nil {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, err)
		return
	}

	taskId, err := uuid.Parse(c.Param(utils.TaskIdKey))
	if err != nil {
		utils.WriteAndLogError(c, schemas.TaskNotFound, http.StatusNotFound, err)
		return
	}

	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	queryString := "DELETE FROM work_planner.tasks WHERE task_id = $1 AND user_id = $2"
	tag, err := tx.Exec(c, queryString, taskId, userId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if tag.RowsAffected() == 0 {
		err = errors.New("task not found")
		utils.WriteAndLogError(c, schemas.TaskNotFound, http.StatusNotFound, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "Task deleted successfully"}, http.StatusOK)
}
