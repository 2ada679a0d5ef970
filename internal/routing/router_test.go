package routing

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"work-planner/internal/config"
	"work-planner/internal/managers"
	"work-planner/internal/managers/mocks"
	"work-planner/internal/reminder"
)

const testJWTSecret = "test-secret-with-enough-length-0"
const testCronSecret = "cron-trigger-secret"

func setupMocks(t *testing.T) (*mocks.MockDatabaseManager, managers.JWTMgr, *mocks.MockMailManager) {
	poolMock, err := pgxmock.NewPool()
	if err != nil {
		log.Errorf("Error creating mock database pool: %v", err)
	}

	databaseMgrMock := &mocks.MockDatabaseManager{}
	databaseMgrMock.On("GetPool").Return(poolMock)

	t.Setenv("ENVIRONMENT", "test")
	jwtMgr := managers.NewJWTManager(testJWTSecret)

	mailMgrMock := &mocks.MockMailManager{}
	mailMgrMock.On("SendVerificationMail", mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)
	mailMgrMock.On("SendReminderMail", mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.Anything).Return(nil)

	return databaseMgrMock, jwtMgr, mailMgrMock
}

func setupServer(t *testing.T) (*httptest.Server, pgxmock.PgxPoolIface, managers.JWTMgr) {
	databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)

	cfg := &config.Config{
		CronSecret: testCronSecret,
	}
	scanners := []*reminder.Scanner{
		reminder.NewScanner(databaseMgrMock, mailMgrMock, time.Hour, reminder.FlagNotificationSent),
	}

	router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr, cfg, scanners)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)
	return server, poolMock, jwtMgr
}

func TestUserRegistration(t *testing.T) {
	type registration struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	testCases := []struct {
		name         string
		payload      registration
		status       int
		responseBody map[string]interface{}
	}{
		{
			"ValidRegistration",
			registration{Name: "Test User", Email: "test@example.com", Password: "secret123"},
			http.StatusCreated,
			nil,
		},
		{
			"InvalidEmail",
			registration{Name: "Test User", Email: "test@example@.com", Password: "secret123"},
			http.StatusBadRequest,
			map[string]interface{}{
				"error": map[string]interface{}{
					"code":    "ERR-001",
					"message": "The request body is invalid. Please check the request body and try again.",
				},
			},
		},
		{
			"PasswordTooShort",
			registration{Name: "Test User", Email: "test@example.com", Password: "short"},
			http.StatusBadRequest,
			map[string]interface{}{
				"error": map[string]interface{}{
					"code":    "ERR-001",
					"message": "The request body is invalid. Please check the request body and try again.",
				},
			},
		},
		{
			"DuplicateEmail",
			registration{Name: "Test User", Email: "taken@example.com", Password: "secret123"},
			http.StatusConflict,
			map[string]interface{}{
				"error": map[string]interface{}{
					"code":    "ERR-002",
					"message": "A user with this email already exists. Please log in instead.",
				},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server, poolMock, _ := setupServer(t)

			switch tc.name {
			case "InvalidEmail", "PasswordTooShort":
			case "DuplicateEmail":
				poolMock.ExpectBegin()
				poolMock.ExpectQuery("SELECT user_id FROM work_planner.users").
					WithArgs(tc.payload.Email).
					WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(uuid.New()))
			default:
				poolMock.ExpectBegin()
				poolMock.ExpectQuery("SELECT user_id FROM work_planner.users").
					WithArgs(tc.payload.Email).
					WillReturnRows(pgxmock.NewRows([]string{"user_id"}))
				poolMock.ExpectExec("INSERT INTO work_planner.users").
					WithArgs(pgxmock.AnyArg(), tc.payload.Name, tc.payload.Email, pgxmock.AnyArg(),
						false, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				poolMock.ExpectCommit()
			}

			expect := httpexpect.Default(t, server.URL)
			response := expect.POST("/auth/register").WithJSON(tc.payload).Expect().Status(tc.status)

			if tc.responseBody != nil {
				response.JSON().IsEqual(tc.responseBody)
			} else {
				response.JSON().Object().ContainsKey("userId")
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestUserLogin(t *testing.T) {
	type login struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	password := "secret123"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userId := uuid.New()

	testCases := []struct {
		name       string
		payload    login
		isVerified bool
		userExists bool
		status     int
		errorCode  string
	}{
		{"ValidLogin", login{Email: "test@example.com", Password: password}, true, true, http.StatusOK, ""},
		{"UnknownEmail", login{Email: "ghost@example.com", Password: password}, true, false, http.StatusUnauthorized, "ERR-003"},
		{"WrongPassword", login{Email: "test@example.com", Password: "wrongpass"}, true, true, http.StatusUnauthorized, "ERR-003"},
		{"UnverifiedUser", login{Email: "test@example.com", Password: password}, false, true, http.StatusUnauthorized, "ERR-004"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server, poolMock, _ := setupServer(t)

			poolMock.ExpectBegin()
			userQuery := poolMock.ExpectQuery("SELECT user_id, name, email, password, is_verified").
				WithArgs(tc.payload.Email)

			switch {
			case !tc.userExists:
				userQuery.WillReturnRows(pgxmock.NewRows([]string{"user_id", "name", "email", "password", "is_verified"}))
			case !tc.isVerified:
				userQuery.WillReturnRows(pgxmock.NewRows([]string{"user_id", "name", "email", "password", "is_verified"}).
					AddRow(userId, "Test User", tc.payload.Email, string(hash), false))
				poolMock.ExpectExec("UPDATE work_planner.users SET verification_token").
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), userId).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				poolMock.ExpectCommit()
			default:
				userQuery.WillReturnRows(pgxmock.NewRows([]string{"user_id", "name", "email", "password", "is_verified"}).
					AddRow(userId, "Test User", tc.payload.Email, string(hash), true))
				if tc.status == http.StatusOK {
					poolMock.ExpectCommit()
				}
			}

			expect := httpexpect.Default(t, server.URL)
			response := expect.POST("/auth/login").WithJSON(tc.payload).Expect().Status(tc.status)

			if tc.errorCode != "" {
				response.JSON().Object().Value("error").Object().HasValue("code", tc.errorCode)
			} else {
				body := response.JSON().Object()
				body.Value("token").String().NotEmpty()
				body.Value("user").Object().HasValue("email", tc.payload.Email)
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestVerifyEmail(t *testing.T) {
	userId := uuid.New()

	testCases := []struct {
		name      string
		onRecord  bool
		expiry    time.Time
		status    int
		errorCode string
	}{
		{"ValidToken", true, time.Now().Add(time.Hour), http.StatusOK, ""},
		{"TokenNotOnRecord", false, time.Time{}, http.StatusBadRequest, "ERR-005"},
		{"ExpiredToken", true, time.Now().Add(-time.Hour), http.StatusGone, "ERR-006"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server, poolMock, jwtMgr := setupServer(t)

			token, err := jwtMgr.GenerateVerificationToken()
			if err != nil {
				t.Fatalf("generating verification token: %v", err)
			}

			poolMock.ExpectBegin()
			tokenQuery := poolMock.ExpectQuery("SELECT user_id, verification_token_expiry").
				WithArgs(token)

			if tc.onRecord {
				tokenQuery.WillReturnRows(pgxmock.NewRows([]string{"user_id", "verification_token_expiry"}).
					AddRow(userId, tc.expiry))
			} else {
				tokenQuery.WillReturnRows(pgxmock.NewRows([]string{"user_id", "verification_token_expiry"}))
			}

			if tc.status == http.StatusOK {
				poolMock.ExpectExec("UPDATE work_planner.users SET is_verified").
					WithArgs(userId).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				poolMock.ExpectCommit()
			}

			expect := httpexpect.Default(t, server.URL)
			response := expect.POST("/auth/verify-email").
				WithJSON(map[string]string{"token": token}).
				Expect().Status(tc.status)

			if tc.errorCode != "" {
				response.JSON().Object().Value("error").Object().HasValue("code", tc.errorCode)
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestVerifyEmailMalformedToken(t *testing.T) {
	server, poolMock, _ := setupServer(t)

	expect := httpexpect.Default(t, server.URL)
	expect.POST("/auth/verify-email").
		WithJSON(map[string]string{"token": "not-a-jwt"}).
		Expect().Status(http.StatusBadRequest).
		JSON().Object().Value("error").Object().HasValue("code", "ERR-005")

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestTaskRoutes(t *testing.T) {
	userId := uuid.New()
	taskId := uuid.New()
	now := time.Now().UTC()

	t.Run("ListTasks", func(t *testing.T) {
		server, poolMock, jwtMgr := setupServer(t)
		token, _ := jwtMgr.GenerateSessionToken(userId.String())

		poolMock.ExpectQuery("SELECT task_id, title, description, due_date").
			WithArgs(userId).
			WillReturnRows(pgxmock.NewRows([]string{"task_id", "title", "description", "due_date", "due_time",
				"status", "notification_sent", "created_at", "updated_at"}).
				AddRow(taskId, "Submit report", "quarterly numbers", now.Add(24*time.Hour), "09:00",
					"pending", false, now, now))

		expect := httpexpect.Default(t, server.URL)
		body := expect.GET("/tasks").
			WithHeader("Authorization", "Bearer "+token).
			Expect().Status(http.StatusOK).
			JSON().Object()

		tasks := body.Value("tasks").Array()
		tasks.Length().IsEqual(1)
		tasks.Value(0).Object().HasValue("title", "Submit report")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("CreateTask", func(t *testing.T) {
		server, poolMock, jwtMgr := setupServer(t)
		token, _ := jwtMgr.GenerateSessionToken(userId.String())

		poolMock.ExpectBegin()
		poolMock.ExpectExec("INSERT INTO work_planner.tasks").
			WithArgs(pgxmock.AnyArg(), userId, "Submit report", "quarterly numbers", pgxmock.AnyArg(),
				"14:30", "pending", false, false, pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		poolMock.ExpectCommit()

		expect := httpexpect.Default(t, server.URL)
		body := expect.POST("/tasks").
			WithHeader("Authorization", "Bearer "+token).
			WithJSON(map[string]string{
				"title":       "Submit report",
				"description": "quarterly numbers",
				"dueDate":     "2026-09-15",
				"dueTime":     "14:30",
			}).
			Expect().Status(http.StatusCreated).
			JSON().Object()

		task := body.Value("task").Object()
		task.HasValue("title", "Submit report")
		task.HasValue("status", "pending")
		task.HasValue("dueTime", "14:30")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("CreateTaskWithoutToken", func(t *testing.T) {
		server, _, _ := setupServer(t)

		expect := httpexpect.Default(t, server.URL)
		expect.POST("/tasks").
			WithJSON(map[string]string{"title": "Submit report", "dueDate": "2026-09-15"}).
			Expect().Status(http.StatusUnauthorized).
			JSON().Object().Value("error").Object().HasValue("code", "ERR-007")
	})

	t.Run("UpdateForeignTask", func(t *testing.T) {
		server, poolMock, jwtMgr := setupServer(t)
		token, _ := jwtMgr.GenerateSessionToken(userId.String())

		poolMock.ExpectBegin()
		poolMock.ExpectQuery("SELECT title, description, due_date").
			WithArgs(taskId, userId).
			WillReturnRows(pgxmock.NewRows([]string{"title", "description", "due_date", "due_time",
				"status", "notification_sent", "created_at"}))

		expect := httpexpect.Default(t, server.URL)
		expect.PUT("/tasks/"+taskId.String()).
			WithHeader("Authorization", "Bearer "+token).
			WithJSON(map[string]string{"status": "completed"}).
			Expect().Status(http.StatusNotFound).
			JSON().Object().Value("error").Object().HasValue("code", "ERR-008")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("UpdateTask", func(t *testing.T) {
		server, poolMock, jwtMgr := setupServer(t)
		token, _ := jwtMgr.GenerateSessionToken(userId.String())

		poolMock.ExpectBegin()
		poolMock.ExpectQuery("SELECT title, description, due_date").
			WithArgs(taskId, userId).
			WillReturnRows(pgxmock.NewRows([]string{"title", "description", "due_date", "due_time",
				"status", "notification_sent", "created_at"}).
				AddRow("Submit report", "quarterly numbers", now.Add(24*time.Hour), "09:00",
					"pending", false, now))
		poolMock.ExpectExec("UPDATE work_planner.tasks SET title").
			WithArgs("Submit report", "quarterly numbers", pgxmock.AnyArg(), "09:00",
				"completed", pgxmock.AnyArg(), taskId, userId).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		poolMock.ExpectCommit()

		expect := httpexpect.Default(t, server.URL)
		body := expect.PUT("/tasks/"+taskId.String()).
			WithHeader("Authorization", "Bearer "+token).
			WithJSON(map[string]string{"status": "completed"}).
			Expect().Status(http.StatusOK).
			JSON().Object()

		body.Value("task").Object().HasValue("status", "completed")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("DeleteTask", func(t *testing.T) {
		server, poolMock, jwtMgr := setupServer(t)
		token, _ := jwtMgr.GenerateSessionToken(userId.String())

		poolMock.ExpectBegin()
		poolMock.ExpectExec("DELETE FROM work_planner.tasks").
			WithArgs(taskId, userId).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		poolMock.ExpectCommit()

		expect := httpexpect.Default(t, server.URL)
		expect.DELETE("/tasks/"+taskId.String()).
			WithHeader("Authorization", "Bearer "+token).
			Expect().Status(http.StatusOK).
			JSON().Object().HasValue("message", "Task deleted successfully")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("DeleteMissingTask", func(t *testing.T) {
		server, poolMock, jwtMgr := setupServer(t)
		token, _ := jwtMgr.GenerateSessionToken(userId.String())

		poolMock.ExpectBegin()
		poolMock.ExpectExec("DELETE FROM work_planner.tasks").
			WithArgs(taskId, userId).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		expect := httpexpect.Default(t, server.URL)
		expect.DELETE("/tasks/"+taskId.String()).
			WithHeader("Authorization", "Bearer "+token).
			Expect().Status(http.StatusNotFound).
			JSON().Object().Value("error").Object().HasValue("code", "ERR-008")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}

func TestCronTrigger(t *testing.T) {
	t.Run("MissingSecret", func(t *testing.T) {
		server, _, _ := setupServer(t)

		expect := httpexpect.Default(t, server.URL)
		expect.GET("/cron/run-reminders").
			Expect().Status(http.StatusUnauthorized).
			JSON().Object().Value("error").Object().HasValue("code", "ERR-007")
	})

	t.Run("WrongSecret", func(t *testing.T) {
		server, _, _ := setupServer(t)

		expect := httpexpect.Default(t, server.URL)
		expect.GET("/cron/run-reminders").
			WithHeader("Authorization", "Bearer wrong-secret").
			Expect().Status(http.StatusUnauthorized).
			JSON().Object().Value("error").Object().HasValue("code", "ERR-007")
	})

	t.Run("ValidRun", func(t *testing.T) {
		server, poolMock, _ := setupServer(t)
		taskId := uuid.New()

		poolMock.ExpectQuery("SELECT t.task_id, t.title, t.due_date").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"task_id", "title", "due_date", "email", "is_verified"}).
				AddRow(taskId, "Submit report", time.Now().Add(30*time.Minute), "test@example.com", true))
		poolMock.ExpectExec("UPDATE work_planner.tasks SET notification_sent").
			WithArgs(pgxmock.AnyArg(), taskId).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		expect := httpexpect.Default(t, server.URL)
		body := expect.GET("/cron/run-reminders").
			WithHeader("Authorization", "Bearer "+testCronSecret).
			Expect().Status(http.StatusOK).
			JSON().Object()

		body.HasValue("success", true)
		stats := body.Value("stats").Object()
		stats.HasValue("tasksFound", 1)
		stats.HasValue("emailsSent", 1)
		stats.HasValue("emailsFailed", 0)

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}
