package routing

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"work-planner/internal/config"
	"work-planner/internal/handlers"
	"work-planner/internal/managers"
	"work-planner/internal/middleware"
	"work-planner/internal/reminder"
	"work-planner/internal/schemas"
	"work-planner/internal/utils"
)

func InitRouter(databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr, cfg *config.Config, scanners []*reminder.Scanner) *gin.Engine {
	// Initialize router with logging and recovery middleware
	router := gin.New()
	// Initialize middleware
	setupCommonMiddleware(router)
	// Setup routes
	setupRoutes(router, databaseMgr, mailMgr, jwtMgr, cfg, scanners)

	return router
}

func setupCommonMiddleware(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Trace-Id"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
	})
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
}

func setupRoutes(router *gin.Engine, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr, cfg *config.Config, scanners []*reminder.Scanner) {
	// Set up version route
	router.GET("/", func(c *gin.Context) {
		metadata := &schemas.MetadataDTO{
			ApiVersion: "v1",
			ApiName:    "Work Planner",
		}
		utils.WriteAndLogResponse(c, metadata, http.StatusOK)
	})

	// Set up health route
	router.GET("/health", func(c *gin.Context) {
		if err := databaseMgr.GetPool().Ping(c); err != nil {
			c.String(http.StatusInternalServerError, "Database not responding")
			return
		}
		c.Status(http.StatusOK)
	})

	// Set up auth routes
	authRouter := router.Group("/auth")
	userHdl := handlers.NewUserHandler(&databaseMgr, &jwtMgr, &mailMgr, cfg.VerifyEmailMX)
	authRoutes(authRouter, userHdl)

	// Set up task routes, all behind the session token
	taskRouter := router.Group("/tasks")
	taskRouter.Use(jwtMgr.AuthMiddleware())
	taskHdl := handlers.NewTaskHandler(&databaseMgr)
	taskRoutes(taskRouter, taskHdl)

	// Set up the cron trigger
	cronRouter := router.Group("/cron")
	cronHdl := handlers.NewCronHandler(cfg.CronSecret, scanners)
	cronRouter.GET("/run-reminders", cronHdl.RunReminders)
}

func authRoutes(authRouter *gin.RouterGroup, userHdl handlers.UserHdl) {
	authRouter.POST("/register", middleware.ValidateAndSanitizeStruct(&schemas.RegistrationRequest{}), userHdl.RegisterUser)
	authRouter.POST("/login", middleware.ValidateAndSanitizeStruct(&schemas.LoginRequest{}), userHdl.LoginUser)
	authRouter.POST("/verify-email", middleware.ValidateAndSanitizeStruct(&schemas.VerifyEmailRequest{}), userHdl.VerifyEmail)
}

func taskRoutes(taskRouter *gin.RouterGroup, taskHdl handlers.TaskHdl) {
	taskRouter.GET("", taskHdl.GetTasks)
	taskRouter.POST("", middleware.ValidateAndSanitizeStruct(&schemas.CreateTaskRequest{}), taskHdl.CreateTask)
	taskRouter.PUT("/:"+utils.TaskIdKey, middleware.ValidateAndSanitizeStruct(&schemas.UpdateTaskRequest{}), taskHdl.UpdateTask)
	taskRouter.DELETE("/:"+utils.TaskIdKey, taskHdl.DeleteTask)
}
