package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"work-planner/internal/config"
	"work-planner/internal/managers"
	"work-planner/internal/reminder"
	"work-planner/internal/routing"
)

const (
	port    = ":8080"
	envFile = ".env"
)

func Init() {
	err := godotenv.Load(envFile)
	if err != nil {
		log.Info("No .env file found, using environment variables from system")
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	setLogLevel(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	// Connect to database
	pool := initializeDatabase(cfg)
	defer pool.Close()

	// Initialize database manager
	databaseMgr := managers.NewDatabaseManager(pool)

	// Initialize mail manager
	mailMgr := managers.NewMailManager(cfg)

	// Initialize JWT manager
	jwtMgr := managers.NewJWTManager(cfg.JWTSecret)

	// Initialize reminder scans, the urgent one always, the advance one only
	// when a long-range window is configured
	scanners := []*reminder.Scanner{
		reminder.NewScanner(databaseMgr, mailMgr, cfg.ReminderWindow, reminder.FlagNotificationSent),
	}
	if cfg.ReminderAdvanceWindow > 0 {
		scanners = append(scanners, reminder.NewScanner(databaseMgr, mailMgr, cfg.ReminderAdvanceWindow, reminder.FlagAdvanceNotificationSent))
	}

	scheduler := reminder.NewScheduler(cfg.ReminderInterval, scanners...)
	scheduler.Start(context.Background())

	// Initialize router
	r := routing.InitRouter(databaseMgr, mailMgr, jwtMgr, cfg, scanners)
	log.Println("Initialized router")

	// Handle interrupt signal gracefully
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)

		<-c
		log.Println("Server shutting down...")
		scheduler.Stop()
		os.Exit(0)
	}()

	// Start server on the specified port
	log.Printf("Starting server on port %s...\n", port)
	err = http.ListenAndServe(port, r)
	if err != nil {
		log.Fatal("Error starting server: ", err)
	}
}

func initializeDatabase(cfg *config.Config) *pgxpool.Pool {
	log.Info("Initializing database")

	url := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPass, cfg.DBName)
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Fatal("error configuring database: ", err)
	}

	poolConfig.MinConns = 5
	poolConfig.MaxConns = 30
	poolConfig.MaxConnIdleTime = time.Minute * 2
	poolConfig.HealthCheckPeriod = time.Minute * 1

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatal("error connecting to database: ", err)
	}
	log.Info("Connected to database")
	return pool
}

func setLogLevel(logLevel string) {
	switch logLevel {
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
	case "INFO":
		log.SetLevel(log.InfoLevel)
	case "WARN":
		log.SetLevel(log.WarnLevel)
	case "ERROR":
		log.SetLevel(log.ErrorLevel)
	case "FATAL":
		log.SetLevel(log.FatalLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}
