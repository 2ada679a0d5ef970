// Package reminder implements the due-date reminder pipeline: a scanner that
// finds tasks nearing their deadline and mails their owners at most once, and
// a scheduler that runs the scans on a timer.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"work-planner/internal/managers"
)

// Tracking flag columns. Each scan window owns its flag, so a task claimed by
// the urgent scan stays eligible for the advance scan and vice versa.
const (
	FlagNotificationSent        = "notification_sent"
	FlagAdvanceNotificationSent = "advance_notification_sent"
)

// Stats carries the per-tick counters reported to the caller and the logs.
type Stats struct {
	TasksFound   int
	EmailsSent   int
	EmailsFailed int
}

// Scanner finds pending tasks due within its lookahead window whose tracking
// flag is still unset, dispatches one reminder mail per task and marks the
// flag only after a successful send. It assumes a single active instance; the
// read-then-mark sequence is not atomic against concurrent scanners.
type Scanner struct {
	databaseMgr managers.DatabaseMgr
	mailMgr     managers.MailMgr
	window      time.Duration
	flagColumn  string
}

type dueTask struct {
	id         uuid.UUID
	title      string
	dueDate    time.Time
	email      string
	isVerified bool
}

// NewScanner creates a scanner for the given lookahead window tracking the
// given flag column. The column must be one of the Flag constants.
func NewScanner(databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, window time.Duration, flagColumn string) *Scanner {
	if flagColumn != FlagNotificationSent && flagColumn != FlagAdvanceNotificationSent {
		log.Fatalf("unknown reminder tracking column: %s", flagColumn)
	}

	return &Scanner{
		databaseMgr: databaseMgr,
		mailMgr:     mailMgr,
		window:      window,
		flagColumn:  flagColumn,
	}
}

// Window returns the scanner's lookahead window.
func (s *Scanner) Window() time.Duration {
	return s.window
}

// RunScan executes one tick. A failure of the initial query aborts the tick
// and is returned to the caller for the next scheduled retry; per-task send
// or write failures are counted and do not abort the remaining batch.
func (s *Scanner) RunScan(ctx context.Context) (Stats, error) {
	now := time.Now()
	horizon := now.Add(s.window)

	tasks, err := s.findDueTasks(ctx, now, horizon)
	if err != nil {
		return Stats{}, fmt.Errorf("scanning for due tasks: %w", err)
	}

	stats := Stats{TasksFound: len(tasks)}
	for _, task := range tasks {
		// Unverified owners are skipped without marking, so the task stays
		// eligible once the owner verifies.
		if task.email == "" || !task.isVerified {
			continue
		}

		if err := s.mailMgr.SendReminderMail(task.email, task.title, task.dueDate); err != nil {
			stats.EmailsFailed++
			log.Warnf("Reminder mail for task %s failed: %v", task.id, err)
			continue
		}

		if err := s.markNotified(ctx, task.id); err != nil {
			// The mail went out but the flag write failed; the next tick may
			// resend. Sends stay at-most-once per tick, not per task lifetime,
			// in this degraded case.
			stats.EmailsFailed++
			log.Errorf("Marking task %s as notified failed: %v", task.id, err)
			continue
		}

		stats.EmailsSent++
	}

	log.Infof("Reminder scan complete: found=%d sent=%d failed=%d window=%s",
		stats.TasksFound, stats.EmailsSent, stats.EmailsFailed, s.window)
	return stats, nil
}

func (s *Scanner) findDueTasks(ctx context.Context, now, horizon time.Time) ([]dueTask, error) {
	queryString := fmt.Sprintf("SELECT t.task_id, t.title, t.due_date, u.email, u.is_verified "+
		"FROM work_planner.tasks t JOIN work_planner.users u ON t.user_id = u.user_id "+
		"WHERE t.status = 'pending' AND t.%s = FALSE AND t.due_date BETWEEN $1 AND $2", s.flagColumn)

	rows, err := s.databaseMgr.GetPool().Query(ctx, queryString, now, horizon)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []dueTask
	for rows.Next() {
		var task dueTask
		if err := rows.Scan(&task.id, &task.title, &task.dueDate, &task.email, &task.isVerified); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func (s *Scanner) markNotified(ctx context.Context, taskId uuid.UUID) error {
	queryString := fmt.Sprintf("UPDATE work_planner.tasks SET %s = TRUE, updated_at = $1 WHERE task_id = $2", s.flagColumn)
	_, err := s.databaseMgr.GetPool().Exec(ctx, queryString, time.Now(), taskId)
	return err
}
