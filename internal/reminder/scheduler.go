package reminder

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type schedulerState int

const (
	stateStopped schedulerState = iota
	stateRunning
)

// Scheduler owns the recurring reminder ticks. Its lifecycle is a guarded
// Stopped->Running transition: Start is idempotent and no-ops when already
// running, so boot code can call it unconditionally. Exactly one scheduler
// instance is expected per deployment.
type Scheduler struct {
	mu       sync.Mutex
	state    schedulerState
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	interval time.Duration
	scanners []*Scanner
}

// NewScheduler creates a stopped scheduler ticking every interval over the
// given scanners.
func NewScheduler(interval time.Duration, scanners ...*Scanner) *Scheduler {
	return &Scheduler{
		interval: interval,
		scanners: scanners,
	}
}

// Start transitions the scheduler to Running and launches the tick loop.
// Calling Start on a running scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateRunning {
		log.Debug("Reminder scheduler already running")
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = stateRunning

	s.wg.Add(1)
	go s.run(runCtx)

	log.Infof("Reminder scheduler started, interval %s, %d scan(s)", s.interval, len(s.scanners))
}

// Stop cancels the tick loop and waits for an in-flight tick to finish.
// Stopping a stopped scheduler does nothing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.state != stateRunning {
		s.mu.Unlock()
		return
	}
	s.state = stateStopped
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	log.Info("Reminder scheduler stopped")
}

// Running reports whether the scheduler is in the Running state.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateRunning
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// First tick immediately, then on the interval.
	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs every scanner sequentially. A failed scan is logged and retried
// on the next tick; it never takes the process down.
func (s *Scheduler) tick(ctx context.Context) {
	for _, scanner := range s.scanners {
		if ctx.Err() != nil {
			return
		}
		if _, err := scanner.RunScan(ctx); err != nil {
			log.Errorf("Reminder scan failed, will retry next tick: %v", err)
		}
	}
}
