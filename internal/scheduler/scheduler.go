// Package scheduler runs the agent's recurring jobs: the periodic
// observation cycle and the daily end-of-day report.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/workspace-agent/workspace-agent/internal/logging"
)

// TaskHandler is the function executed for a task.
type TaskHandler func(ctx context.Context) error

// ScheduleType represents the type of schedule.
type ScheduleType string

const (
	ScheduleInterval ScheduleType = "interval" // run every X duration
	ScheduleDaily    ScheduleType = "daily"    // run at a specific local time daily
)

// Schedule defines when a task runs.
type Schedule struct {
	Type     ScheduleType  `json:"type"`
	Interval time.Duration `json:"interval,omitempty"`
	At       string        `json:"at,omitempty"` // "HH:MM" for daily schedules
}

// Task is one registered recurring job.
type Task struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Schedule   Schedule      `json:"schedule"`
	Handler    TaskHandler   `json:"-"`
	LastRun    *time.Time    `json:"last_run,omitempty"`
	NextRun    *time.Time    `json:"next_run,omitempty"`
	RunCount   int64         `json:"run_count"`
	ErrorCount int64         `json:"error_count"`
	LastError  string        `json:"last_error,omitempty"`
	Timeout    time.Duration `json:"timeout"`
}

// Scheduler manages the registered tasks.
type Scheduler struct {
	tasks   map[string]*Task
	mu      sync.RWMutex
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	log     *logging.Logger
}

// New creates a scheduler.
func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		tasks:  make(map[string]*Task),
		ctx:    ctx,
		cancel: cancel,
		log:    logging.Component("scheduler"),
	}
}

// IntervalTask creates a task that runs at a fixed interval.
func IntervalTask(id, name string, interval time.Duration, handler TaskHandler) *Task {
	return &Task{
		ID:       id,
		Name:     name,
		Schedule: Schedule{Type: ScheduleInterval, Interval: interval},
		Handler:  handler,
	}
}

// DailyTask creates a task that runs daily at "HH:MM" local time.
func DailyTask(id, name, at string, handler TaskHandler) *Task {
	return &Task{
		ID:       id,
		Name:     name,
		Schedule: Schedule{Type: ScheduleDaily, At: at},
		Handler:  handler,
	}
}

// Register adds a task. Registering after Start launches the task loop
// immediately.
func (s *Scheduler) Register(task *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == "" {
		return fmt.Errorf("task ID is required")
	}
	if task.Handler == nil {
		return fmt.Errorf("task handler is required")
	}
	if task.Timeout == 0 {
		task.Timeout = 5 * time.Minute
	}

	next := nextRun(task.Schedule)
	task.NextRun = &next
	s.tasks[task.ID] = task

	if s.started {
		s.startTask(task)
	}
	return nil
}

// Start launches every registered task loop.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started")
	}
	s.started = true

	for _, task := range s.tasks {
		s.startTask(task)
	}
	s.log.WithField("tasks", len(s.tasks)).Info("scheduler started")
	return nil
}

// Stop cancels all task loops and waits for in-flight runs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.started = false
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("scheduler stopped")
}

// RunNow executes a task immediately, outside its schedule.
func (s *Scheduler) RunNow(taskID string) error {
	s.mu.RLock()
	task, ok := s.tasks[taskID]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("task not found: %s", taskID)
	}
	go s.execute(s.ctx, task)
	return nil
}

// Tasks returns a snapshot of the registered tasks.
func (s *Scheduler) Tasks() []*Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		out = append(out, task)
	}
	return out
}

func (s *Scheduler) startTask(task *Task) {
	s.wg.Add(1)
	go s.runLoop(task)
}

func (s *Scheduler) runLoop(task *Task) {
	defer s.wg.Done()

	for {
		s.mu.RLock()
		wait := time.Until(*task.NextRun)
		s.mu.RUnlock()
		if wait < 0 {
			wait = 0
		}

		select {
		case <-s.ctx.Done():
			return
		case <-time.After(wait):
			s.execute(s.ctx, task)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, task *Task) {
	execCtx, cancel := context.WithTimeout(ctx, task.Timeout)
	defer cancel()

	now := time.Now()
	s.mu.Lock()
	task.LastRun = &now
	task.RunCount++
	s.mu.Unlock()

	err := task.Handler(execCtx)

	s.mu.Lock()
	if err != nil {
		task.ErrorCount++
		task.LastError = err.Error()
	} else {
		task.LastError = ""
	}
	next := nextRun(task.Schedule)
	task.NextRun = &next
	s.mu.Unlock()

	if err != nil {
		s.log.WithFields(map[string]any{
			"task":  task.ID,
			"error": err.Error(),
		}).Error("task run failed")
	} else {
		s.log.WithField("task", task.ID).Debug("task run completed")
	}
}

func nextRun(schedule Schedule) time.Time {
	now := time.Now()

	switch schedule.Type {
	case ScheduleInterval:
		return now.Add(schedule.Interval)

	case ScheduleDaily:
		hour, minute := 18, 0
		fmt.Sscanf(schedule.At, "%d:%d", &hour, &minute)

		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		return next

	default:
		return now.Add(time.Hour)
	}
}
