package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/sheet-catalog/app/catalog"
	"github.com/lysyi3m/sheet-catalog/app/source"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Options struct {
	Interval    time.Duration
	WorkerCount int
	MaxRetries  int
	TaskTimeout time.Duration
}

type Scheduler struct {
	store       *catalog.Store
	source      source.Source
	reconcile   catalog.Options
	interval    time.Duration
	workerCount int
	maxRetries  int
	taskTimeout time.Duration
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(store *catalog.Store, src source.Source, reconcile catalog.Options, opts Options) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Minute
	}
	if opts.WorkerCount < 1 {
		opts.WorkerCount = 1
	}
	if opts.TaskTimeout <= 0 {
		opts.TaskTimeout = 5 * time.Minute
	}

	return &Scheduler{
		store:       store,
		source:      src,
		reconcile:   reconcile,
		interval:    opts.Interval,
		workerCount: opts.WorkerCount,
		maxRetries:  opts.MaxRetries,
		taskTimeout: opts.TaskTimeout,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 16),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueLoad("startup")

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueLoad("refresh")
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// Reload queues an immediate catalog load and returns its task ID.
func (s *Scheduler) Reload() (string, error) {
	task := s.newLoadTask()
	if err := s.EnqueueTask(task); err != nil {
		return "", err
	}
	slog.Debug("Catalog reload requested", "id", task.GetID())
	return task.GetID(), nil
}

func (s *Scheduler) newLoadTask() *LoadCatalogTask {
	task := NewLoadCatalogTask(s.source, s.store, s.reconcile)
	task.SetMaxRetries(s.maxRetries)
	return task
}

func (s *Scheduler) enqueueLoad(reason string) {
	task := s.newLoadTask()
	if err := s.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue LoadCatalogTask", "source", s.source.Name(), "reason", reason, "error", err)
		return
	}
	slog.Debug("Catalog load scheduled", "source", s.source.Name(), "reason", reason, "id", task.GetID())
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, s.taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if Permanent(err) {
		slog.Warn("Task failed with a permanent error, not retrying", "type", string(task.GetType()), "id", task.GetID())
		return
	}

	if !task.CanRetry() {
		if task.GetMaxRetries() > 0 {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
		return
	}

	task.IncrementRetryCount()
	retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
	if retryDelay > 30*time.Second {
		retryDelay = 30 * time.Second
	}

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
		case <-time.After(retryDelay):
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			}
		}
	}()
}
