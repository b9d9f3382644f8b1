package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the reload endpoint to drive catalog loads.
// Example usage:
//
//	scheduler := NewScheduler(store, src, opts, Options{Interval: 5 * time.Minute})
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.Reload()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	Reload() (string, error)
}
