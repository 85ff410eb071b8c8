package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"invoicedash/internal/config"
	"invoicedash/internal/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

const SummaryRefreshJob = "dashboard-summary-refresh"

// SummaryRefresher recomputes and caches the dashboard cards
type SummaryRefresher interface {
	Refresh(ctx context.Context) (*models.CardData, error)
}

// JobScheduler manages background jobs across replicas
type JobScheduler struct {
	scheduler gocron.Scheduler
	summary   SummaryRefresher
	interval  time.Duration
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
	logger    *logrus.Logger
}

// NewJobScheduler creates the scheduler and registers its jobs. A nil locker runs
// every job locally on every replica.
func NewJobScheduler(summary SummaryRefresher, interval time.Duration, locker gocron.Locker) (*JobScheduler, error) {
	var opts []gocron.SchedulerOption
	if locker != nil {
		opts = append(opts, gocron.WithDistributedLocker(locker))
	}

	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		summary:   summary,
		interval:  interval,
		jobs:      make(map[string]gocron.Job),
		logger:    config.GetLogger(),
	}

	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.WithField("module", "background").Info("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	js.logger.WithField("module", "background").Info("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.refreshSummary, context.Background()),
		gocron.WithName(SummaryRefreshJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", SummaryRefreshJob, err)
	}

	js.mu.Lock()
	js.jobs[SummaryRefreshJob] = job
	js.mu.Unlock()

	js.logger.WithField("module", "background").Infof("Registered %d background jobs", len(js.jobs))
	return nil
}

func (js *JobScheduler) refreshSummary(ctx context.Context) error {
	data, err := js.summary.Refresh(ctx)
	if err != nil {
		config.LogError(js.logger, "background", "refreshSummary", "", nil, err)
		return err
	}

	js.logger.WithFields(logrus.Fields{
		"module":    "background",
		"invoices":  data.NumberOfInvoices,
		"customers": data.NumberOfCustomers,
	}).Debug("dashboard summary refreshed")
	return nil
}

// JobStatus describes one scheduled job
type JobStatus struct {
	Name    string    `json:"name"`
	LastRun time.Time `json:"last_run"`
	NextRun time.Time `json:"next_run"`
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	jobs := make([]JobStatus, 0, len(names))
	for _, name := range names {
		status := JobStatus{Name: name}
		job := js.jobs[name]
		if last, err := job.LastRun(); err == nil {
			status.LastRun = last
		}
		if next, err := job.NextRun(); err == nil {
			status.NextRun = next
		}
		jobs = append(jobs, status)
	}

	return map[string]interface{}{
		"total_jobs": len(jobs),
		"jobs":       jobs,
	}
}
