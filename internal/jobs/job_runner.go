package jobs

import (
	"selfstore-backend/internal/config"
	"selfstore-backend/internal/logger"
	"selfstore-backend/internal/repository/postgres"
	"selfstore-backend/internal/service"
)

// JobRunner coordinates all scheduled maintenance jobs
type JobRunner struct {
	store        *postgres.Store
	availability service.AvailabilityService
	config       *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store *postgres.Store, availability service.AvailabilityService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:        store,
		availability: availability,
		config:       cfg,
	}
}

// Config exposes the configuration for schedule registration
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllJobs runs every maintenance job once (for manual execution)
func (jr *JobRunner) RunAllJobs() {
	jr.ExpirePendingPayments()
	jr.ReconcileAvailability()
	jr.CompleteFinishedBookings()
}
