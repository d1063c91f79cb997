package jobs

import (
	"context"

	"tracking/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// AssignmentSource lists active assignments keyed by partner.
type AssignmentSource interface {
	ActiveAssignments(ctx context.Context) (map[kernel.UUID]kernel.UUID, error)
}

// AssignmentCache is replaced wholesale on every run.
type AssignmentCache interface {
	Replace(byPartner map[kernel.UUID]kernel.UUID)
}

// AssignmentRefreshJob reloads the broadcaster's assignment cache from
// storage, so that transitions committed by other instances are picked up.
type AssignmentRefreshJob struct {
	source   AssignmentSource
	cache    AssignmentCache
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewAssignmentRefreshJob creates the job. Nothing runs before Start.
func NewAssignmentRefreshJob(
	source AssignmentSource,
	cache AssignmentCache,
	schedule string,
	logger *zap.Logger,
) *AssignmentRefreshJob {
	logger = logger.With(zap.String("component", "assignment_refresh_job"))
	return &AssignmentRefreshJob{
		source:   source,
		cache:    cache,
		schedule: schedule,
		cron:     newCron(logger),
		logger:   logger,
	}
}

// Start schedules the job. It fails for an invalid cron spec.
func (j *AssignmentRefreshJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("job started", zap.String("schedule", j.schedule))
	return nil
}

// Run keeps the current cache when the source fails.
func (j *AssignmentRefreshJob) Run(ctx context.Context) {
	assignments, err := j.source.ActiveAssignments(ctx)
	if err != nil {
		j.logger.Error("refresh failed", zap.Error(err))
		return
	}
	j.cache.Replace(assignments)
	j.logger.Debug("assignments refreshed", zap.Int("active", len(assignments)))
}

// Stop waits for a running refresh to finish.
func (j *AssignmentRefreshJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("job stopped")
}
