package jobs

import (
	"context"

	"tracking/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PartnerReconciler runs one reconciliation pass.
type PartnerReconciler interface {
	Handle(ctx context.Context, cmd commands.ReconcilePartnersCommand) (int, error)
}

// PartnerReconciliationJob periodically realigns delivery partner
// availability with the orders that reference them.
type PartnerReconciliationJob struct {
	handler  PartnerReconciler
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewPartnerReconciliationJob creates the job. Nothing runs before Start.
func NewPartnerReconciliationJob(handler PartnerReconciler, schedule string, logger *zap.Logger) *PartnerReconciliationJob {
	logger = logger.With(zap.String("component", "partner_reconciliation_job"))
	return &PartnerReconciliationJob{
		handler:  handler,
		schedule: schedule,
		cron:     newCron(logger),
		logger:   logger,
	}
}

// Start schedules the job. It fails for an invalid cron spec.
func (j *PartnerReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("job started", zap.String("schedule", j.schedule))
	return nil
}

// Run performs one reconciliation pass. Failures are logged; the next tick retries.
func (j *PartnerReconciliationJob) Run(ctx context.Context) {
	repaired, err := j.handler.Handle(ctx, commands.NewReconcilePartnersCommand())
	if err != nil {
		j.logger.Error("reconciliation failed", zap.Error(err))
		return
	}
	if repaired > 0 {
		j.logger.Info("partners repaired", zap.Int("count", repaired))
	}
}

// Stop waits for a running pass to finish.
func (j *PartnerReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("job stopped")
}
