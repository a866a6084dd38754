package internal

import (
	"context"
	"fmt"
	"mafiabot/internal/jobs"
	"mafiabot/internal/platform/discord"
	"mafiabot/internal/providers"
	"mafiabot/internal/services"
)

// Operator runs a single job outside the daemon, for cron-less deployments
// and manual recovery.
type Operator struct {
	session    *discord.Session
	scheduler  jobs.SchedulerInterface
	background *services.Background
	forwarder  *services.LogForwarder
	logger     providers.Logger
}

func NewOperator(session *discord.Session, scheduler jobs.SchedulerInterface, background *services.Background, forwarder *services.LogForwarder, logger providers.Logger) *Operator {
	return &Operator{
		session:    session,
		scheduler:  scheduler,
		background: background,
		forwarder:  forwarder,
		logger:     logger,
	}
}

func (o *Operator) RunJob(ctx context.Context, name string) error {
	defer o.logger.Close()

	if err := o.session.Open(); err != nil {
		return err
	}
	defer func() {
		if err := o.session.Close(); err != nil {
			o.logger.Warnf(providers.TypeGateway, "Close error: %s", err)
		}
	}()

	runErr := o.scheduler.RunNow(ctx, name)
	if err := o.background.Shutdown(ctx); err != nil {
		o.logger.Warnf(providers.TypeApp, "%s", err)
	}
	if o.forwarder.Enabled() {
		if err := o.forwarder.Flush(ctx); err != nil {
			o.logger.Debugf(providers.TypeJob, "Log mirror flush failed: %s", err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("run %s: %w", name, runErr)
	}
	return nil
}
