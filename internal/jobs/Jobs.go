package jobs

import (
	"context"
	"fmt"
	"mafiabot/internal/providers"
	"mafiabot/internal/services"
	"mafiabot/internal/storage"
)

const (
	JobAvatarReset  = "avatar-reset"
	JobStatusReset  = "status-reset"
	JobChannelPurge = "channel-purge"
	JobPostSweep    = "post-sweep"
	JobStateBackup  = "state-backup"
)

// Names lists every job in registration order.
var Names = []string{JobAvatarReset, JobStatusReset, JobChannelPurge, JobPostSweep, JobStateBackup}

// Jobs holds the entry points fired by the scheduler.
type Jobs struct {
	avatar *services.AvatarService
	posts  *services.PostRegistry
	purge  *services.PurgeEngine
	backup *storage.Backup
	logger providers.Logger
}

func NewJobs(avatar *services.AvatarService, posts *services.PostRegistry, purge *services.PurgeEngine, backup *storage.Backup, logger providers.Logger) *Jobs {
	return &Jobs{
		avatar: avatar,
		posts:  posts,
		purge:  purge,
		backup: backup,
		logger: logger,
	}
}

// RunDailyAvatarReset restores the default avatar regardless of the cooldown.
func (j *Jobs) RunDailyAvatarReset(ctx context.Context) error {
	return j.avatar.ForceReset(ctx)
}

// RunDailyStatusReset republishes the status so that day counters move on.
func (j *Jobs) RunDailyStatusReset(ctx context.Context) error {
	return j.posts.Publish(ctx)
}

func (j *Jobs) RunDailyChannelPurge(ctx context.Context) error {
	report, err := j.purge.PurgeAll(ctx)
	if err != nil {
		return err
	}
	j.logger.Infof(providers.TypeJob, "Channel purge queued %d deletions in %d channels", report.Deleted, report.Channels)
	return nil
}

func (j *Jobs) RunDailyMaintenance(ctx context.Context) error {
	return j.RunDailyChannelPurge(ctx)
}

func (j *Jobs) RunDailyPostSweep(ctx context.Context) error {
	_, err := j.posts.Sweep(ctx)
	return err
}

func (j *Jobs) RunStateBackup(_ context.Context) error {
	if !j.backup.Enabled() {
		j.logger.Debugf(providers.TypeJob, "State backup skipped, no backup directory configured")
		return nil
	}
	path, err := j.backup.Snapshot()
	if err != nil {
		return fmt.Errorf("state backup: %w", err)
	}
	j.logger.Infof(providers.TypeJob, "State backed up to %s", path)
	return nil
}

// Handlers maps job names to their entry point.
func (j *Jobs) Handlers() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		JobAvatarReset:  j.RunDailyAvatarReset,
		JobStatusReset:  j.RunDailyStatusReset,
		JobChannelPurge: j.RunDailyChannelPurge,
		JobPostSweep:    j.RunDailyPostSweep,
		JobStateBackup:  j.RunStateBackup,
	}
}
