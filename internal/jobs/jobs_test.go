package jobs

import (
	"context"
	"errors"
	"mafiabot/internal/models"
	"mafiabot/internal/providers"
	"mafiabot/internal/services"
	"mafiabot/internal/storage"
	"mafiabot/internal/structures"
	"mafiabot/internal/testutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	conf      *structures.Config
	stores    *storage.Stores
	platform  *testutil.MockPlatform
	logger    *testutil.MockLogger
	metrics   *testutil.MockMetrics
	posts     *services.PostRegistry
	jobs      *Jobs
	scheduler *Scheduler
}

func testConfig(dir string) *structures.Config {
	return &structures.Config{
		Stores: structures.StoresConfig{
			ImagesOnlyPath:       filepath.Join(dir, "imageonly.json"),
			ArchivalChannelsPath: filepath.Join(dir, "archivalchannels.json"),
			PurgeChannelsPath:    filepath.Join(dir, "purgechannels.json"),
			LogChannelsPath:      filepath.Join(dir, "logchannels.json"),
			PostsPath:            filepath.Join(dir, "posts.json"),
			BackupDir:            filepath.Join(dir, "backups"),
			BackupKeep:           3,
		},
		Purge:  structures.PurgeConfig{Window: 14 * 24 * time.Hour, PageSize: 100},
		Avatar: structures.AvatarConfig{DefaultPath: filepath.Join(dir, "Avatar.png"), Cooldown: 10 * time.Minute},
		Status: structures.StatusConfig{MaxLength: 128, Delimiter: " | ", DefaultText: "Powered by Go!"},
		Jobs: structures.JobsConfig{
			AvatarReset:  "0 0 * * *",
			StatusReset:  "0 0 * * *",
			ChannelPurge: "0 0 * * *",
			PostSweep:    "0 0 * * *",
			StateBackup:  "30 0 * * *",
			Timeout:      time.Minute,
		},
		LogMirror: structures.LogMirrorConfig{Enabled: true, Level: "info", FlushInterval: time.Hour},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		conf:     testConfig(dir),
		platform: testutil.NewMockPlatform(models.User{ID: 1, Username: "Mafiabot", Bot: true}),
		logger:   &testutil.MockLogger{},
		metrics:  testutil.NewMockMetrics(),
	}
	require.NoError(t, os.WriteFile(f.conf.Avatar.DefaultPath, []byte("png"), 0644))

	var err error
	f.stores, err = storage.NewStores(f.conf, f.metrics, f.logger)
	require.NoError(t, err)
	f.posts, err = services.NewPostRegistry(f.conf, f.platform, f.stores, f.logger, f.metrics)
	require.NoError(t, err)

	background := services.NewBackground(f.logger)
	avatar := services.NewAvatarService(f.conf, f.platform, f.logger, f.metrics)
	purge := services.NewPurgeEngine(f.conf, f.platform, f.stores, background, f.logger, f.metrics)
	backup := storage.NewBackup(f.conf, f.stores, &testutil.MockCompressor{}, f.logger)
	f.jobs = NewJobs(avatar, f.posts, purge, backup, f.logger)

	forwarder := services.NewLogForwarder(providers.NewLogMirror(f.conf), f.platform, f.stores)
	f.scheduler = NewScheduler(f.conf, f.logger, f.metrics, f.jobs, forwarder).(*Scheduler)
	return f
}

func TestJobs_AvatarResetOverridesCooldown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.jobs.RunDailyAvatarReset(ctx))
	require.NoError(t, f.jobs.RunDailyAvatarReset(ctx))
	assert.Len(t, f.platform.AvatarCalls(), 2)
}

func TestJobs_StatusReset(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.jobs.RunDailyStatusReset(context.Background()))
	assert.Equal(t, []string{"Powered by Go!"}, f.platform.StatusCalls())
}

func TestJobs_PostSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := models.DateOf(time.Now())
	require.NoError(t, f.posts.Save(ctx, models.Post{Name: "old", DisplayText: "old", EndDate: today.AddDays(-2)}))
	require.NoError(t, f.posts.Save(ctx, models.Post{Name: "live", DisplayText: "live", EndDate: today.AddDays(2)}))

	require.NoError(t, f.jobs.RunDailyPostSweep(ctx))

	posts := f.posts.Posts()
	require.Len(t, posts, 1)
	assert.Equal(t, "live", posts[0].Name)
}

func TestJobs_ChannelPurgeAliases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.jobs.RunDailyChannelPurge(ctx))
	require.NoError(t, f.jobs.RunDailyMaintenance(ctx))

	require.NoError(t, os.WriteFile(f.conf.Stores.PurgeChannelsPath, []byte("broken"), 0644))
	assert.Error(t, f.jobs.RunDailyMaintenance(ctx))
}

func TestJobs_StateBackup(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.jobs.RunStateBackup(context.Background()))

	entries, err := os.ReadDir(f.conf.Stores.BackupDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJobs_StateBackupDisabled(t *testing.T) {
	dir := t.TempDir()
	conf := testConfig(dir)
	conf.Stores.BackupDir = ""
	stores, err := storage.NewStores(conf, testutil.NewMockMetrics(), &testutil.MockLogger{})
	require.NoError(t, err)
	j := NewJobs(nil, nil, nil, storage.NewBackup(conf, stores, &testutil.MockCompressor{}, &testutil.MockLogger{}), &testutil.MockLogger{})

	assert.NoError(t, j.RunStateBackup(context.Background()))
}

func TestJobs_HandlersCoverAllNames(t *testing.T) {
	f := newFixture(t)
	handlers := f.jobs.Handlers()
	for _, name := range Names {
		assert.Contains(t, handlers, name)
	}
	assert.Len(t, handlers, len(Names))
}

func TestScheduler_RunNow(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.scheduler.RunNow(context.Background(), JobStatusReset))
	assert.Equal(t, 1, f.metrics.JobRuns["status-reset:success"])
}

func TestScheduler_RunNowUnknown(t *testing.T) {
	f := newFixture(t)

	err := f.scheduler.RunNow(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestScheduler_FailingJobLogged(t *testing.T) {
	f := newFixture(t)
	f.platform.StatusErr = errors.New("gateway closed")

	err := f.scheduler.RunNow(context.Background(), JobStatusReset)
	assert.Error(t, err)
	assert.True(t, f.logger.Contains("error", "job %s failed"))
	assert.Equal(t, 1, f.metrics.JobRuns["status-reset:error"])
}

func TestScheduler_NoOverlap(t *testing.T) {
	f := newFixture(t)
	release := make(chan struct{})
	started := make(chan struct{})
	f.scheduler.handlers[JobPostSweep] = func(context.Context) error {
		close(started)
		<-release
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- f.scheduler.RunNow(context.Background(), JobPostSweep) }()
	<-started

	assert.ErrorIs(t, f.scheduler.RunNow(context.Background(), JobPostSweep), ErrAlreadyRunning)
	close(release)
	assert.NoError(t, <-done)
	assert.Equal(t, 1, f.metrics.JobRuns["post-sweep:skipped"])
}

func TestScheduler_InitAndStop(t *testing.T) {
	f := newFixture(t)
	f.conf.Jobs.StateBackup = ""
	f.scheduler.specs[JobStateBackup] = ""

	require.NoError(t, f.scheduler.Init())
	assert.Len(t, f.scheduler.cron.Entries(), 4)
	assert.NotNil(t, f.scheduler.ticker)
	f.scheduler.Stop()

	assert.True(t, f.logger.Contains("info", "Job %s disabled"))
}

func TestScheduler_InitRejectsBadSpec(t *testing.T) {
	f := newFixture(t)
	f.scheduler.specs[JobPostSweep] = "every day"

	assert.Error(t, f.scheduler.Init())
}

func TestScheduler_StopFlushesLogs(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.conf.Stores.LogChannelsPath, []byte("[7]"), 0644))
	f.platform.AddTextChannel(7, 2, "logs")
	mirror := providers.NewLogMirror(f.conf)
	f.scheduler.forwarder = services.NewLogForwarder(mirror, f.platform, f.stores)

	require.NoError(t, f.scheduler.Init())
	mirror.Run(nil, zerolog.InfoLevel, "hello")
	f.scheduler.Stop()

	assert.Len(t, f.platform.SentTo(7), 1)
}
