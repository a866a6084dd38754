package jobs

import (
	"context"
	"errors"
	"fmt"
	"mafiabot/internal/providers"
	"mafiabot/internal/services"
	"mafiabot/internal/structures"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/roylee0704/gron"
)

const defaultFlushInterval = 5 * time.Second

var (
	ErrUnknownJob     = errors.New("unknown job")
	ErrAlreadyRunning = errors.New("job is already running")
)

type SchedulerInterface interface {
	Init() error
	Stop()
	RunNow(ctx context.Context, name string) error
}

// Scheduler fires the daily jobs on their cron specs (UTC) and flushes the
// log mirror on a fixed interval. A job never overlaps with itself.
type Scheduler struct {
	config    *structures.Config
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	forwarder *services.LogForwarder
	handlers  map[string]func(context.Context) error
	specs     map[string]string
	running   map[string]*sync.Mutex
	cron      *cron.Cron
	ticker    *gron.Cron
}

func NewScheduler(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, jobs *Jobs, forwarder *services.LogForwarder) SchedulerInterface {
	s := &Scheduler{
		config:    config,
		logger:    logger,
		metrics:   metrics,
		forwarder: forwarder,
		handlers:  jobs.Handlers(),
		specs: map[string]string{
			JobAvatarReset:  config.Jobs.AvatarReset,
			JobStatusReset:  config.Jobs.StatusReset,
			JobChannelPurge: config.Jobs.ChannelPurge,
			JobPostSweep:    config.Jobs.PostSweep,
			JobStateBackup:  config.Jobs.StateBackup,
		},
		running: make(map[string]*sync.Mutex, len(Names)),
	}
	for _, name := range Names {
		s.running[name] = &sync.Mutex{}
	}
	return s
}

func (s *Scheduler) Init() error {
	s.cron = cron.New(cron.WithLocation(time.UTC))
	for _, name := range Names {
		spec := s.specs[name]
		if spec == "" {
			s.logger.Infof(providers.TypeJob, "Job %s disabled", name)
			continue
		}
		jobName := name
		if _, err := s.cron.AddFunc(spec, func() { s.fire(jobName) }); err != nil {
			return fmt.Errorf("schedule job %s (%q): %w", name, spec, err)
		}
		s.logger.Infof(providers.TypeJob, "Job %s scheduled at %q UTC", name, spec)
	}
	s.cron.Start()

	if s.forwarder != nil && s.forwarder.Enabled() {
		interval := s.config.LogMirror.FlushInterval
		if interval <= 0 {
			interval = defaultFlushInterval
		}
		s.ticker = gron.New()
		s.ticker.AddFunc(gron.Every(interval), s.flushLogs)
		s.ticker.Start()
	}
	return nil
}

// Stop waits for running jobs and sends the remaining log lines.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	if s.ticker != nil {
		s.ticker.Stop()
		s.flushLogs()
	}
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	if _, ok := s.handlers[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.execute(ctx, name)
}

func (s *Scheduler) fire(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Jobs.Timeout)
	defer cancel()
	_ = s.execute(ctx, name)
}

func (s *Scheduler) execute(ctx context.Context, name string) error {
	mu := s.running[name]
	if !mu.TryLock() {
		s.logger.Warnf(providers.TypeJob, "Job %s skipped, previous run still active", name)
		s.metrics.IncJobRuns(name, "skipped")
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, name)
	}
	defer mu.Unlock()

	s.logger.Infof(providers.TypeJob, "Job %s has been triggered", name)
	start := time.Now()
	if err := s.handlers[name](ctx); err != nil {
		s.logger.Errorf(providers.TypeJob, "job %s failed: %s", name, err)
		s.metrics.IncJobRuns(name, "error")
		return err
	}
	s.logger.Infof(providers.TypeJob, "Job %s finished in %s", name, time.Since(start).Round(time.Millisecond))
	s.metrics.IncJobRuns(name, "success")
	return nil
}

func (s *Scheduler) flushLogs() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.forwarder.Flush(ctx); err != nil {
		// logged below the mirror level so a failing log channel cannot feed itself
		s.logger.Debugf(providers.TypeJob, "Log mirror flush failed: %s", err)
	}
}
