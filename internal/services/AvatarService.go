package services

import (
	"context"
	"errors"
	"fmt"
	"mafiabot/internal/platform"
	"mafiabot/internal/providers"
	"mafiabot/internal/structures"
	"os"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var ErrEmptyAvatar = errors.New("avatar image is empty")

// RateLimitedError is returned while the avatar cooldown is running.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("avatar was changed recently, try again in %s", e.RetryAfter.Round(time.Second))
}

// AvatarService changes the bot avatar at most once per cooldown. A failed
// change does not use up the cooldown.
type AvatarService struct {
	mu          sync.Mutex
	platform    platform.Platform
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	limiter     *rate.Limiter
	defaultPath string
	bypass      bool
	now         func() time.Time
}

func NewAvatarService(conf *structures.Config, p platform.Platform, logger providers.Logger, metrics providers.MetricsProviderInterface) *AvatarService {
	return &AvatarService{
		platform:    p,
		logger:      logger,
		metrics:     metrics,
		limiter:     rate.NewLimiter(rate.Every(conf.Avatar.Cooldown), 1),
		defaultPath: conf.Avatar.DefaultPath,
		bypass:      conf.Development,
		now:         time.Now,
	}
}

// Change sets image as the avatar unless the cooldown is still running.
func (a *AvatarService) Change(ctx context.Context, image []byte) error {
	return a.change(ctx, image, a.bypass)
}

// Reset restores the default avatar, subject to the cooldown.
func (a *AvatarService) Reset(ctx context.Context) error {
	image, err := a.defaultImage()
	if err != nil {
		return err
	}
	return a.change(ctx, image, a.bypass)
}

// ForceReset restores the default avatar ignoring the cooldown and starts a
// new cooldown on success. Used by the daily job.
func (a *AvatarService) ForceReset(ctx context.Context) error {
	image, err := a.defaultImage()
	if err != nil {
		return err
	}
	return a.change(ctx, image, true)
}

func (a *AvatarService) change(ctx context.Context, image []byte, override bool) error {
	if len(image) == 0 {
		return ErrEmptyAvatar
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	res := a.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		if !override {
			a.metrics.IncAvatarChanges("rate_limited")
			return &RateLimitedError{RetryAfter: delay}
		}
		// a forced change restarts the cooldown from now
		a.limiter = rate.NewLimiter(a.limiter.Limit(), 1)
		res = a.limiter.ReserveN(now, 1)
	}

	if err := a.platform.SetAvatar(ctx, image); err != nil {
		res.CancelAt(now)
		a.metrics.IncAvatarChanges("error")
		return fmt.Errorf("change avatar: %w", err)
	}

	a.metrics.IncAvatarChanges("changed")
	a.logger.Infof(providers.TypeAvatar, "Avatar changed (%d bytes)", len(image))
	return nil
}

func (a *AvatarService) defaultImage() ([]byte, error) {
	image, err := os.ReadFile(a.defaultPath)
	if err != nil {
		return nil, fmt.Errorf("read default avatar: %w", err)
	}
	return image, nil
}
