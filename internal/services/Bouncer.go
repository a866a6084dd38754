package services

import (
	"context"
	"fmt"
	"mafiabot/internal/models"
	"mafiabot/internal/platform"
	"mafiabot/internal/providers"
	"mafiabot/internal/storage"
	"mafiabot/internal/structures"
	"strings"
	"time"
)

// maxAuditReason is the platform limit for audit log reasons.
const maxAuditReason = 512

type Verdict int

const (
	VerdictExempt Verdict = iota
	VerdictKept
	VerdictDeleted
)

func (v Verdict) String() string {
	switch v {
	case VerdictExempt:
		return "exempt"
	case VerdictDeleted:
		return "deleted"
	default:
		return "kept"
	}
}

// Bouncer removes text-only messages from image-only channels once the
// grace period has passed without an embed or attachment showing up.
type Bouncer struct {
	platform platform.Platform
	toggles  *storage.ToggleSet
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	grace    time.Duration
	prefixes []string
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewBouncer(conf *structures.Config, p platform.Platform, stores *storage.Stores, logger providers.Logger, metrics providers.MetricsProviderInterface) *Bouncer {
	return &Bouncer{
		platform: p,
		toggles:  stores.ImagesOnly,
		logger:   logger,
		metrics:  metrics,
		grace:    conf.Bouncer.GracePeriod,
		prefixes: conf.Bouncer.CommandPrefixes,
		sleep:    sleepContext,
	}
}

func (b *Bouncer) Check(ctx context.Context, msg *models.Message) (Verdict, error) {
	verdict, err := b.check(ctx, msg)
	b.metrics.IncMessagesEvaluated(verdict.String())
	return verdict, err
}

func (b *Bouncer) check(ctx context.Context, msg *models.Message) (Verdict, error) {
	if b.Exempt(msg) {
		return VerdictExempt, nil
	}
	if msg.GuildID == 0 {
		return VerdictKept, nil
	}

	guarded, err := b.toggles.Contains(msg.ChannelID)
	if err != nil {
		return VerdictKept, fmt.Errorf("image-only lookup: %w", err)
	}
	if !guarded {
		return VerdictKept, nil
	}

	if err := b.sleep(ctx, b.grace); err != nil {
		b.logger.Debugf(providers.TypeBouncer, "Grace wait for %s aborted: %s", msg.ID, err)
		return VerdictKept, nil
	}

	current, err := b.platform.Message(ctx, msg.ChannelID, msg.ID)
	if err != nil {
		if platform.IsNotFound(err) {
			return VerdictKept, nil
		}
		return VerdictKept, fmt.Errorf("refetch message %s: %w", msg.ID, err)
	}
	if current.HasMedia() {
		return VerdictKept, nil
	}

	name := msg.ChannelID.String()
	if ch, err := b.platform.Channel(ctx, msg.ChannelID); err == nil {
		name = ch.Name
	}
	reason := fmt.Sprintf("Non-image message of content %s sent in image-only channel %s.", current.Content, name)
	if err := b.platform.DeleteMessage(ctx, msg.ChannelID, msg.ID, models.Truncate(reason, maxAuditReason)); err != nil {
		if platform.IsNotFound(err) {
			return VerdictKept, nil
		}
		return VerdictKept, fmt.Errorf("delete message %s: %w", msg.ID, err)
	}

	b.logger.Infof(providers.TypeBouncer, "Deleted text message %s from image-only channel %s", msg.ID, name)
	return VerdictDeleted, nil
}

// Exempt reports whether msg is a bot message or addressed to the bot.
func (b *Bouncer) Exempt(msg *models.Message) bool {
	if msg.Author.Bot {
		return true
	}
	for _, prefix := range b.prefixes {
		if prefix != "" && strings.HasPrefix(msg.Content, prefix) {
			return true
		}
	}
	self := b.platform.CurrentUser().ID
	if self == 0 {
		return false
	}
	return strings.HasPrefix(msg.Content, "<@"+self.String()+">") ||
		strings.HasPrefix(msg.Content, "<@!"+self.String()+">")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
