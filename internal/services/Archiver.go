package services

import (
	"context"
	"fmt"
	"mafiabot/internal/models"
	"mafiabot/internal/platform"
	"mafiabot/internal/providers"
	"mafiabot/internal/storage"
)

// Archiver mirrors messages of archived channels into their target channel.
type Archiver struct {
	platform   platform.Platform
	archives   *storage.ArchivalMap
	background *Background
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewArchiver(p platform.Platform, stores *storage.Stores, background *Background, logger providers.Logger, metrics providers.MetricsProviderInterface) *Archiver {
	return &Archiver{
		platform:   p,
		archives:   stores.Archives,
		background: background,
		logger:     logger,
		metrics:    metrics,
	}
}

// Mirror dispatches the mirror embed and reports whether a send was started.
func (a *Archiver) Mirror(ctx context.Context, msg *models.Message) (bool, error) {
	target, ok, err := a.archives.Get(msg.ChannelID)
	if err != nil {
		return false, fmt.Errorf("archive lookup: %w", err)
	}
	if !ok {
		return false, nil
	}

	ch, err := a.platform.Channel(ctx, target)
	if err != nil && !platform.IsNotFound(err) {
		return false, fmt.Errorf("resolve archive target %s: %w", target, err)
	}
	if err != nil || !ch.IsText() {
		a.logger.Warnf(providers.TypeArchiver, "Archive target %s of channel %s is not a text channel", target, msg.ChannelID)
		a.metrics.IncMessagesArchived("unresolved")
		return false, nil
	}

	embed := a.BuildEmbed(ctx, msg)
	sendCtx := context.WithoutCancel(ctx)
	a.background.Go(providers.TypeArchiver, "mirror of message "+msg.ID.String(), func() error {
		if err := a.platform.SendEmbeds(sendCtx, target, embed); err != nil {
			a.metrics.IncMessagesArchived("error")
			return err
		}
		a.metrics.IncMessagesArchived("sent")
		return nil
	})
	return true, nil
}

// BuildEmbed renders msg as it appears in the archive. Authors that cannot be
// resolved as guild members fall back to their account details.
func (a *Archiver) BuildEmbed(ctx context.Context, msg *models.Message) *models.Embed {
	embed := &models.Embed{
		AuthorName:    msg.Author.Username,
		AuthorIconURL: msg.Author.Avatar(),
		AuthorURL:     msg.JumpURL(),
		Timestamp:     msg.Timestamp,
		Description:   msg.Content,
	}

	if msg.GuildID != 0 && msg.Author.ID != 0 {
		member, err := a.platform.Member(ctx, msg.GuildID, msg.Author.ID)
		if err == nil {
			embed.AuthorName = member.DisplayName()
			embed.AuthorIconURL = member.Avatar()
			embed.Color = member.HighestRoleColor()
		} else if !platform.IsNotFound(err) {
			a.logger.Debugf(providers.TypeArchiver, "Member lookup for %s failed: %s", msg.Author.ID, err)
		}
	}

	if img, ok := msg.FirstImage(); ok {
		embed.ImageURL = img.URL
	}
	return embed
}
