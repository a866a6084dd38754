package services

import (
	"context"
	"mafiabot/internal/models"
	"mafiabot/internal/providers"
)

// Dispatcher fans every incoming message out to the Bouncer and the Archiver.
// Both run on their own goroutine and neither waits for the other. Gateway
// replays of an already seen message are dropped.
type Dispatcher struct {
	bouncer    *Bouncer
	archiver   *Archiver
	background *Background
	seen       providers.CacheProviderInterface
	logger     providers.Logger
}

func NewDispatcher(bouncer *Bouncer, archiver *Archiver, background *Background, cache providers.CacheProviderInterface, logger providers.Logger) *Dispatcher {
	return &Dispatcher{
		bouncer:    bouncer,
		archiver:   archiver,
		background: background,
		seen:       cache,
		logger:     logger,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, msg *models.Message) {
	if d.seen.Mark("msg:" + msg.ID.String()) {
		d.logger.Debugf(providers.TypeGateway, "Skipping replayed message %s", msg.ID)
		return
	}

	d.background.Go(providers.TypeBouncer, "image-only check of "+msg.ID.String(), func() error {
		_, err := d.bouncer.Check(ctx, msg)
		return err
	})
	d.background.Go(providers.TypeArchiver, "archive of "+msg.ID.String(), func() error {
		_, err := d.archiver.Mirror(ctx, msg)
		return err
	})
}
