package services

import (
	"context"
	"fmt"
	"mafiabot/internal/models"
	"mafiabot/internal/platform"
	"mafiabot/internal/providers"
	"mafiabot/internal/storage"
	"mafiabot/internal/structures"
	"time"
)

const defaultPurgeReason = "Scheduled channel purge."

type PurgeFailure struct {
	ChannelID models.ID `json:"channel_id,string"`
	Error     string    `json:"error"`
}

type PurgeReport struct {
	Channels int            `json:"channels"`
	Deleted  int            `json:"deleted"`
	Failures []PurgeFailure `json:"failures"`
}

// PurgeEngine empties the configured channels of every message young enough
// for bulk deletion.
type PurgeEngine struct {
	platform   platform.Platform
	targets    *storage.ChannelList
	background *Background
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	window     time.Duration
	pageSize   int
	reason     string
	now        func() time.Time
}

func NewPurgeEngine(conf *structures.Config, p platform.Platform, stores *storage.Stores, background *Background, logger providers.Logger, metrics providers.MetricsProviderInterface) *PurgeEngine {
	pageSize := conf.Purge.PageSize
	if pageSize <= 0 || pageSize > platform.MaxPageSize {
		pageSize = platform.MaxPageSize
	}
	window := conf.Purge.Window
	if window <= 0 || window > platform.MaxBulkDeleteAge {
		window = platform.MaxBulkDeleteAge
	}
	reason := conf.Purge.AuditReason
	if reason == "" {
		reason = defaultPurgeReason
	}
	return &PurgeEngine{
		platform:   p,
		targets:    stores.PurgeTargets,
		background: background,
		logger:     logger,
		metrics:    metrics,
		window:     window,
		pageSize:   pageSize,
		reason:     reason,
		now:        time.Now,
	}
}

// PurgeAll purges every listed channel. A failing channel is logged, recorded
// in the report and skipped.
func (e *PurgeEngine) PurgeAll(ctx context.Context) (PurgeReport, error) {
	report := PurgeReport{Failures: []PurgeFailure{}}

	ids, err := e.targets.IDs()
	if err != nil {
		return report, fmt.Errorf("load purge targets: %w", err)
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Channels++
		n, err := e.PurgeChannel(ctx, id)
		report.Deleted += n
		if err != nil {
			e.logger.Warnf(providers.TypePurge, "Purge of channel %s failed: %s", id, err)
			report.Failures = append(report.Failures, PurgeFailure{ChannelID: id, Error: err.Error()})
		}
	}

	e.logger.Infof(providers.TypePurge, "Purged %d messages from %d channels, %d failed",
		report.Deleted, report.Channels, len(report.Failures))
	return report, nil
}

// PurgeChannel walks the history newest-first and queues deletion of every
// message inside the window. It returns the number of messages queued.
func (e *PurgeEngine) PurgeChannel(ctx context.Context, channelID models.ID) (int, error) {
	ch, err := e.platform.Channel(ctx, channelID)
	if err != nil {
		return 0, err
	}
	if !ch.IsText() {
		return 0, &platform.ResourceNotFoundError{Kind: "text channel", ID: channelID}
	}

	total := 0
	defer func() {
		e.metrics.AddMessagesPurged(channelID.String(), total)
	}()

	deleteCtx := context.WithoutCancel(ctx)
	var before models.ID
	for {
		page, err := e.platform.Messages(ctx, channelID, before, e.pageSize)
		if err != nil {
			return total, fmt.Errorf("read history of %s: %w", channelID, err)
		}
		if len(page) == 0 {
			break
		}

		eligible := e.eligible(page)
		if len(eligible) == 0 {
			break
		}

		e.background.Go(providers.TypePurge, "bulk delete in "+channelID.String(), func() error {
			return e.platform.BulkDelete(deleteCtx, channelID, eligible, e.reason)
		})
		total += len(eligible)
		before = oldest(page)
	}

	if total > 0 {
		e.logger.Infof(providers.TypePurge, "Queued %d messages of #%s for deletion", total, ch.Name)
	}
	return total, nil
}

func (e *PurgeEngine) eligible(page []*models.Message) []models.ID {
	now := e.now()
	ids := make([]models.ID, 0, len(page))
	for _, msg := range page {
		if now.Sub(msg.ID.CreatedAt()) < e.window {
			ids = append(ids, msg.ID)
		}
	}
	return ids
}

func oldest(page []*models.Message) models.ID {
	id := page[0].ID
	for _, msg := range page[1:] {
		if msg.ID < id {
			id = msg.ID
		}
	}
	return id
}
