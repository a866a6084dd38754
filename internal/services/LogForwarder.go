package services

import (
	"context"
	"errors"
	"fmt"
	"mafiabot/internal/models"
	"mafiabot/internal/platform"
	"mafiabot/internal/providers"
	"mafiabot/internal/storage"
	"strings"

	"github.com/rs/zerolog"
)

const maxLogDescription = 4000

var severityColors = map[zerolog.Level]int{
	zerolog.PanicLevel: 0x9200d6,
	zerolog.FatalLevel: 0xe60000,
	zerolog.ErrorLevel: 0xd98d00,
	zerolog.WarnLevel:  0xffff00,
	zerolog.InfoLevel:  0x00e308,
	zerolog.DebugLevel: 0x0057d1,
	zerolog.TraceLevel: 0x5f02e0,
}

// LogForwarder posts buffered log lines to the log channels.
type LogForwarder struct {
	mirror   *providers.LogMirror
	channels *storage.ChannelList
	platform platform.Platform
}

func NewLogForwarder(mirror *providers.LogMirror, p platform.Platform, stores *storage.Stores) *LogForwarder {
	return &LogForwarder{
		mirror:   mirror,
		channels: stores.LogChannels,
		platform: p,
	}
}

func (f *LogForwarder) Enabled() bool {
	return f.mirror.Enabled()
}

// Flush sends everything buffered since the last flush. Entries are dropped
// when no log channel is reachable.
func (f *LogForwarder) Flush(ctx context.Context) error {
	entries, dropped := f.mirror.Drain()
	if len(entries) == 0 && dropped == 0 {
		return nil
	}

	embeds := make([]*models.Embed, 0, len(entries)+1)
	for _, e := range entries {
		embeds = append(embeds, LogEmbed(e))
	}
	if dropped > 0 {
		embeds = append(embeds, &models.Embed{
			Color:       severityColors[zerolog.WarnLevel],
			Description: fmt.Sprintf("`%d log lines dropped`", dropped),
		})
	}

	ids, err := f.channels.IDs()
	if err != nil {
		return fmt.Errorf("load log channels: %w", err)
	}

	var errs []error
	for _, id := range ids {
		ch, err := f.platform.Channel(ctx, id)
		if err != nil || !ch.IsText() {
			continue
		}
		if err := f.platform.SendEmbeds(ctx, id, embeds...); err != nil {
			errs = append(errs, fmt.Errorf("log channel %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// LogEmbed renders one log line, colored by severity.
func LogEmbed(e providers.MirrorEntry) *models.Embed {
	line := fmt.Sprintf("%s %s %s", e.Time.UTC().Format("15:04:05"), strings.ToUpper(e.Level.String()), e.Message)
	return &models.Embed{
		Color:       severityColors[e.Level],
		Timestamp:   e.Time,
		Description: "`" + models.Truncate(line, maxLogDescription) + "`",
	}
}
