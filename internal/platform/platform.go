// Package platform describes the chat platform operations the moderation
// core depends on. The discord subpackage implements it over discordgo.
package platform

import (
	"context"
	"mafiabot/internal/models"
	"time"
)

const (
	// MaxPageSize is the largest page the history endpoint returns.
	MaxPageSize = 100
	// MaxBulkDeleteAge is the age from which bulk deletion is refused.
	MaxBulkDeleteAge = 14 * 24 * time.Hour
)

type Platform interface {
	// CurrentUser is the bot account itself.
	CurrentUser() models.User
	// Channel resolves a channel, ResourceNotFoundError when it is gone.
	Channel(ctx context.Context, id models.ID) (*models.Channel, error)
	// Message fetches the current rendered state of a message.
	Message(ctx context.Context, channelID, messageID models.ID) (*models.Message, error)
	// Messages returns up to limit messages older than before (newest
	// first); before == 0 starts at the most recent message.
	Messages(ctx context.Context, channelID, before models.ID, limit int) ([]*models.Message, error)
	Member(ctx context.Context, guildID, userID models.ID) (*models.Member, error)
	DeleteMessage(ctx context.Context, channelID, messageID models.ID, reason string) error
	BulkDelete(ctx context.Context, channelID models.ID, messageIDs []models.ID, reason string) error
	SendEmbeds(ctx context.Context, channelID models.ID, embeds ...*models.Embed) error
	SetStatus(ctx context.Context, text string) error
	SetAvatar(ctx context.Context, image []byte) error
}
