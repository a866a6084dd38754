package discord

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mafiabot/internal/models"
	"mafiabot/internal/platform"
	"mafiabot/internal/providers"
	"mafiabot/internal/structures"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

const (
	maxEmbedsPerMessage = 10
	playingActivity     = 0
)

// Mutating calls surface 429s to the caller instead of sleeping and retrying.
var noRetry = discordgo.WithRetryOnRatelimit(false)

// Session implements platform.Platform over a discordgo gateway session.
type Session struct {
	s      *discordgo.Session
	logger providers.Logger
}

var _ platform.Platform = (*Session)(nil)

func NewSession(conf *structures.Config, logger providers.Logger) (*Session, error) {
	s, err := discordgo.New("Bot " + conf.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("unable to create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsAllWithoutPrivileged | discordgo.IntentMessageContent
	s.StateEnabled = true
	if conf.Development {
		s.LogLevel = discordgo.LogInformational
	}
	return &Session{s: s, logger: logger}, nil
}

func (d *Session) Open() error {
	if err := d.s.Open(); err != nil {
		return fmt.Errorf("unable to open gateway: %w", err)
	}
	d.logger.Infof(providers.TypeGateway, "Connected as %s", d.CurrentUser().Username)
	return nil
}

func (d *Session) Close() error {
	return d.s.Close()
}

// OnMessage registers fn for every message created in a visible channel.
func (d *Session) OnMessage(fn func(msg *models.Message)) {
	d.s.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Message == nil {
			return
		}
		fn(toMessage(m.Message))
	})
}

// OnReady registers fn for every (re)connection.
func (d *Session) OnReady(fn func()) {
	d.s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		d.logger.Infof(providers.TypeGateway, "Gateway ready, %d guilds", len(r.Guilds))
		fn()
	})
}

func (d *Session) CurrentUser() models.User {
	if d.s.State == nil || d.s.State.User == nil {
		return models.User{}
	}
	return toUser(d.s.State.User)
}

func (d *Session) Channel(ctx context.Context, channelID models.ID) (*models.Channel, error) {
	if c, err := d.s.State.Channel(channelID.String()); err == nil {
		return toChannel(c), nil
	}
	c, err := d.s.Channel(channelID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, translate(err, "channel", channelID, "read channel")
	}
	return toChannel(c), nil
}

func (d *Session) Message(ctx context.Context, channelID, messageID models.ID) (*models.Message, error) {
	m, err := d.s.ChannelMessage(channelID.String(), messageID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, translate(err, "message", messageID, "read message")
	}
	return toMessage(m), nil
}

func (d *Session) Messages(ctx context.Context, channelID, before models.ID, limit int) ([]*models.Message, error) {
	if limit <= 0 || limit > platform.MaxPageSize {
		limit = platform.MaxPageSize
	}
	beforeID := ""
	if before != 0 {
		beforeID = before.String()
	}
	page, err := d.s.ChannelMessages(channelID.String(), limit, beforeID, "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, translate(err, "channel", channelID, "read message history")
	}
	out := make([]*models.Message, len(page))
	for i, m := range page {
		out[i] = toMessage(m)
	}
	return out, nil
}

func (d *Session) Member(ctx context.Context, guildID, userID models.ID) (*models.Member, error) {
	m, err := d.s.State.Member(guildID.String(), userID.String())
	if err != nil {
		m, err = d.s.GuildMember(guildID.String(), userID.String(), discordgo.WithContext(ctx))
		if err != nil {
			return nil, translate(err, "member", userID, "read member")
		}
	}

	member := &models.Member{
		User:     toUser(m.User),
		Nickname: m.Nick,
	}
	if m.Avatar != "" {
		member.AvatarURL = m.AvatarURL("")
	}
	roles, err := d.guildRoles(ctx, guildID)
	if err != nil {
		return nil, err
	}
	for _, roleID := range m.Roles {
		if r, ok := roles[roleID]; ok {
			member.Roles = append(member.Roles, toRole(r))
		}
	}
	return member, nil
}

func (d *Session) guildRoles(ctx context.Context, guildID models.ID) (map[string]*discordgo.Role, error) {
	var roles []*discordgo.Role
	if g, err := d.s.State.Guild(guildID.String()); err == nil {
		roles = g.Roles
	} else {
		roles, err = d.s.GuildRoles(guildID.String(), discordgo.WithContext(ctx))
		if err != nil {
			return nil, translate(err, "guild", guildID, "read roles")
		}
	}
	byID := make(map[string]*discordgo.Role, len(roles))
	for _, r := range roles {
		byID[r.ID] = r
	}
	return byID, nil
}

func (d *Session) DeleteMessage(ctx context.Context, channelID, messageID models.ID, reason string) error {
	err := d.s.ChannelMessageDelete(channelID.String(), messageID.String(),
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason), noRetry)
	return translate(err, "message", messageID, "delete message")
}

// BulkDelete deletes messages in chunks of 100; a single message goes through
// the regular delete endpoint because bulk deletion needs at least two.
func (d *Session) BulkDelete(ctx context.Context, channelID models.ID, messageIDs []models.ID, reason string) error {
	switch len(messageIDs) {
	case 0:
		return nil
	case 1:
		return d.DeleteMessage(ctx, channelID, messageIDs[0], reason)
	}
	for start := 0; start < len(messageIDs); start += platform.MaxPageSize {
		end := min(start+platform.MaxPageSize, len(messageIDs))
		chunk := models.IDsToStrings(messageIDs[start:end])
		var err error
		if len(chunk) == 1 {
			err = d.s.ChannelMessageDelete(channelID.String(), chunk[0],
				discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason), noRetry)
		} else {
			err = d.s.ChannelMessagesBulkDelete(channelID.String(), chunk,
				discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason), noRetry)
		}
		if err != nil {
			return translate(err, "channel", channelID, "bulk delete")
		}
	}
	return nil
}

func (d *Session) SendEmbeds(ctx context.Context, channelID models.ID, embeds ...*models.Embed) error {
	for start := 0; start < len(embeds); start += maxEmbedsPerMessage {
		end := min(start+maxEmbedsPerMessage, len(embeds))
		batch := make([]*discordgo.MessageEmbed, 0, end-start)
		for _, e := range embeds[start:end] {
			batch = append(batch, toEmbed(e))
		}
		if _, err := d.s.ChannelMessageSendEmbeds(channelID.String(), batch, discordgo.WithContext(ctx), noRetry); err != nil {
			return translate(err, "channel", channelID, "send message")
		}
	}
	return nil
}

func (d *Session) SetStatus(_ context.Context, text string) error {
	if text == "" {
		return d.s.UpdateStatusComplex(discordgo.UpdateStatusData{Status: string(discordgo.StatusOnline)})
	}
	return d.s.UpdateGameStatus(playingActivity, text)
}

func (d *Session) SetAvatar(ctx context.Context, image []byte) error {
	uri := "data:" + http.DetectContentType(image) + ";base64," + base64.StdEncoding.EncodeToString(image)
	_, err := d.s.UserUpdate("", uri, discordgo.WithContext(ctx), noRetry)
	return translate(err, "user", d.CurrentUser().ID, "change avatar")
}

func translate(err error, kind string, ref models.ID, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, discordgo.ErrStateNotFound) {
		return &platform.ResourceNotFoundError{Kind: kind, ID: ref, Err: err}
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		switch rest.Response.StatusCode {
		case http.StatusNotFound:
			return &platform.ResourceNotFoundError{Kind: kind, ID: ref, Err: err}
		case http.StatusForbidden:
			return &platform.PermissionDeniedError{Action: action, Err: err}
		}
	}
	return err
}
