package discord

import (
	"mafiabot/internal/models"
	"time"

	"github.com/bwmarrin/discordgo"
)

func id(s string) models.ID {
	v, _ := models.ParseID(s)
	return v
}

func toUser(u *discordgo.User) models.User {
	if u == nil {
		return models.User{}
	}
	return models.User{
		ID:        id(u.ID),
		Username:  u.Username,
		AvatarURL: u.AvatarURL(""),
		Bot:       u.Bot,
	}
}

func toMessage(m *discordgo.Message) *models.Message {
	msg := &models.Message{
		ID:         id(m.ID),
		ChannelID:  id(m.ChannelID),
		GuildID:    id(m.GuildID),
		Author:     toUser(m.Author),
		Content:    m.Content,
		Timestamp:  m.Timestamp,
		EmbedCount: len(m.Embeds),
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = msg.ID.CreatedAt()
	}
	for _, a := range m.Attachments {
		msg.Attachments = append(msg.Attachments, models.Attachment{
			ID:          id(a.ID),
			URL:         a.URL,
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Width:       a.Width,
			Height:      a.Height,
		})
	}
	return msg
}

func toChannel(c *discordgo.Channel) *models.Channel {
	ch := &models.Channel{
		ID:      id(c.ID),
		GuildID: id(c.GuildID),
		Name:    c.Name,
		Kind:    models.ChannelKindOther,
	}
	switch c.Type {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		ch.Kind = models.ChannelKindText
	case discordgo.ChannelTypeDM, discordgo.ChannelTypeGroupDM:
		ch.Kind = models.ChannelKindDM
	}
	return ch
}

func toRole(r *discordgo.Role) models.Role {
	return models.Role{
		ID:       id(r.ID),
		Name:     r.Name,
		Position: r.Position,
		Color:    r.Color,
	}
}

func toEmbed(e *models.Embed) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Description: e.Description,
		Color:       e.Color,
	}
	if e.AuthorName != "" {
		embed.Author = &discordgo.MessageEmbedAuthor{
			Name:    e.AuthorName,
			URL:     e.AuthorURL,
			IconURL: e.AuthorIconURL,
		}
	}
	if !e.Timestamp.IsZero() {
		embed.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
	}
	if e.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: e.ImageURL}
	}
	if e.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	return embed
}
