package models

import (
	"fmt"
	"time"
)

const cdnURL = "https://cdn.discordapp.com"

type ChannelKind int

const (
	ChannelKindOther ChannelKind = iota
	ChannelKindText
	ChannelKindDM
)

type Channel struct {
	ID      ID
	GuildID ID
	Name    string
	Kind    ChannelKind
}

func (c *Channel) IsText() bool {
	return c != nil && c.Kind == ChannelKindText
}

type User struct {
	ID        ID
	Username  string
	AvatarURL string
	Bot       bool
}

// Avatar returns the user's avatar, falling back to the platform default one.
func (u User) Avatar() string {
	if u.AvatarURL != "" {
		return u.AvatarURL
	}
	return DefaultAvatarURL(u.ID)
}

func DefaultAvatarURL(userID ID) string {
	index := (uint64(userID) >> 22) % 6
	return fmt.Sprintf("%s/embed/avatars/%d.png", cdnURL, index)
}

type Role struct {
	ID       ID
	Name     string
	Position int
	Color    int
}

type Member struct {
	User      User
	Nickname  string
	AvatarURL string
	Roles     []Role
}

// DisplayName renders "Nickname (Username)" when a nickname is set.
func (m *Member) DisplayName() string {
	if m.Nickname != "" {
		return fmt.Sprintf("%s (%s)", m.Nickname, m.User.Username)
	}
	return m.User.Username
}

func (m *Member) Avatar() string {
	if m.AvatarURL != "" {
		return m.AvatarURL
	}
	return m.User.Avatar()
}

// HighestRoleColor picks the color of the highest positioned role, 0 when
// the member has no roles. Equal positions resolve to the later role.
func (m *Member) HighestRoleColor() int {
	color := 0
	highest := -1
	for _, r := range m.Roles {
		if r.Position >= highest {
			highest = r.Position
			color = r.Color
		}
	}
	return color
}

type Attachment struct {
	ID          ID
	URL         string
	Filename    string
	ContentType string
	Width       int
	Height      int
}

// IsImage reports whether the platform measured the attachment as an image.
func (a Attachment) IsImage() bool {
	return a.Width > 0
}

type Message struct {
	ID          ID
	ChannelID   ID
	GuildID     ID
	Author      User
	Content     string
	Timestamp   time.Time
	Attachments []Attachment
	EmbedCount  int
}

func (m *Message) HasMedia() bool {
	return len(m.Attachments) > 0 || m.EmbedCount > 0
}

// FirstImage returns the first image attachment, if any.
func (m *Message) FirstImage() (Attachment, bool) {
	for _, a := range m.Attachments {
		if a.IsImage() {
			return a, true
		}
	}
	return Attachment{}, false
}

func (m *Message) JumpURL() string {
	guild := "@me"
	if m.GuildID != 0 {
		guild = m.GuildID.String()
	}
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guild, m.ChannelID, m.ID)
}
