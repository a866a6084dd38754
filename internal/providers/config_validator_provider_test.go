package providers

import (
	"mafiabot/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		Discord: structures.DiscordConfig{Token: "token"},
		Stores: structures.StoresConfig{
			ImagesOnlyPath:       "imagesOnly.json",
			ArchivalChannelsPath: "archivalChannels.json",
			PurgeChannelsPath:    "purgeChannels.json",
			LogChannelsPath:      "logChannels.json",
			PostsPath:            "posts.json",
		},
		Bouncer: structures.BouncerConfig{GracePeriod: 3 * time.Second},
		Purge:   structures.PurgeConfig{Window: 14 * 24 * time.Hour, PageSize: 100},
		Avatar:  structures.AvatarConfig{DefaultPath: "Avatar.png", Cooldown: 10 * time.Minute},
		Status:  structures.StatusConfig{MaxLength: 128, Delimiter: " | "},
		Jobs: structures.JobsConfig{
			AvatarReset: "0 0 * * *",
			PostSweep:   "0 0 * * *",
			Timeout:     10 * time.Minute,
		},
		WebServer: structures.Server{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		LogMirror: structures.LogMirrorConfig{Level: "info"},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *structures.Config)
	}{
		{"empty token", func(c *structures.Config) { c.Discord.Token = "" }},
		{"empty host", func(c *structures.Config) { c.WebServer.Host = "" }},
		{"zero port", func(c *structures.Config) { c.WebServer.Port = 0 }},
		{"empty log level", func(c *structures.Config) { c.Logger.Level = "" }},
		{"invalid log level", func(c *structures.Config) { c.Logger.Level = "verbose" }},
		{"invalid mirror level", func(c *structures.Config) { c.LogMirror.Level = "verbose" }},
		{"page size over limit", func(c *structures.Config) { c.Purge.PageSize = 101 }},
		{"zero window", func(c *structures.Config) { c.Purge.Window = 0 }},
		{"window past bulk delete limit", func(c *structures.Config) { c.Purge.Window = 30 * 24 * time.Hour }},
		{"empty posts path", func(c *structures.Config) { c.Stores.PostsPath = "" }},
		{"zero cooldown", func(c *structures.Config) { c.Avatar.Cooldown = 0 }},
		{"bad cron spec", func(c *structures.Config) { c.Jobs.ChannelPurge = "every day" }},
		{"six field cron spec", func(c *structures.Config) { c.Jobs.StatusReset = "0 0 0 * * *" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, NewCnfValidator(c).Validate())
		})
	}
}

func TestConfigValidator_EmptyCronSpecDisablesJob(t *testing.T) {
	c := validConfig()
	c.Jobs.AvatarReset = ""
	c.Jobs.StateBackup = ""
	assert.NoError(t, NewCnfValidator(c).Validate())
}
