package services

import (
	"mafiabot/internal/models"
	"mafiabot/internal/storage"
	"mafiabot/internal/structures"
	"mafiabot/internal/testutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	guildID models.ID = 500
	botID   models.ID = 900
)

func testConfig(t *testing.T) *structures.Config {
	t.Helper()
	dir := t.TempDir()
	return &structures.Config{
		Stores: structures.StoresConfig{
			ImagesOnlyPath:       filepath.Join(dir, "imageonly.json"),
			ArchivalChannelsPath: filepath.Join(dir, "archivalchannels.json"),
			PurgeChannelsPath:    filepath.Join(dir, "purgechannels.json"),
			LogChannelsPath:      filepath.Join(dir, "logchannels.json"),
			PostsPath:            filepath.Join(dir, "posts.json"),
		},
		Bouncer: structures.BouncerConfig{
			GracePeriod:     3 * time.Second,
			CommandPrefixes: []string{"!"},
		},
		Purge: structures.PurgeConfig{
			Window:      14 * 24 * time.Hour,
			PageSize:    100,
			AuditReason: "Scheduled channel purge.",
		},
		Avatar: structures.AvatarConfig{
			DefaultPath: filepath.Join(dir, "Avatar.png"),
			Cooldown:    10 * time.Minute,
		},
		Status: structures.StatusConfig{
			MaxLength:   128,
			Delimiter:   " | ",
			DefaultText: "Powered by Go!",
		},
	}
}

func newTestStores(t *testing.T, conf *structures.Config) *storage.Stores {
	t.Helper()
	stores, err := storage.NewStores(conf, testutil.NewMockMetrics(), &testutil.MockLogger{})
	require.NoError(t, err)
	return stores
}

func newTestPlatform() *testutil.MockPlatform {
	return testutil.NewMockPlatform(models.User{ID: botID, Username: "Mafiabot", Bot: true})
}

// snowflake builds a message id created at ts.
func snowflake(ts time.Time, seq uint64) models.ID {
	ms := uint64(ts.UnixMilli() - 1420070400000)
	return models.ID(ms<<22 | seq)
}
