package services

import (
	"context"
	"mafiabot/internal/models"
	"mafiabot/internal/platform"
	"mafiabot/internal/storage"
	"mafiabot/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCore(t *testing.T) (*Core, *testutil.MockPlatform, *storage.Stores) {
	t.Helper()
	conf := testConfig(t)
	stores := newTestStores(t, conf)
	p := newTestPlatform()
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	background := NewBackground(logger)

	posts, err := NewPostRegistry(conf, p, stores, logger, metrics)
	require.NoError(t, err)
	posts.now = func() time.Time { return postsNow }

	core := NewCore(p, stores,
		NewPurgeEngine(conf, p, stores, background, logger, metrics),
		posts,
		NewAvatarService(conf, p, logger, metrics),
		logger)
	return core, p, stores
}

func TestCore_ToggleImageOnly(t *testing.T) {
	core, _, stores := newTestCore(t)
	ctx := context.Background()

	added, err := core.ToggleImageOnly(ctx, 5)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = core.ToggleImageOnly(ctx, 5)
	require.NoError(t, err)
	assert.False(t, added)

	members, err := stores.ImagesOnly.Members()
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestCore_SetAndStopArchive(t *testing.T) {
	core, p, _ := newTestCore(t)
	ctx := context.Background()
	p.AddTextChannel(archiveChannel, guildID, "archive")

	require.NoError(t, core.SetArchive(ctx, sourceChannel, archiveChannel))
	all, err := core.Archives(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[models.ID]models.ID{sourceChannel: archiveChannel}, all)

	require.NoError(t, core.StopArchive(ctx, sourceChannel))
	all, err = core.Archives(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCore_SetArchiveRejectsUnknownTarget(t *testing.T) {
	core, p, _ := newTestCore(t)
	p.AddChannel(&models.Channel{ID: 88, Kind: models.ChannelKindDM})

	assert.True(t, platform.IsNotFound(core.SetArchive(context.Background(), sourceChannel, archiveChannel)))
	assert.True(t, platform.IsNotFound(core.SetArchive(context.Background(), sourceChannel, 88)))
}

func TestCore_PostsAndStatus(t *testing.T) {
	core, _, _ := newTestCore(t)
	ctx := context.Background()

	require.NoError(t, core.SavePost(ctx, models.Post{Name: "A", DisplayText: "{N} day{S} left", EndDate: postsToday().AddDays(1)}))
	require.NoError(t, core.SavePost(ctx, models.Post{Name: "B", DisplayText: "Static", EndDate: postsToday().AddDays(4)}))

	assert.Len(t, core.ListPosts(), 2)
	assert.Equal(t, "1 day left | Static", core.Status())

	deleted, err := core.DeletePost(ctx, "A")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, "Static", core.Status())
}

func TestCore_TriggerPurgeNowWithoutTargets(t *testing.T) {
	core, _, _ := newTestCore(t)

	report, err := core.TriggerPurgeNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Channels)
	assert.Empty(t, report.Failures)
}
