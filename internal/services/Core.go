package services

import (
	"context"
	"fmt"
	"mafiabot/internal/models"
	"mafiabot/internal/platform"
	"mafiabot/internal/providers"
	"mafiabot/internal/storage"
)

// CoreInterface is what the command layer may invoke. Arguments arrive
// already parsed.
type CoreInterface interface {
	ToggleImageOnly(ctx context.Context, channelID models.ID) (bool, error)
	SetArchive(ctx context.Context, sourceID, targetID models.ID) error
	StopArchive(ctx context.Context, sourceID models.ID) error
	Archives(ctx context.Context) (map[models.ID]models.ID, error)
	TriggerPurgeNow(ctx context.Context) (PurgeReport, error)
	SavePost(ctx context.Context, post models.Post) error
	DeletePost(ctx context.Context, name string) (bool, error)
	ListPosts() []models.Post
	Status() string
	ChangeAvatar(ctx context.Context, image []byte) error
	ResetAvatar(ctx context.Context) error
}

type Core struct {
	platform platform.Platform
	stores   *storage.Stores
	purge    *PurgeEngine
	posts    *PostRegistry
	avatar   *AvatarService
	logger   providers.Logger
}

func NewCore(p platform.Platform, stores *storage.Stores, purge *PurgeEngine, posts *PostRegistry, avatar *AvatarService, logger providers.Logger) *Core {
	return &Core{
		platform: p,
		stores:   stores,
		purge:    purge,
		posts:    posts,
		avatar:   avatar,
		logger:   logger,
	}
}

func (c *Core) ToggleImageOnly(_ context.Context, channelID models.ID) (bool, error) {
	added, err := c.stores.ImagesOnly.Toggle(channelID)
	if err != nil {
		return false, fmt.Errorf("toggle image-only for %s: %w", channelID, err)
	}
	if added {
		c.logger.Infof(providers.TypeBouncer, "Channel %s is now image-only", channelID)
	} else {
		c.logger.Infof(providers.TypeBouncer, "Channel %s is no longer image-only", channelID)
	}
	return added, nil
}

// SetArchive starts mirroring source into target, replacing any previous
// target. The target must be a text channel.
func (c *Core) SetArchive(ctx context.Context, sourceID, targetID models.ID) error {
	ch, err := c.platform.Channel(ctx, targetID)
	if err != nil {
		return err
	}
	if !ch.IsText() {
		return &platform.ResourceNotFoundError{Kind: "text channel", ID: targetID}
	}
	if err := c.stores.Archives.Set(sourceID, targetID); err != nil {
		return fmt.Errorf("set archive of %s: %w", sourceID, err)
	}
	c.logger.Infof(providers.TypeArchiver, "Channel %s is archived to #%s", sourceID, ch.Name)
	return nil
}

func (c *Core) StopArchive(_ context.Context, sourceID models.ID) error {
	if err := c.stores.Archives.Remove(sourceID); err != nil {
		return fmt.Errorf("stop archive of %s: %w", sourceID, err)
	}
	c.logger.Infof(providers.TypeArchiver, "Channel %s is no longer archived", sourceID)
	return nil
}

func (c *Core) Archives(_ context.Context) (map[models.ID]models.ID, error) {
	return c.stores.Archives.All()
}

func (c *Core) TriggerPurgeNow(ctx context.Context) (PurgeReport, error) {
	return c.purge.PurgeAll(ctx)
}

func (c *Core) SavePost(ctx context.Context, post models.Post) error {
	return c.posts.Save(ctx, post)
}

func (c *Core) DeletePost(ctx context.Context, name string) (bool, error) {
	return c.posts.Delete(ctx, name)
}

func (c *Core) ListPosts() []models.Post {
	return c.posts.Posts()
}

func (c *Core) Status() string {
	return c.posts.Compose(c.posts.now())
}

func (c *Core) ChangeAvatar(ctx context.Context, image []byte) error {
	return c.avatar.Change(ctx, image)
}

func (c *Core) ResetAvatar(ctx context.Context) error {
	return c.avatar.Reset(ctx)
}
