package storage

import (
	"fmt"
	"mafiabot/internal/models"
	"mafiabot/internal/providers"
	"mafiabot/internal/structures"
)

type PostsFile = JSONFile[map[string]models.Post]

// Stores groups every persistent store of the bot.
type Stores struct {
	ImagesOnly   *ToggleSet
	Archives     *ArchivalMap
	PurgeTargets *ChannelList
	LogChannels  *ChannelList
	Posts        *PostsFile
}

// NewStores opens all stores and pre-creates missing files with empty defaults.
func NewStores(conf *structures.Config, metrics providers.MetricsProviderInterface, logger providers.Logger) (*Stores, error) {
	s := &Stores{
		ImagesOnly:   NewToggleSet(conf.Stores.ImagesOnlyPath, metrics),
		Archives:     NewArchivalMap(conf.Stores.ArchivalChannelsPath, metrics),
		PurgeTargets: NewChannelList(conf.Stores.PurgeChannelsPath, metrics),
		LogChannels:  NewChannelList(conf.Stores.LogChannelsPath, metrics),
		Posts:        NewJSONFile[map[string]models.Post](conf.Stores.PostsPath, metrics),
	}

	ensure := []struct {
		path string
		fn   func() (bool, error)
	}{
		{s.ImagesOnly.Path(), s.ImagesOnly.EnsureExists},
		{s.Archives.Path(), s.Archives.EnsureExists},
		{s.PurgeTargets.Path(), s.PurgeTargets.EnsureExists},
		{s.LogChannels.Path(), s.LogChannels.EnsureExists},
		{s.Posts.Path(), func() (bool, error) { return s.Posts.EnsureExists(map[string]models.Post{}) }},
	}
	for _, e := range ensure {
		created, err := e.fn()
		if err != nil {
			return nil, fmt.Errorf("unable to create store %s: %w", e.path, err)
		}
		if created {
			logger.Infof(providers.TypeStore, "Created empty store %s", e.path)
		}
	}
	return s, nil
}

// Paths lists every store file.
func (s *Stores) Paths() []string {
	return []string{
		s.ImagesOnly.Path(),
		s.Archives.Path(),
		s.PurgeTargets.Path(),
		s.LogChannels.Path(),
		s.Posts.Path(),
	}
}
