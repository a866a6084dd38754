package storage

import (
	"mafiabot/internal/models"
	"mafiabot/internal/providers"
)

// ChannelList is a read-only list of channel ids maintained by editing the
// file by hand. It is read fresh on every use.
type ChannelList struct {
	file *JSONFile[[]models.ID]
}

func NewChannelList(path string, metrics providers.MetricsProviderInterface) *ChannelList {
	return &ChannelList{file: NewJSONFile[[]models.ID](path, metrics)}
}

func (c *ChannelList) IDs() ([]models.ID, error) {
	ids, err := c.file.Load()
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *ChannelList) EnsureExists() (bool, error) {
	return c.file.EnsureExists([]models.ID{})
}

func (c *ChannelList) Path() string {
	return c.file.Path()
}
