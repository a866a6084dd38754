package storage

import (
	"mafiabot/internal/models"
	"mafiabot/internal/providers"
)

// ArchivalMap maps a source channel to the channel its messages are mirrored to.
type ArchivalMap struct {
	file *JSONFile[map[models.ID]models.ID]
}

func NewArchivalMap(path string, metrics providers.MetricsProviderInterface) *ArchivalMap {
	return &ArchivalMap{file: NewJSONFile[map[models.ID]models.ID](path, metrics)}
}

func (a *ArchivalMap) Set(source, target models.ID) error {
	return a.file.Update(func(m map[models.ID]models.ID) (map[models.ID]models.ID, error) {
		if m == nil {
			m = make(map[models.ID]models.ID)
		}
		m[source] = target
		return m, nil
	})
}

func (a *ArchivalMap) Remove(source models.ID) error {
	return a.file.Update(func(m map[models.ID]models.ID) (map[models.ID]models.ID, error) {
		delete(m, source)
		if m == nil {
			m = make(map[models.ID]models.ID)
		}
		return m, nil
	})
}

func (a *ArchivalMap) Get(source models.ID) (models.ID, bool, error) {
	m, err := a.file.Load()
	if err != nil {
		return 0, false, err
	}
	target, ok := m[source]
	return target, ok, nil
}

func (a *ArchivalMap) All() (map[models.ID]models.ID, error) {
	m, err := a.file.Load()
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[models.ID]models.ID)
	}
	return m, nil
}

func (a *ArchivalMap) EnsureExists() (bool, error) {
	return a.file.EnsureExists(map[models.ID]models.ID{})
}

func (a *ArchivalMap) Path() string {
	return a.file.Path()
}
