package storage

import (
	"mafiabot/internal/models"
	"mafiabot/internal/providers"
	"slices"
)

// ToggleSet is a persistent set of channel ids used for boolean channel flags.
type ToggleSet struct {
	file *JSONFile[[]models.ID]
}

func NewToggleSet(path string, metrics providers.MetricsProviderInterface) *ToggleSet {
	return &ToggleSet{file: NewJSONFile[[]models.ID](path, metrics)}
}

// Toggle removes id when present, adds it otherwise, and reports whether id
// is a member after the call.
func (s *ToggleSet) Toggle(id models.ID) (bool, error) {
	var added bool
	err := s.file.Update(func(ids []models.ID) ([]models.ID, error) {
		if i := slices.Index(ids, id); i >= 0 {
			added = false
			return slices.Delete(ids, i, i+1), nil
		}
		added = true
		return append(ids, id), nil
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

func (s *ToggleSet) Contains(id models.ID) (bool, error) {
	ids, err := s.file.Load()
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, id), nil
}

func (s *ToggleSet) Members() ([]models.ID, error) {
	ids, err := s.file.Load()
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []models.ID{}
	}
	return ids, nil
}

func (s *ToggleSet) EnsureExists() (bool, error) {
	return s.file.EnsureExists([]models.ID{})
}

func (s *ToggleSet) Path() string {
	return s.file.Path()
}
