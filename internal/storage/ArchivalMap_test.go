package storage

import (
	"mafiabot/internal/models"
	"mafiabot/internal/testutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArchivalMap(t *testing.T) *ArchivalMap {
	t.Helper()
	a := NewArchivalMap(filepath.Join(t.TempDir(), "archivalchannels.json"), testutil.NewMockMetrics())
	_, err := a.EnsureExists()
	require.NoError(t, err)
	return a
}

func TestArchivalMap_SetGetRemove(t *testing.T) {
	a := newArchivalMap(t)

	require.NoError(t, a.Set(1, 100))
	target, ok, err := a.Get(1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.ID(100), target)

	require.NoError(t, a.Set(1, 200))
	target, _, err = a.Get(1)
	require.NoError(t, err)
	assert.Equal(t, models.ID(200), target)

	require.NoError(t, a.Remove(1))
	_, ok, err = a.Get(1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArchivalMap_RemoveAbsentIsNoop(t *testing.T) {
	a := newArchivalMap(t)
	require.NoError(t, a.Set(5, 6))

	require.NoError(t, a.Remove(99))

	all, err := a.All()
	require.NoError(t, err)
	assert.Equal(t, map[models.ID]models.ID{5: 6}, all)
}

// The persisted map equals replaying the same operations on a plain map.
func TestArchivalMap_MatchesSequentialApplication(t *testing.T) {
	a := newArchivalMap(t)
	expected := make(map[models.ID]models.ID)

	ops := []struct {
		remove bool
		source models.ID
		target models.ID
	}{
		{false, 1, 10},
		{false, 2, 20},
		{false, 1, 11},
		{true, 2, 0},
		{false, 3, 30},
		{true, 4, 0},
		{false, 2, 21},
		{true, 1, 0},
	}
	for _, op := range ops {
		if op.remove {
			require.NoError(t, a.Remove(op.source))
			delete(expected, op.source)
		} else {
			require.NoError(t, a.Set(op.source, op.target))
			expected[op.source] = op.target
		}
	}

	all, err := a.All()
	require.NoError(t, err)
	assert.Equal(t, expected, all)
}

func TestArchivalMap_MissingFile(t *testing.T) {
	a := NewArchivalMap(filepath.Join(t.TempDir(), "none.json"), testutil.NewMockMetrics())

	_, _, err := a.Get(1)
	var missing *StorageMissingError
	assert.ErrorAs(t, err, &missing)
}
