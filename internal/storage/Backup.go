package storage

import (
	"errors"
	"fmt"
	json "github.com/goccy/go-json"
	"mafiabot/internal/providers"
	"mafiabot/internal/structures"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	backupPrefix = "state-"
	backupSuffix = ".json.zst"
	backupLayout = "20060102T150405Z"
)

// Backup writes zstd-compressed bundles of every store file.
type Backup struct {
	dir        string
	keep       int
	stores     *Stores
	compressor CompressorInterface
	logger     providers.Logger
	now        func() time.Time
}

func NewBackup(conf *structures.Config, stores *Stores, compressor CompressorInterface, logger providers.Logger) *Backup {
	return &Backup{
		dir:        conf.Stores.BackupDir,
		keep:       conf.Stores.BackupKeep,
		stores:     stores,
		compressor: compressor,
		logger:     logger,
		now:        time.Now,
	}
}

func (b *Backup) Enabled() bool {
	return b.dir != ""
}

// Snapshot bundles the current store files and returns the written path.
// Missing or unparsable store files are skipped and logged.
func (b *Backup) Snapshot() (string, error) {
	if !b.Enabled() {
		return "", errors.New("backup directory is not configured")
	}

	bundle := make(map[string]json.RawMessage)
	for _, path := range b.stores.Paths() {
		data, err := os.ReadFile(path)
		if err != nil {
			b.logger.Warnf(providers.TypeStore, "Backup skips %s: %s", path, err)
			continue
		}
		if !json.Valid(data) {
			b.logger.Warnf(providers.TypeStore, "Backup skips %s: %s", path, &StorageCorruptError{Path: path, Err: errors.New("invalid json")})
			continue
		}
		bundle[filepath.Base(path)] = data
	}

	raw, err := json.Marshal(bundle)
	if err != nil {
		return "", err
	}
	data, err := b.compressor.Compress(raw)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return "", err
	}
	target := filepath.Join(b.dir, backupPrefix+b.now().UTC().Format(backupLayout)+backupSuffix)
	if err := writeFileAtomic(target, data); err != nil {
		return "", err
	}

	if err := b.prune(); err != nil {
		b.logger.Warnf(providers.TypeStore, "Unable to prune old backups: %s", err)
	}
	return target, nil
}

// prune keeps the newest b.keep bundles.
func (b *Backup) prune() error {
	if b.keep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), backupPrefix) && strings.HasSuffix(e.Name(), backupSuffix) {
			names = append(names, e.Name())
		}
	}
	if len(names) <= b.keep {
		return nil
	}
	sort.Strings(names)
	for _, name := range names[:len(names)-b.keep] {
		if err := os.Remove(filepath.Join(b.dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// ReadSnapshot decodes a bundle written by Snapshot.
func ReadSnapshot(path string, compressor CompressorInterface) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := compressor.Decompress(data)
	if err != nil {
		return nil, &StorageCorruptError{Path: path, Err: err}
	}
	var bundle map[string]json.RawMessage
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return nil, &StorageCorruptError{Path: path, Err: fmt.Errorf("decode bundle: %w", err)}
	}
	return bundle, nil
}
