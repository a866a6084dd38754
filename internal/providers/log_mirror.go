package providers

import (
	"mafiabot/internal/structures"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultMirrorBuffer = 256

type MirrorEntry struct {
	Level   zerolog.Level
	Message string
	Time    time.Time
}

// LogMirror is a zerolog hook buffering log lines destined for the log
// channels. The buffer is bounded; overflowing entries are counted and dropped.
type LogMirror struct {
	mu      sync.Mutex
	enabled bool
	level   zerolog.Level
	max     int
	entries []MirrorEntry
	dropped int
	now     func() time.Time
}

func NewLogMirror(conf *structures.Config) *LogMirror {
	level, err := zerolog.ParseLevel(conf.LogMirror.Level)
	if err != nil || conf.LogMirror.Level == "" {
		level = zerolog.InfoLevel
	}
	max := conf.LogMirror.BufferSize
	if max <= 0 {
		max = defaultMirrorBuffer
	}
	return &LogMirror{
		enabled: conf.LogMirror.Enabled && !conf.Development,
		level:   level,
		max:     max,
		now:     time.Now,
	}
}

func (m *LogMirror) Enabled() bool {
	return m.enabled
}

func (m *LogMirror) Run(_ *zerolog.Event, level zerolog.Level, msg string) {
	if level < m.level || level == zerolog.NoLevel || msg == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) >= m.max {
		m.dropped++
		return
	}
	m.entries = append(m.entries, MirrorEntry{Level: level, Message: msg, Time: m.now()})
}

// Drain hands over the buffered entries and the number of dropped ones.
func (m *LogMirror) Drain() ([]MirrorEntry, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, dropped := m.entries, m.dropped
	m.entries = nil
	m.dropped = 0
	return entries, dropped
}
