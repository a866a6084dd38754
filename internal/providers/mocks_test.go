package providers

import (
	"fmt"
	"sync"
	"time"
)

// local mocks, testutil imports this package

type testLogger struct {
	mu    sync.Mutex
	lines []string
}

func (m *testLogger) add(level, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, level+": "+fmt.Sprintf(format, args...))
}

func (m *testLogger) Errorf(_ TypeEnum, format string, args ...interface{}) {
	m.add("error", format, args...)
}
func (m *testLogger) Warnf(_ TypeEnum, format string, args ...interface{}) {
	m.add("warn", format, args...)
}
func (m *testLogger) Debugf(_ TypeEnum, format string, args ...interface{}) {
	m.add("debug", format, args...)
}
func (m *testLogger) Infof(_ TypeEnum, format string, args ...interface{}) {
	m.add("info", format, args...)
}
func (m *testLogger) Fatalf(_ TypeEnum, format string, args ...interface{}) {
	m.add("fatal", format, args...)
}
func (m *testLogger) Close() {}

type testMetrics struct {
	mu              sync.Mutex
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
	hits            int
	misses          int
}

func (m *testMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *testMetrics) ObserveRequestDuration(_ string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durationCalls++
}
func (m *testMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits++
}
func (m *testMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses++
}
func (m *testMetrics) ObserveStoreWrite(_ string, _ time.Duration) {}
func (m *testMetrics) IncMessagesEvaluated(_ string)               {}
func (m *testMetrics) IncMessagesArchived(_ string)                {}
func (m *testMetrics) AddMessagesPurged(_ string, _ int)           {}
func (m *testMetrics) IncJobRuns(_ string, _ string)               {}
func (m *testMetrics) IncAvatarChanges(_ string)                   {}
func (m *testMetrics) SetPostsTotal(_ int)                         {}
