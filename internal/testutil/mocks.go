package testutil

import (
	"context"
	"mafiabot/internal/models"
	"mafiabot/internal/platform"
	"mafiabot/internal/providers"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// Contains reports whether any entry at level has a format containing substr.
func (m *MockLogger) Contains(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.Logs {
		if l.Level == level && strings.Contains(l.Format, substr) {
			return true
		}
	}
	return false
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu        sync.Mutex
	Requests  map[string]int
	CacheHit  int
	CacheMiss int
	Writes    map[string]int
	Verdicts  map[string]int
	Archived  map[string]int
	Purged    map[string]int
	JobRuns   map[string]int
	Avatars   map[string]int
	Posts     int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Requests: make(map[string]int),
		Writes:   make(map[string]int),
		Verdicts: make(map[string]int),
		Archived: make(map[string]int),
		Purged:   make(map[string]int),
		JobRuns:  make(map[string]int),
		Avatars:  make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[endpoint]++
}
func (m *MockMetrics) ObserveRequestDuration(string, time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHit++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMiss++
}
func (m *MockMetrics) ObserveStoreWrite(store string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes[store]++
}
func (m *MockMetrics) IncMessagesEvaluated(verdict string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Verdicts[verdict]++
}
func (m *MockMetrics) IncMessagesArchived(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Archived[result]++
}
func (m *MockMetrics) AddMessagesPurged(channel string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Purged[channel] += count
}
func (m *MockMetrics) IncJobRuns(job string, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JobRuns[job+":"+result]++
}
func (m *MockMetrics) IncAvatarChanges(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Avatars[result]++
}
func (m *MockMetrics) SetPostsTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Posts = count
}

// Snapshot returns a copy of the counter map selected by pick.
func (m *MockMetrics) Snapshot(pick func(*MockMetrics) map[string]int) map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int)
	for k, v := range pick(m) {
		out[k] = v
	}
	return out
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Mark(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Data[key]; ok {
		return true
	}
	m.Data[key] = []byte{1}
	return false
}

// MockCompressor implements storage.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}

type DeleteCall struct {
	ChannelID models.ID
	MessageID models.ID
	Reason    string
}

type BulkDeleteCall struct {
	ChannelID  models.ID
	MessageIDs []models.ID
	Reason     string
}

type SendCall struct {
	ChannelID models.ID
	Embeds    []*models.Embed
}

// MockPlatform implements platform.Platform over in-memory channels.
// Deleted messages disappear from later history pages.
type MockPlatform struct {
	mu sync.Mutex

	Self     models.User
	Channels map[models.ID]*models.Channel
	History  map[models.ID][]*models.Message
	Members  map[models.ID]*models.Member

	// Errors returned by the corresponding operation when set.
	ChannelErr error
	MessageErr error
	HistoryErr error
	MemberErr  error
	DeleteErr  error
	BulkErr    error
	SendErr    error
	StatusErr  error
	AvatarErr  error

	// MessageFn overrides Message lookups.
	MessageFn func(channelID, messageID models.ID) (*models.Message, error)

	Deleted      []DeleteCall
	BulkDeleted  []BulkDeleteCall
	Sent         []SendCall
	Statuses     []string
	Avatars      [][]byte
	MessageCalls int
	HistoryCalls int
}

func NewMockPlatform(self models.User) *MockPlatform {
	return &MockPlatform{
		Self:     self,
		Channels: make(map[models.ID]*models.Channel),
		History:  make(map[models.ID][]*models.Message),
		Members:  make(map[models.ID]*models.Member),
	}
}

// AddTextChannel registers a guild text channel.
func (m *MockPlatform) AddTextChannel(id, guildID models.ID, name string) *models.Channel {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := &models.Channel{ID: id, GuildID: guildID, Name: name, Kind: models.ChannelKindText}
	m.Channels[id] = ch
	return ch
}

func (m *MockPlatform) AddChannel(ch *models.Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Channels[ch.ID] = ch
}

func (m *MockPlatform) AddMessage(msg *models.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.History[msg.ChannelID] = append(m.History[msg.ChannelID], msg)
}

func (m *MockPlatform) AddMember(member *models.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Members[member.User.ID] = member
}

// Remaining returns the ids still present in a channel.
func (m *MockPlatform) Remaining(channelID models.ID) []models.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]models.ID, 0, len(m.History[channelID]))
	for _, msg := range m.History[channelID] {
		ids = append(ids, msg.ID)
	}
	return ids
}

func (m *MockPlatform) SentTo(channelID models.ID) []*models.Embed {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Embed
	for _, s := range m.Sent {
		if s.ChannelID == channelID {
			out = append(out, s.Embeds...)
		}
	}
	return out
}

func (m *MockPlatform) DeleteCalls() []DeleteCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]DeleteCall(nil), m.Deleted...)
}

func (m *MockPlatform) BulkDeleteCalls() []BulkDeleteCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]BulkDeleteCall(nil), m.BulkDeleted...)
}

func (m *MockPlatform) StatusCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Statuses...)
}

func (m *MockPlatform) AvatarCalls() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.Avatars...)
}

func (m *MockPlatform) CurrentUser() models.User {
	return m.Self
}

func (m *MockPlatform) Channel(_ context.Context, id models.ID) (*models.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ChannelErr != nil {
		return nil, m.ChannelErr
	}
	ch, ok := m.Channels[id]
	if !ok {
		return nil, platform.NotFound("channel", id)
	}
	cp := *ch
	return &cp, nil
}

func (m *MockPlatform) Message(_ context.Context, channelID, messageID models.ID) (*models.Message, error) {
	m.mu.Lock()
	m.MessageCalls++
	fn := m.MessageFn
	m.mu.Unlock()
	if fn != nil {
		return fn(channelID, messageID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MessageErr != nil {
		return nil, m.MessageErr
	}
	for _, msg := range m.History[channelID] {
		if msg.ID == messageID {
			cp := *msg
			return &cp, nil
		}
	}
	return nil, platform.NotFound("message", messageID)
}

func (m *MockPlatform) Messages(_ context.Context, channelID, before models.ID, limit int) ([]*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HistoryCalls++
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	if _, ok := m.Channels[channelID]; !ok {
		return nil, platform.NotFound("channel", channelID)
	}
	all := append([]*models.Message(nil), m.History[channelID]...)
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	var page []*models.Message
	for _, msg := range all {
		if before != 0 && msg.ID >= before {
			continue
		}
		page = append(page, msg)
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

func (m *MockPlatform) Member(_ context.Context, _, userID models.ID) (*models.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MemberErr != nil {
		return nil, m.MemberErr
	}
	member, ok := m.Members[userID]
	if !ok {
		return nil, platform.NotFound("member", userID)
	}
	return member, nil
}

func (m *MockPlatform) DeleteMessage(_ context.Context, channelID, messageID models.ID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, DeleteCall{ChannelID: channelID, MessageID: messageID, Reason: reason})
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.remove(channelID, messageID)
	return nil
}

func (m *MockPlatform) BulkDelete(_ context.Context, channelID models.ID, ids []models.ID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BulkDeleted = append(m.BulkDeleted, BulkDeleteCall{
		ChannelID:  channelID,
		MessageIDs: append([]models.ID(nil), ids...),
		Reason:     reason,
	})
	if m.BulkErr != nil {
		return m.BulkErr
	}
	for _, id := range ids {
		m.remove(channelID, id)
	}
	return nil
}

func (m *MockPlatform) remove(channelID, messageID models.ID) {
	msgs := m.History[channelID]
	for i, msg := range msgs {
		if msg.ID == messageID {
			m.History[channelID] = append(msgs[:i:i], msgs[i+1:]...)
			return
		}
	}
}

func (m *MockPlatform) SendEmbeds(_ context.Context, channelID models.ID, embeds ...*models.Embed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.Sent = append(m.Sent, SendCall{ChannelID: channelID, Embeds: embeds})
	return nil
}

func (m *MockPlatform) SetStatus(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StatusErr != nil {
		return m.StatusErr
	}
	m.Statuses = append(m.Statuses, text)
	return nil
}

func (m *MockPlatform) SetAvatar(_ context.Context, image []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AvatarErr != nil {
		return m.AvatarErr
	}
	m.Avatars = append(m.Avatars, append([]byte(nil), image...))
	return nil
}

var _ platform.Platform = (*MockPlatform)(nil)
