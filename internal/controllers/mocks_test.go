package controllers

import (
	"context"
	"mafiabot/internal/models"
	"mafiabot/internal/services"
	"sync"
)

type mockCore struct {
	mu sync.Mutex

	imagesOnly map[models.ID]bool
	archives   map[models.ID]models.ID
	posts      []models.Post
	status     string
	avatars    [][]byte
	resets     int
	purges     int

	report services.PurgeReport
	err    error
}

func newMockCore() *mockCore {
	return &mockCore{
		imagesOnly: make(map[models.ID]bool),
		archives:   make(map[models.ID]models.ID),
	}
}

func (m *mockCore) ToggleImageOnly(_ context.Context, channelID models.ID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	m.imagesOnly[channelID] = !m.imagesOnly[channelID]
	return m.imagesOnly[channelID], nil
}

func (m *mockCore) SetArchive(_ context.Context, sourceID, targetID models.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.archives[sourceID] = targetID
	return nil
}

func (m *mockCore) StopArchive(_ context.Context, sourceID models.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.archives, sourceID)
	return nil
}

func (m *mockCore) Archives(context.Context) (map[models.ID]models.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[models.ID]models.ID, len(m.archives))
	for k, v := range m.archives {
		out[k] = v
	}
	return out, m.err
}

func (m *mockCore) TriggerPurgeNow(context.Context) (services.PurgeReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purges++
	return m.report, m.err
}

func (m *mockCore) SavePost(_ context.Context, post models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.posts = append(m.posts, post)
	return nil
}

func (m *mockCore) DeletePost(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.posts {
		if p.Name == name {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return true, nil
		}
	}
	return false, m.err
}

func (m *mockCore) ListPosts() []models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Post(nil), m.posts...)
}

func (m *mockCore) Status() string {
	return m.status
}

func (m *mockCore) ChangeAvatar(_ context.Context, image []byte) error {
	if len(image) == 0 {
		return services.ErrEmptyAvatar
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.avatars = append(m.avatars, image)
	return nil
}

func (m *mockCore) ResetAvatar(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.resets++
	return nil
}

type mockJobs struct {
	ran []string
	err error
}

func (m *mockJobs) RunNow(_ context.Context, name string) error {
	if m.err != nil {
		return m.err
	}
	m.ran = append(m.ran, name)
	return nil
}
