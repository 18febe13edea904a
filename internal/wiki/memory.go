package wiki

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend keeps pages in process memory. Used for tests and local runs.
type MemoryBackend struct {
	mu    sync.RWMutex
	pages map[string]*Page
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{pages: make(map[string]*Page)}
}

func memKey(community, name string) string { return community + "\x00" + name }

func (m *MemoryBackend) GetPage(_ context.Context, community, name string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pages[memKey(community, name)]
	if !ok {
		return nil, ErrPageNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryBackend) CreatePage(_ context.Context, community, name, content, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memKey(community, name)
	if _, ok := m.pages[k]; ok {
		return ErrPageExists
	}
	now := time.Now().UTC()
	m.pages[k] = &Page{
		Community:  community,
		Name:       name,
		Content:    content,
		Listed:     true,
		Permission: PermissionDefault,
		Reason:     reason,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return nil
}

func (m *MemoryBackend) UpdatePageSettings(_ context.Context, community, name string, listed bool, perm Permission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pages[memKey(community, name)]
	if !ok {
		return ErrPageNotFound
	}
	p.Listed = listed
	p.Permission = perm
	return nil
}

func (m *MemoryBackend) UpdatePage(_ context.Context, community, name, content, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pages[memKey(community, name)]
	if !ok {
		return ErrPageNotFound
	}
	p.Content = content
	p.Reason = reason
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Put stores raw content directly, bypassing create semantics. Test and seeding helper.
func (m *MemoryBackend) Put(community, name, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	m.pages[memKey(community, name)] = &Page{
		Community:  community,
		Name:       name,
		Content:    content,
		Permission: PermissionModsOnly,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
