package storage

import (
	"sync"

	"dineout-frontend/internal/model"
)

type MemoryStorage struct {
	pages map[string]*model.Page
	mu    sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		pages: make(map[string]*model.Page),
	}
}

func (m *MemoryStorage) Init() error {
	return nil
}

func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pages = make(map[string]*model.Page)
	return nil
}

func (m *MemoryStorage) CreatePage(page *model.Page) error {
	if page == nil || page.ID() == "" {
		return ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := page.ID()
	if _, exists := m.pages[id]; exists {
		return ErrPageExists
	}
	m.pages[id] = page
	return nil
}

func (m *MemoryStorage) GetPage(pageID string) (*model.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	page, exists := m.pages[pageID]
	if !exists {
		return nil, ErrPageNotFound
	}

	return page, nil
}

func (m *MemoryStorage) DeletePage(pageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pages[pageID]; !exists {
		return ErrPageNotFound
	}

	delete(m.pages, pageID)
	return nil
}

func (m *MemoryStorage) ListPages() ([]*model.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pages := make([]*model.Page, 0, len(m.pages))
	for _, page := range m.pages {
		pages = append(pages, page)
	}

	return pages, nil
}
