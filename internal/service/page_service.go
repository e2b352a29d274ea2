package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dineout-frontend/internal/client"
	"dineout-frontend/internal/config"
	"dineout-frontend/internal/metrics"
	"dineout-frontend/internal/model"
	"dineout-frontend/internal/storage"
	"dineout-frontend/pkg/logger"

	"github.com/google/uuid"
)

// PageService owns the lifetime of open form pages and fans result updates
// out to live subscribers.
type PageService struct {
	storage storage.Storage
	backend client.Backend
	config  config.PageConfig

	subMu       sync.Mutex
	subscribers map[string]map[chan model.ResultsArea]struct{}

	stop     chan struct{}
	stopOnce sync.Once
}

func NewPageService(cfg *config.Config, backend client.Backend) *PageService {
	return NewPageServiceWithStorage(cfg.Page, backend, storage.NewMemoryStorage())
}

func NewPageServiceWithStorage(pageCfg config.PageConfig, backend client.Backend, store storage.Storage) *PageService {
	if err := store.Init(); err != nil {
		logger.Errorf("Failed to initialize storage: %v", err)
		store = storage.NewMemoryStorage()
		_ = store.Init()
	}

	ps := &PageService{
		storage:     store,
		backend:     backend,
		config:      pageCfg,
		subscribers: make(map[string]map[chan model.ResultsArea]struct{}),
		stop:        make(chan struct{}),
	}

	if pageCfg.TTL > 0 && pageCfg.CleanupInterval > 0 {
		go ps.cleanupIdlePages()
	}

	return ps
}

func (s *PageService) controller(page *model.Page) *FormController {
	return NewFormController(page, s.backend, s.publish)
}

// CreatePage opens a new form page with its dropdowns populated. A failed
// cuisine fetch still yields a usable page.
func (s *PageService) CreatePage(ctx context.Context) (*model.Page, error) {
	page := model.NewPage(uuid.New().String())

	fc := s.controller(page)
	fc.PopulateStaticOptions()
	fc.LoadCuisines(ctx)

	if err := s.storage.CreatePage(page); err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	metrics.PagesOpen.Inc()

	logger.WithFields(logger.Fields{"page_id": page.ID()}).Info("page created")
	return page, nil
}

func (s *PageService) GetPage(pageID string) (*model.Page, error) {
	return s.storage.GetPage(pageID)
}

// Submit runs one recommendation request for the page.
func (s *PageService) Submit(ctx context.Context, pageID string, in model.FormInput) (model.ResultsArea, error) {
	page, err := s.storage.GetPage(pageID)
	if err != nil {
		return model.ResultsArea{}, err
	}
	return s.controller(page).Submit(ctx, in), nil
}

func (s *PageService) DeletePage(pageID string) error {
	if err := s.storage.DeletePage(pageID); err != nil {
		return err
	}
	metrics.PagesOpen.Dec()
	s.closeSubscribers(pageID)
	return nil
}

// Subscribe streams every future results-area replacement for the page.
// Slow readers only ever see the newest area. The channel is closed when the
// page goes away or cancel is called.
func (s *PageService) Subscribe(pageID string) (<-chan model.ResultsArea, func(), error) {
	if _, err := s.storage.GetPage(pageID); err != nil {
		return nil, nil, err
	}

	ch := make(chan model.ResultsArea, 1)

	s.subMu.Lock()
	if s.subscribers[pageID] == nil {
		s.subscribers[pageID] = make(map[chan model.ResultsArea]struct{})
	}
	s.subscribers[pageID][ch] = struct{}{}
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			if subs, ok := s.subscribers[pageID]; ok {
				if _, ok := subs[ch]; ok {
					delete(subs, ch)
					close(ch)
				}
				if len(subs) == 0 {
					delete(s.subscribers, pageID)
				}
			}
		})
	}
	return ch, cancel, nil
}

func (s *PageService) publish(pageID string, area model.ResultsArea) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for ch := range s.subscribers[pageID] {
		select {
		case ch <- area:
		default:
			// drop the stale update
			select {
			case <-ch:
			default:
			}
			ch <- area
		}
	}
}

func (s *PageService) closeSubscribers(pageID string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for ch := range s.subscribers[pageID] {
		close(ch)
	}
	delete(s.subscribers, pageID)
}

func (s *PageService) cleanupIdlePages() {
	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeIdlePages(time.Now())
		case <-s.stop:
			return
		}
	}
}

func (s *PageService) removeIdlePages(now time.Time) int {
	pages, err := s.storage.ListPages()
	if err != nil {
		logger.Errorf("Failed to list pages: %v", err)
		return 0
	}

	removed := 0
	for _, page := range pages {
		if now.Sub(page.UpdatedAt()) <= s.config.TTL {
			continue
		}
		if err := s.DeletePage(page.ID()); err != nil {
			logger.Warnf("Failed to remove idle page %s: %v", page.ID(), err)
			continue
		}
		removed++
	}
	if removed > 0 {
		logger.Infof("Removed %d idle pages", removed)
	}
	return removed
}

// Close stops the sweeper and releases storage.
func (s *PageService) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })

	s.subMu.Lock()
	for pageID, subs := range s.subscribers {
		for ch := range subs {
			close(ch)
		}
		delete(s.subscribers, pageID)
	}
	s.subMu.Unlock()

	return s.storage.Close()
}
