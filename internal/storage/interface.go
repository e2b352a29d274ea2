package storage

import (
	"dineout-frontend/internal/model"
)

// Storage holds the open form pages for their lifetime.
type Storage interface {
	// 页面管理
	CreatePage(page *model.Page) error
	GetPage(pageID string) (*model.Page, error)
	DeletePage(pageID string) error
	ListPages() ([]*model.Page, error)

	// 存储管理
	Init() error
	Close() error
}
