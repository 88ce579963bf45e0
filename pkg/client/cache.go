package client

import (
	"sync"
	"time"
)

// categoryTTL bounds how long the category list is served from cache.
// Categories change rarely, so a stale window is acceptable.
const categoryTTL = 5 * time.Minute

type listEntry struct {
	anns []Announcement
}

type detailEntry struct {
	ann Announcement
}

// Cache stores API responses between calls. List responses are keyed by
// their filter combination, so invalidation clears every filtered variant
// at once. All methods are safe for concurrent use.
type Cache struct {
	mu sync.Mutex

	lists   map[string]listEntry
	details map[int64]detailEntry

	categories    []Category
	categoriesAt  time.Time
	hasCategories bool

	now func() time.Time // テストで差し替える
}

func NewCache() *Cache {
	return &Cache{
		lists:   make(map[string]listEntry),
		details: make(map[int64]detailEntry),
		now:     time.Now,
	}
}

// List returns the cached result for a filter key, if present.
func (c *Cache) List(key string) ([]Announcement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.lists[key]
	return e.anns, ok
}

func (c *Cache) SetList(key string, anns []Announcement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[key] = listEntry{anns: anns}
}

// InvalidateLists drops every cached list, regardless of filters.
// Called after any mutation and on announcement:created events.
func (c *Cache) InvalidateLists() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists = make(map[string]listEntry)
}

func (c *Cache) Detail(id int64) (Announcement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.details[id]
	return e.ann, ok
}

func (c *Cache) SetDetail(a Announcement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.details[a.ID] = detailEntry{ann: a}
}

func (c *Cache) InvalidateDetail(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.details, id)
}

// Categories returns the cached category list unless the TTL has expired.
func (c *Cache) Categories() ([]Category, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasCategories || c.now().Sub(c.categoriesAt) > categoryTTL {
		return nil, false
	}
	return c.categories, true
}

func (c *Cache) SetCategories(cats []Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = cats
	c.categoriesAt = c.now()
	c.hasCategories = true
}
