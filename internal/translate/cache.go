package translate

import (
	"context"
	"sync"

	"github.com/rlpro/rlpro/internal/quiz"
)

// Cache holds the translation for the current display language. Switching
// language drops it; nothing is persisted.
type Cache struct {
	overlay *Overlay

	mu    sync.Mutex
	key   cacheKey
	entry *Translation
}

type cacheKey struct {
	unitID   string
	language string
	model    string
}

// NewCache wraps an Overlay.
func NewCache(o *Overlay) *Cache {
	return &Cache{overlay: o}
}

// Overlay returns the underlying overlay.
func (c *Cache) Overlay() *Overlay { return c.overlay }

// Get returns the translation of u into language, building it on first use.
// It returns nil, and clears the cache, when language is the unit's source
// language.
func (c *Cache) Get(ctx context.Context, u quiz.Unit, language, model string) *Translation {
	key := cacheKey{unitID: u.ID, language: language, model: model}

	c.mu.Lock()
	if c.entry != nil && c.key == key {
		t := c.entry
		c.mu.Unlock()
		return t
	}
	c.mu.Unlock()

	if isSource(u, language) {
		c.Clear()
		return nil
	}

	t := c.overlay.Apply(ctx, u, language, model)

	c.mu.Lock()
	c.key = key
	c.entry = t
	c.mu.Unlock()
	return t
}

// Switch drops the cached entry unless it is already for language.
func (c *Cache) Switch(language string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.key.language != language {
		c.key = cacheKey{}
		c.entry = nil
	}
}

// Clear drops the cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = cacheKey{}
	c.entry = nil
}

// Current returns the cached translation, or nil.
func (c *Cache) Current() *Translation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry
}

// Localize returns u rendered in language. The second result is false when
// no translation applies and u should be shown as authored.
func (c *Cache) Localize(ctx context.Context, u quiz.Unit, language, model string) (quiz.Unit, bool) {
	t := c.Get(ctx, u, language, model)
	if t == nil {
		return u, false
	}
	return t.Unit.Clone(), true
}

// Result translates a status line into language.
func (c *Cache) Result(ctx context.Context, text, language, model string) string {
	return c.overlay.Result(ctx, text, language, model)
}

// Labels returns the interface labels for language.
func (c *Cache) Labels(ctx context.Context, u quiz.Unit, language, model string) Labels {
	if t := c.Get(ctx, u, language, model); t != nil {
		return t.Labels
	}
	return c.overlay.SourceLabels()
}
