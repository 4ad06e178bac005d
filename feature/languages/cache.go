package languages

import (
	"errors"
	"strings"
	"sync"
	"time"

	"vocab-manager/core/reconcile"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// CodeLanguageNotFound is the exception code for unknown language values.
const CodeLanguageNotFound = "language_not_found"

type cacheEntry struct {
	lang  Language
	built time.Time
}

// Cache resolves language references (iso code or name) with a TTL.
// Concurrent misses on the same key share one database lookup.
type Cache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cacheEntry
	sf      singleflight.Group
	now     func() time.Time
}

// NewCache creates a cache. A zero ttl disables caching.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, entries: make(map[string]cacheEntry), now: time.Now}
}

// Resolve returns the language named by value. Inside a transaction pass the
// transaction handle as db; such lookups run on that transaction alone and are
// never shared with other callers. Languages are only written by Seed, so a row
// read inside a transaction is cached like any other.
func (c *Cache) Resolve(db *gorm.DB, value string) (*Language, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" {
		return nil, reconcile.Invalid(CodeLanguageNotFound, "language", "language is required")
	}

	if lang, ok := c.get(key); ok {
		return &lang, nil
	}
	if inTransaction(db) {
		lang, err := c.load(db, key, value)
		if err != nil {
			return nil, err
		}
		return &lang, nil
	}

	res, err, _ := c.sf.Do(key, func() (any, error) {
		if lang, ok := c.get(key); ok {
			return lang, nil
		}
		return c.load(db, key, value)
	})
	if err != nil {
		return nil, err
	}
	lang := res.(Language)
	return &lang, nil
}

func (c *Cache) load(db *gorm.DB, key, value string) (Language, error) {
	var lang Language
	err := db.Where("LOWER(iso_code) = ? OR LOWER(name) = ?", key, key).Take(&lang).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Language{}, reconcile.Invalid(CodeLanguageNotFound, "language", "unknown language "+value)
	}
	if err != nil {
		return Language{}, err
	}
	c.put(key, lang)
	return lang, nil
}

// inTransaction reports whether db is bound to an open transaction.
func inTransaction(db *gorm.DB) bool {
	if db.Statement == nil {
		return false
	}
	_, ok := db.Statement.ConnPool.(gorm.TxCommitter)
	return ok
}

// Invalidate drops every cached entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

func (c *Cache) get(key string) (Language, bool) {
	if c.ttl <= 0 {
		return Language{}, false
	}
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().Sub(e.built) > c.ttl {
		return Language{}, false
	}
	return e.lang, true
}

func (c *Cache) put(key string, lang Language) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{lang: lang, built: c.now()}
	c.mu.Unlock()
}
