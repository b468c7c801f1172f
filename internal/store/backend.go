package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"

	"innerbloom-backend/internal/db"
)

// Backend is the flat string-keyed persistence boundary: get/set/delete
// plus enumerate-by-prefix. Synchronous, no transactions.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Keys(prefix string) ([]string, error)
}

// DBBackend stores entries in the kv_entries table.
type DBBackend struct {
	g *gorm.DB
}

func NewDBBackend(g *gorm.DB) *DBBackend {
	return &DBBackend{g: g}
}

func (b *DBBackend) Get(key string) (string, bool, error) {
	var e db.KVEntry
	err := b.g.Where("k = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.V, true, nil
}

func (b *DBBackend) Set(key, value string) error {
	var e db.KVEntry
	err := b.g.Where("k = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return b.g.Create(&db.KVEntry{K: key, V: value}).Error
	}
	if err != nil {
		return err
	}
	return b.g.Model(&e).Update("v", value).Error
}

func (b *DBBackend) Delete(key string) error {
	return b.g.Where("k = ?", key).Delete(&db.KVEntry{}).Error
}

func (b *DBBackend) Keys(prefix string) ([]string, error) {
	var keys []string
	pattern := escapeLike(prefix) + "%"
	if err := b.g.Model(&db.KVEntry{}).Where(`k LIKE ? ESCAPE '\'`, pattern).Pluck("k", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

// MemoryBackend is the in-process implementation, used in tests and as a
// stand-in when no database is configured. MaxEntries, when non-zero,
// makes Set fail once the map is full so capacity handling can be tested.
type MemoryBackend struct {
	mu         sync.RWMutex
	data       map[string]string
	MaxEntries int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]string)}
}

func (b *MemoryBackend) Get(key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	return v, ok, nil
}

func (b *MemoryBackend) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.data[key]; !exists && b.MaxEntries > 0 && len(b.data) >= b.MaxEntries {
		return fmt.Errorf("memory backend full (%d entries)", b.MaxEntries)
	}
	b.data[key] = value
	return nil
}

func (b *MemoryBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

func (b *MemoryBackend) Keys(prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var keys []string
	for k := range b.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
