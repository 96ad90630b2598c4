// CacheService — LRU-кэш метаданных документов с TTL.
// Используется только при выдаче документа по id.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
)

var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wi_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш метаданных документов.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wi_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша метаданных документов.",
	})
)

// CacheService — per-instance кэш DocumentRecord по id_documento.
type CacheService struct {
	cache *expirable.LRU[int64, *model.DocumentRecord]
}

// NewCacheService создаёт LRU-кэш с указанным максимальным размером и TTL.
func NewCacheService(maxSize int, ttl time.Duration) *CacheService {
	return &CacheService{
		cache: expirable.NewLRU[int64, *model.DocumentRecord](maxSize, nil, ttl),
	}
}

// Get возвращает запись по id. Обновляет метрики hit/miss.
func (c *CacheService) Get(docID int64) (*model.DocumentRecord, bool) {
	val, ok := c.cache.Get(docID)
	if ok {
		cacheHitsTotal.Inc()
		return val, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

// Set добавляет или обновляет запись.
func (c *CacheService) Set(docID int64, record *model.DocumentRecord) {
	c.cache.Add(docID, record)
}

// Delete удаляет запись.
func (c *CacheService) Delete(docID int64) {
	c.cache.Remove(docID)
}
