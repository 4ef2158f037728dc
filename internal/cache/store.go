package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/jovemegidio/Zyntra-sub004/internal/models"
)

// entry is one cached report, keyed by the canonical query key.
type entry struct {
	key        string
	records    []models.CallRecord
	capturedAt time.Time
	expiresAt  time.Time
}

// Store is a thread-safe LRU store of report results with TTL. Stale
// entries are ignored on read and overwritten on the next fetch for
// the same key; the capacity bound only matters when many distinct
// queries are in play.
type Store struct {
	capacity  int
	items     map[string]*list.Element
	evictList *list.List
	mu        sync.RWMutex
	hits      uint64
	misses    uint64
}

// NewStore creates a store bounded to the given number of entries.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = 256
	}

	return &Store{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
	}
}

// Get returns the cached records for a key while the entry is fresh.
func (s *Store) Get(key string) ([]models.CallRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		s.misses++
		return nil, false
	}

	ent := elem.Value.(*entry)
	if time.Now().After(ent.expiresAt) {
		s.removeElement(elem)
		s.misses++
		return nil, false
	}

	s.evictList.MoveToFront(elem)
	s.hits++
	return ent.records, true
}

// Set stores a fresh result for a key, replacing any previous entry.
func (s *Store) Set(key string, records []models.CallRecord, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	if elem, ok := s.items[key]; ok {
		s.evictList.MoveToFront(elem)
		ent := elem.Value.(*entry)
		ent.records = records
		ent.capturedAt = now
		ent.expiresAt = now.Add(ttl)
		return
	}

	elem := s.evictList.PushFront(&entry{
		key:        key,
		records:    records,
		capturedAt: now,
		expiresAt:  now.Add(ttl),
	})
	s.items[key] = elem

	if s.evictList.Len() > s.capacity {
		s.removeOldest()
	}
}

// Len returns the number of entries, fresh or stale.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evictList.Len()
}

// Stats returns the store's counters for status reporting.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	records := 0
	fresh := 0
	for elem := s.evictList.Front(); elem != nil; elem = elem.Next() {
		ent := elem.Value.(*entry)
		if now.Before(ent.expiresAt) {
			fresh++
			records += len(ent.records)
		}
	}

	total := s.hits + s.misses
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(s.hits) / float64(total) * 100
	}

	return Stats{
		Hits:         s.hits,
		Misses:       s.misses,
		HitRate:      hitRate,
		Entries:      s.evictList.Len(),
		FreshEntries: fresh,
		Records:      records,
		Capacity:     s.capacity,
	}
}

// Cleanup removes expired entries and returns how many were dropped.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0

	for elem := s.evictList.Back(); elem != nil; {
		ent := elem.Value.(*entry)
		prev := elem.Prev()

		if now.After(ent.expiresAt) {
			s.removeElement(elem)
			removed++
		}

		elem = prev
	}

	return removed
}

func (s *Store) removeOldest() {
	if elem := s.evictList.Back(); elem != nil {
		s.removeElement(elem)
	}
}

func (s *Store) removeElement(elem *list.Element) {
	s.evictList.Remove(elem)
	ent := elem.Value.(*entry)
	delete(s.items, ent.key)
}

// Stats represents result-store statistics.
type Stats struct {
	Hits         uint64  `json:"hits"`
	Misses       uint64  `json:"misses"`
	HitRate      float64 `json:"hit_rate"`
	Entries      int     `json:"entries"`
	FreshEntries int     `json:"fresh_entries"`
	Records      int     `json:"records"`
	Capacity     int     `json:"capacity"`
}
