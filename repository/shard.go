package repository

import (
	"fmt"
	"math"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

type weighted struct {
	entry  Entry
	weight int64
}

// shard is one slice of the repository. Entries live in an LRU list trimmed
// to budget by weight.
type shard struct {
	mu      sync.Mutex
	lru     *simplelru.LRU[string, weighted]
	budget  int64
	weight  int64
	onEvict func(weight int64)
}

func newShard(budget int64, onEvict func(weight int64)) (*shard, error) {
	s := &shard{
		budget:  budget,
		onEvict: onEvict,
	}
	// The count bound is never reached, trimming is done by weight.
	lru, err := simplelru.NewLRU[string, weighted](math.MaxInt, s.evicted)
	if err != nil {
		return nil, fmt.Errorf("failed to create shard: %w", err)
	}
	s.lru = lru
	return s, nil
}

// evicted runs with s.mu held.
func (s *shard) evicted(_ string, w weighted) {
	s.weight -= w.weight
	if s.onEvict != nil {
		s.onEvict(w.weight)
	}
}

func (s *shard) get(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.lru.Get(key)
	return w.entry, ok
}

// add stores e under key and returns the weight actually added. An entry
// heavier than the whole budget is not cached.
func (s *shard) add(key string, e Entry, weight int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if weight <= 0 || weight > s.budget || s.lru.Contains(key) {
		return 0
	}
	s.lru.Add(key, weighted{entry: e, weight: weight})
	s.weight += weight
	for s.weight > s.budget {
		if _, _, ok := s.lru.RemoveOldest(); !ok {
			break
		}
	}
	return weight
}

func (s *shard) stats() (entries int, weight int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len(), s.weight
}
