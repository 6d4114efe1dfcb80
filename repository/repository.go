// Package repository caches parsed geometries and their indexes by
// specification. Lookups that parse are bounded by a concurrency limit; past
// that limit the repository still answers but does not cache.
package repository

import (
	"errors"
	"fmt"
	"hash/maphash"
	"log/slog"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/TuSKan/go-geometry"
)

// ErrUnknownKey is returned when a synthetic key is not cached, either because
// it was never stored or because it was evicted.
var ErrUnknownKey = errors.New("unknown geometry key")

// Entry is a cached geometry and, when every dimension has a shape, its
// index.
type Entry struct {
	Geometry *geometry.Geometry
	Index    *geometry.Index

	indexErr error
}

func newEntry(g *geometry.Geometry) Entry {
	idx, err := geometry.NewIndex(g)
	return Entry{Geometry: g, Index: idx, indexErr: err}
}

// Stats is a snapshot of the repository counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Fallbacks int64
	Evictions int64
	Entries   int
	Weight    int64
}

type Option func(*Repository)

// WithLogger sets the logger used for capacity warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics registers the repository counters with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *Repository) {
		r.registerer = reg
	}
}

// Repository is a weighted concurrent cache of geometries keyed by their
// specification. It is safe for concurrent use.
type Repository struct {
	cfg        Config
	shards     []*shard
	seed       maphash.Seed
	sem        *semaphore.Weighted
	group      singleflight.Group
	logger     *slog.Logger
	registerer prometheus.Registerer
	metrics    *repositoryMetrics

	hits      atomic.Int64
	misses    atomic.Int64
	fallbacks atomic.Int64
	evictions atomic.Int64
}

func New(cfg Config, opts ...Option) (*Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid repository config: %w", err)
	}
	r := &Repository{
		cfg:     cfg,
		seed:    maphash.MakeSeed(),
		sem:     semaphore.NewWeighted(int64(cfg.Concurrency)),
		logger:  slog.Default(),
		metrics: newRepositoryMetrics(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registerer != nil {
		if err := r.metrics.register(r.registerer); err != nil {
			return nil, fmt.Errorf("failed to register repository metrics: %w", err)
		}
	}

	budget := cfg.MaxWeight / int64(cfg.Concurrency)
	r.shards = make([]*shard, cfg.Concurrency)
	for i := range r.shards {
		s, err := newShard(budget, r.evicted)
		if err != nil {
			return nil, err
		}
		r.shards[i] = s
	}
	return r, nil
}

func (r *Repository) evicted(weight int64) {
	r.evictions.Add(1)
	r.metrics.evictions.Inc()
	r.metrics.weight.Sub(float64(weight))
}

func (r *Repository) shardFor(key string) *shard {
	return r.shards[maphash.String(r.seed, key)%uint64(len(r.shards))]
}

// Get returns the entry for spec, parsing and caching it on a miss. A spec
// in synthetic key form is only looked up, never parsed.
func (r *Repository) Get(spec string) (Entry, error) {
	if e, ok := r.shardFor(spec).get(spec); ok {
		r.hits.Add(1)
		r.metrics.hits.Inc()
		return e, nil
	}
	if geometry.IsKey(spec) {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownKey, spec)
	}

	r.misses.Add(1)
	r.metrics.misses.Inc()
	v, err, _ := r.group.Do(spec, func() (any, error) {
		return r.load(spec)
	})
	if err != nil {
		return Entry{}, err
	}
	return v.(Entry), nil
}

func (r *Repository) load(spec string) (Entry, error) {
	if !r.sem.TryAcquire(1) {
		r.fallbacks.Add(1)
		r.metrics.fallbacks.Inc()
		r.logger.Warn("geometry repository at capacity, parsing without caching",
			"spec", spec, "concurrency", r.cfg.Concurrency)
		g, err := geometry.Parse(spec)
		if err != nil {
			return Entry{}, err
		}
		return newEntry(g), nil
	}
	defer r.sem.Release(1)

	g, err := geometry.Parse(spec)
	if err != nil {
		return Entry{}, err
	}
	e := newEntry(g)
	r.store(spec, e)
	return e, nil
}

// store caches e under spec and under the geometry's key. The key alias
// weighs as much as the canonical encoding and evicts like any other entry.
func (r *Repository) store(spec string, e Entry) {
	added := r.shardFor(spec).add(spec, e, weigh(spec))
	key := e.Geometry.Key()
	added += r.shardFor(key).add(key, e, weigh(e.Geometry.Encode()))
	r.metrics.weight.Add(float64(added))
}

// weigh is the cache weight of an encoding. The empty geometry still costs 1.
func weigh(s string) int64 {
	return max(int64(len(s)), 1)
}

// Geometry returns the geometry for spec.
func (r *Repository) Geometry(spec string) (*geometry.Geometry, error) {
	e, err := r.Get(spec)
	if err != nil {
		return nil, err
	}
	return e.Geometry, nil
}

// Index returns the index for spec. It fails with geometry.ErrIllegalState
// when the geometry has an unsized dimension.
func (r *Repository) Index(spec string) (*geometry.Index, error) {
	e, err := r.Get(spec)
	if err != nil {
		return nil, err
	}
	if e.indexErr != nil {
		return nil, e.indexErr
	}
	return e.Index, nil
}

// Put caches g under its canonical encoding and returns its key.
func (r *Repository) Put(g *geometry.Geometry) string {
	r.store(g.Encode(), newEntry(g))
	return g.Key()
}

// Len is the number of cached entries, key aliases included.
func (r *Repository) Len() int {
	n, _ := r.totals()
	return n
}

// Weight is the total weight of the cached entries.
func (r *Repository) Weight() int64 {
	_, w := r.totals()
	return w
}

func (r *Repository) totals() (entries int, weight int64) {
	for _, s := range r.shards {
		n, w := s.stats()
		entries += n
		weight += w
	}
	return entries, weight
}

func (r *Repository) Stats() Stats {
	entries, weight := r.totals()
	return Stats{
		Hits:      r.hits.Load(),
		Misses:    r.misses.Load(),
		Fallbacks: r.fallbacks.Load(),
		Evictions: r.evictions.Load(),
		Entries:   entries,
		Weight:    weight,
	}
}
