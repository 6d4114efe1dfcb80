// Package catalog stores named geometries in a blob bucket. Each geometry is
// one object under "geometries/" holding its canonical specification, so any
// gocloud.dev bucket URL (file://, mem://, s3://, gs://) can back a catalog.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/TuSKan/go-geometry"
	"github.com/TuSKan/go-geometry/repository"
)

const prefix = "geometries/"

var ErrNotFound = errors.New("geometry not found")

type Option func(*Catalog)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Catalog resolves stored specifications through a repository, so repeated
// reads of one geometry share a single parsed value.
type Catalog struct {
	bucket *blob.Bucket
	repo   *repository.Repository
	logger *slog.Logger
}

// Open opens the bucket at url. A nil repo gets a private default
// repository.
func Open(ctx context.Context, url string, repo *repository.Repository, opts ...Option) (*Catalog, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket: %w", err)
	}

	c, err := New(bucket, repo, opts...)
	if err != nil {
		bucket.Close()
		return nil, err
	}
	return c, nil
}

// New wraps an open bucket. The catalog owns it from then on.
func New(bucket *blob.Bucket, repo *repository.Repository, opts ...Option) (*Catalog, error) {
	if repo == nil {
		var err error
		if repo, err = repository.New(repository.DefaultConfig()); err != nil {
			return nil, err
		}
	}
	c := &Catalog{bucket: bucket, repo: repo, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func checkName(name string) error {
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("invalid geometry name %q", name)
	}
	return nil
}

// Put stores g under name, replacing any previous geometry.
func (c *Catalog) Put(ctx context.Context, name string, g *geometry.Geometry) error {
	if err := checkName(name); err != nil {
		return err
	}
	spec := g.Encode()
	if err := c.bucket.WriteAll(ctx, prefix+name, []byte(spec), nil); err != nil {
		return fmt.Errorf("failed to write geometry %s: %w", name, err)
	}
	c.repo.Put(g)
	c.logger.Debug("stored geometry", "name", name, "spec", spec)
	return nil
}

// Get reads the geometry stored under name.
func (c *Catalog) Get(ctx context.Context, name string) (*geometry.Geometry, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := c.bucket.ReadAll(ctx, prefix+name)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read geometry %s: %w", name, err)
	}

	g, err := c.repo.Geometry(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse geometry %s: %w", name, err)
	}
	return g, nil
}

func (c *Catalog) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := c.bucket.Delete(ctx, prefix+name); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("failed to delete geometry %s: %w", name, err)
	}
	return nil
}

// List returns the stored names in lexical order.
func (c *Catalog) List(ctx context.Context) ([]string, error) {
	var names []string
	it := c.bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := it.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list geometries: %w", err)
		}
		if obj.IsDir {
			continue
		}
		names = append(names, strings.TrimPrefix(obj.Key, prefix))
	}
	return names, nil
}

// Snapshot writes every stored geometry to w as a zstd compressed JSON
// manifest.
func (c *Catalog) Snapshot(ctx context.Context, w io.Writer) error {
	names, err := c.List(ctx)
	if err != nil {
		return err
	}

	m := Manifest{CatalogFormat: manifestFormat, Geometries: make(map[string]string, len(names))}
	for _, name := range names {
		data, err := c.bucket.ReadAll(ctx, prefix+name)
		if err != nil {
			return fmt.Errorf("failed to read geometry %s: %w", name, err)
		}
		m.Geometries[name] = string(data)
	}

	encoder, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := json.NewEncoder(encoder).Encode(&m); err != nil {
		encoder.Close()
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to compress manifest: %w", err)
	}
	c.logger.Info("catalog snapshot written", "geometries", len(names))
	return nil
}

// Restore reads a snapshot written by Snapshot and stores its geometries.
// Every specification is parsed before anything is written, so a snapshot
// holding an invalid one leaves the catalog unchanged. It returns the number
// of geometries stored.
func (c *Catalog) Restore(ctx context.Context, r io.Reader) (int, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer decoder.Close()

	m, err := LoadManifest(decoder)
	if err != nil {
		return 0, err
	}

	names := m.Names()
	parsed := make([]*geometry.Geometry, len(names))
	for i, name := range names {
		if err := checkName(name); err != nil {
			return 0, err
		}
		if parsed[i], err = c.repo.Geometry(m.Geometries[name]); err != nil {
			return 0, fmt.Errorf("failed to parse geometry %s: %w", name, err)
		}
	}

	for i, name := range names {
		if err := c.Put(ctx, name, parsed[i]); err != nil {
			return i, err
		}
	}
	c.logger.Info("catalog restored", "geometries", len(names))
	return len(names), nil
}

func (c *Catalog) Close() error {
	return c.bucket.Close()
}
