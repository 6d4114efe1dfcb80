package catalog_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	_ "gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/memblob"

	"github.com/TuSKan/go-geometry"
	"github.com/TuSKan/go-geometry/catalog"
	"github.com/TuSKan/go-geometry/repository"
)

func newCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(memblob.OpenBucket(nil), nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCatalog_PutGet(t *testing.T) {
	ctx := context.Background()
	repo, err := repository.New(repository.DefaultConfig())
	require.NoError(t, err)

	c, err := catalog.New(memblob.OpenBucket(nil), repo)
	require.NoError(t, err)
	defer c.Close()

	g := geometry.MustParse("S2(2,2)T1(3)")
	require.NoError(t, c.Put(ctx, "grid", g))

	got, err := c.Get(ctx, "grid")
	require.NoError(t, err)
	require.Same(t, g, got)

	again, err := c.Get(ctx, "grid")
	require.NoError(t, err)
	require.Same(t, got, again)
	require.Equal(t, int64(0), repo.Stats().Misses)
}

func TestCatalog_NotFound(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	_, err := c.Get(ctx, "missing")
	require.ErrorIs(t, err, catalog.ErrNotFound)

	err = c.Delete(ctx, "missing")
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCatalog_InvalidNames(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	g := geometry.MustParse("T1(3)")

	for _, name := range []string{"", "a/b"} {
		require.Error(t, c.Put(ctx, name, g), name)
		_, err := c.Get(ctx, name)
		require.Error(t, err, name)
	}
}

func TestCatalog_ListDelete(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	for _, name := range []string{"world", "alps", "decade"} {
		require.NoError(t, c.Put(ctx, name, geometry.MustParse("S2(10,10)")))
	}

	names, err := c.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"alps", "decade", "world"}, names)

	require.NoError(t, c.Delete(ctx, "decade"))
	names, err = c.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"alps", "world"}, names)
}

func TestCatalog_CorruptObject(t *testing.T) {
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	require.NoError(t, bucket.WriteAll(ctx, "geometries/bad", []byte("S2(3,4"), nil))

	c, err := catalog.New(bucket, nil)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Get(ctx, "bad")
	require.ErrorIs(t, err, geometry.ErrParse)
}

func TestCatalog_FileBucket(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "geometries"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "geometries", "imf"), []byte("σ1(866){authority=IMF.CL_AREA}"), 0644))

	c, err := catalog.Open(ctx, "file://"+tmpDir, nil)
	require.NoError(t, err)
	defer c.Close()

	g, err := c.Get(ctx, "imf")
	require.NoError(t, err)
	require.True(t, g.Generic())
	require.Equal(t, []int64{866}, g.Dimension(geometry.Space).Shape())

	require.NoError(t, c.Put(ctx, "decade", geometry.MustParse("T1(10)")))
	data, err := os.ReadFile(filepath.Join(tmpDir, "geometries", "decade"))
	require.NoError(t, err)
	require.Equal(t, "T1(10)", string(data))

	names, err := c.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"decade", "imf"}, names)
}

func TestCatalog_SnapshotRestore(t *testing.T) {
	ctx := context.Background()
	src := newCatalog(t)
	require.NoError(t, src.Put(ctx, "grid", geometry.MustParse("T1(3)S2(2,2){proj=EPSG:4326}")))
	require.NoError(t, src.Put(ctx, "alps", geometry.MustParse("s1(1){urn=urn:klab:region:alps}")))

	var buf bytes.Buffer
	require.NoError(t, src.Snapshot(ctx, &buf))
	require.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, buf.Bytes()[:4])

	dst := newCatalog(t)
	n, err := dst.Restore(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 2, n)

	names, err := dst.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"alps", "grid"}, names)

	g, err := dst.Get(ctx, "grid")
	require.NoError(t, err)
	require.Equal(t, "T1(3)S2(2,2){proj=EPSG:4326}", g.Encode())
}

func TestLoadManifest(t *testing.T) {
	m, err := catalog.LoadManifest(strings.NewReader(`{"catalog_format":1,"geometries":{"b":"T1(3)","a":"S2"}}`))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, m.Names())

	m, err = catalog.LoadManifest(strings.NewReader(`{"catalog_format":1}`))
	require.NoError(t, err)
	require.Empty(t, m.Names())

	_, err = catalog.LoadManifest(strings.NewReader(`{"catalog_format":2,"geometries":{}}`))
	require.ErrorIs(t, err, catalog.ErrUnsupportedFormat)

	_, err = catalog.LoadManifest(strings.NewReader(`{`))
	require.Error(t, err)
}

func TestCatalog_RestoreRejectsInvalid(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte(`{"catalog_format":1,"geometries":{"good":"T1(3)","bad":"S2(-1,2)"}}`))
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	c := newCatalog(t)
	n, err := c.Restore(ctx, &buf)
	require.ErrorIs(t, err, geometry.ErrParse)
	require.Equal(t, 0, n)

	names, err := c.List(ctx)
	require.NoError(t, err)
	require.Empty(t, names)
}
