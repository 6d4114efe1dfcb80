package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

const manifestFormat = 1

var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// Manifest is the snapshot of a catalog: geometry specifications by name.
type Manifest struct {
	CatalogFormat int               `json:"catalog_format"`
	Geometries    map[string]string `json:"geometries"`
}

// LoadManifest reads and checks a JSON manifest.
func LoadManifest(reader io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(reader).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	if m.CatalogFormat != manifestFormat {
		return nil, fmt.Errorf("%w: %d, expected %d", ErrUnsupportedFormat, m.CatalogFormat, manifestFormat)
	}
	if m.Geometries == nil {
		m.Geometries = map[string]string{}
	}

	return &m, nil
}

// Names returns the geometry names in lexical order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Geometries))
	for name := range m.Geometries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
