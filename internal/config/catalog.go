package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/catalog"
)

// defaultCatalogYAML is the content table a match boots with when no
// CatalogPath is configured: enough champion/map data to stand up a
// session without external assets.
//
//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// LoadCatalog reads the catalog at path, falling back to the embedded
// default content set when path is empty.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Load(defaultCatalogYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read catalog %s: %w", path, err)
	}
	return catalog.Load(data)
}
