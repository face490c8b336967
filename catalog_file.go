package classifier

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk layout of a catalog override
type catalogFile struct {
	WasteTypes []WasteType `yaml:"waste_types"`
}

// LoadCatalog decodes a YAML catalog from r and validates it
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty catalog document", ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	return NewCatalog(file.WasteTypes)
}

// LoadCatalogFile reads a YAML catalog from path
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file %s: %w", path, err)
	}
	defer f.Close()

	catalog, err := LoadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", path, err)
	}
	return catalog, nil
}

// WriteCatalog encodes the catalog as YAML
func WriteCatalog(w io.Writer, c *Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(catalogFile{WasteTypes: c.Types()}); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return enc.Close()
}
