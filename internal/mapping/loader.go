package mapping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"relmap/internal/match"
)

// LoadFile loads and parses a YAML mapping file from the given path.
func LoadFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a MappingFile.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	err := yaml.Unmarshal(data, &mf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	applyDefaults(&mf)

	return &mf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(mf *MappingFile) {
	if mf.Version == "" {
		mf.Version = "1"
	}

	if mf.Entities == nil {
		mf.Entities = []Entity{}
	}

	for i := range mf.Entities {
		e := &mf.Entities[i]
		if e.Table == "" {
			e.Table = match.SnakeCase(e.Name)
		}

		if e.Schema == "" {
			e.Schema = mf.Schema
		}

		for j := range e.UniqueKeys {
			uk := &e.UniqueKeys[j]
			if uk.Name == "" {
				uk.Name = fmt.Sprintf("uk_%s_%d", e.Table, j+1)
			}
		}

		for j := range e.Collections {
			c := &e.Collections[j]
			if c.CollectionTable == "" {
				c.CollectionTable = e.Table + "_" + match.SnakeCase(c.Name)
			}

			if c.Columns == nil {
				c.Columns = ColumnDefArray{}
			}

			if c.JoinColumns == nil {
				c.JoinColumns = ColumnDefArray{}
			}
		}
	}
}

// Marshal serializes a MappingFile to YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	return yaml.Marshal(mf)
}

// WriteFile writes a MappingFile to the given path.
func WriteFile(mf *MappingFile, path string) error {
	data, err := Marshal(mf)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	return nil
}
