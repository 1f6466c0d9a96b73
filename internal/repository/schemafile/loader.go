// Package schemafile reads the facet schema document from disk.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/smartmatch/internal/domain"
	"github.com/kailas-cloud/smartmatch/internal/domain/schema"
)

// Load reads and validates the schema document at path. Any failure is a
// domain.ErrConfiguration and must stop the process before it serves.
func Load(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, domain.NewConfigurationError(path, fmt.Errorf("read schema: %w", err))
	}

	s, err := Parse(data)
	if err != nil {
		return nil, domain.NewConfigurationError(path, err)
	}
	return s, nil
}

// Parse decodes a YAML or JSON schema document. Unknown keys are rejected so
// that typos in the document surface at startup.
func Parse(data []byte) (*schema.Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("schema document is empty")
		}
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if doc.Version == "" {
		return nil, errors.New("schema version is required")
	}

	return doc.toSchema()
}
