package codec

import (
	"fmt"
	"io"

	"gridview/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Decode imports a snapshot from YAML
func (c *YAMLCodec) Decode(r io.Reader) (*domain.Snapshot, error) {
	var doc document
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: YAML: %w", ErrMalformed, err)
	}

	return fromDocument(&doc)
}

// Encode exports a snapshot to YAML
func (c *YAMLCodec) Encode(snapshot *domain.Snapshot, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(toDocument(snapshot)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
