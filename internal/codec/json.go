package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"gridview/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Decode imports a snapshot from JSON
func (c *JSONCodec) Decode(r io.Reader) (*domain.Snapshot, error) {
	var doc document
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: JSON: %w", ErrMalformed, err)
	}

	return fromDocument(&doc)
}

// Encode exports a snapshot to JSON
func (c *JSONCodec) Encode(snapshot *domain.Snapshot, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(toDocument(snapshot)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
