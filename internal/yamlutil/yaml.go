// Package yamlutil wraps YAML parsing to isolate the external dependency.
// JSON documents are valid YAML, so manifests in either format decode here.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrNotMapping     = errors.New("yamlutil: document is not a mapping")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// SetKey sets key to value in a top-level YAML mapping and re-encodes it.
// Existing keys keep their position; a new key is appended last.
// Comments in the source document are not preserved.
func SetKey(data []byte, key string, value any) ([]byte, error) {
	var doc yaml.MapSlice
	if err := validateInput(data, &doc); err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotMapping, err)
	}

	replaced := false
	for i := range doc {
		if k, ok := doc[i].Key.(string); ok && k == key {
			doc[i].Value = value
			replaced = true
			break
		}
	}
	if !replaced {
		doc = append(doc, yaml.MapItem{Key: key, Value: value})
	}

	return Marshal(doc)
}
