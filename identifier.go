package md2epub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/alnah/go-md2epub/internal/source"
	"github.com/alnah/go-md2epub/internal/yamlutil"
)

// ErrNotObject is returned when a manifest to update is not a JSON object.
var ErrNotObject = errors.New("manifest is not a JSON object")

// identifierKey is the manifest key holding the book identifier.
const identifierKey = "uuid"

// EnsureIdentifier gives m a random UUID when it has none and saves data,
// the manifest m was parsed from, back to store with the new key. Other
// keys keep their order. It returns whether a new identifier was assigned.
//
// When the store is read-only the identifier is still assigned and the
// returned error wraps ErrReadOnlyStore.
func EnsureIdentifier(ctx context.Context, store ManifestStore, data []byte, m *Manifest) (bool, error) {
	if m == nil {
		return false, ErrNilManifest
	}
	if m.UUID != "" {
		return false, nil
	}
	if store == nil {
		return false, ErrNilStore
	}

	id := uuid.NewString()

	var updated []byte
	var err error
	switch store.Format() {
	case source.FormatYAML:
		updated, err = yamlutil.SetKey(data, identifierKey, id)
	default:
		updated, err = setJSONKey(data, identifierKey, id)
	}
	if err != nil {
		return false, fmt.Errorf("adding identifier to manifest: %w", err)
	}

	m.UUID = id
	if err := store.Save(ctx, updated); err != nil {
		return true, fmt.Errorf("saving manifest: %w", err)
	}
	return true, nil
}

// setJSONKey sets key in a top-level JSON object, keeping the order and
// raw form of other members, and re-indents the object with two spaces.
func setJSONKey(data []byte, key string, value any) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, []byte("\ufeff"))))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}

	type member struct {
		key   string
		value json.RawMessage
	}
	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
		}
		k, ok := tok.(string)
		if !ok {
			return nil, ErrNotObject
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
		}
		members = append(members, member{key: k, value: v})
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	replaced := false
	for i := range members {
		if members[i].key == key {
			members[i].value = encoded
			replaced = true
		}
	}
	if !replaced {
		members = append(members, member{key: key, value: encoded})
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, m := range members {
		k, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.WriteString("  ")
		buf.Write(k)
		buf.WriteString(": ")
		if err := json.Indent(&buf, m.value, "  ", "  "); err != nil {
			return nil, err
		}
		if i < len(members)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
