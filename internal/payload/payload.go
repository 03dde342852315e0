package payload

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"time"
)

const formatVersionCurrent = 1

// ErrUnsupportedVersion is returned for payloads written by an unknown
// (newer or corrupted) format revision.
var ErrUnsupportedVersion = errors.New("unsupported payload format version")

func init() {
	gob.Register(map[string]any{})
	gob.Register([]any{})
	gob.Register(time.Time{})
}

// Register exposes gob registration for applications storing custom concrete
// types inside session values.
func Register(value any) {
	gob.Register(value)
}

// Encode serializes a session mapping. A nil mapping encodes like an empty
// one.
func Encode(values map[string]any) ([]byte, error) {
	if values == nil {
		values = map[string]any{}
	}

	var buf bytes.Buffer
	buf.WriteByte(formatVersionCurrent)

	if err := gob.NewEncoder(&buf).Encode(values); err != nil {
		return nil, fmt.Errorf("encode session payload: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode. An empty input decodes to an empty mapping, which
// is what a swept-but-still-referenced session degrades to.
func Decode(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	if data[0] != formatVersionCurrent {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[0])
	}

	var values map[string]any
	if err := gob.NewDecoder(bytes.NewReader(data[1:])).Decode(&values); err != nil {
		return nil, fmt.Errorf("decode session payload: %w", err)
	}
	if values == nil {
		values = map[string]any{}
	}
	return values, nil
}
