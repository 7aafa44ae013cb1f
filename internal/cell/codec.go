package cell

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// errNull is returned for a stored JSON null, which json.Unmarshal would
// otherwise accept as the zero value.
var errNull = errors.New("decode: null value")

// Codec converts a value to and from its stored text form.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// JSON encodes values as JSON text: 5 for integers, "ocean" for strings.
// This matches what a browser writes with JSON.stringify into localStorage.
type JSON[T any] struct{}

// Encode marshals v.
func (JSON[T]) Encode(v T) ([]byte, error) {
	return json.Marshal(v)
}

// Decode unmarshals data into a T.
func (JSON[T]) Decode(data []byte) (T, error) {
	var v T
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return v, errNull
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode: %w", err)
	}
	return v, nil
}

// Parsed wraps a JSON codec with a parse step, for enumerations stored as
// strings. Decode fails when parse rejects the decoded value.
type Parsed[T any, R any] struct {
	Parse  func(R) (T, error)
	Format func(T) R
}

// Encode formats v and marshals the raw form.
func (p Parsed[T, R]) Encode(v T) ([]byte, error) {
	return JSON[R]{}.Encode(p.Format(v))
}

// Decode unmarshals the raw form and parses it.
func (p Parsed[T, R]) Decode(data []byte) (T, error) {
	raw, err := JSON[R]{}.Decode(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return p.Parse(raw)
}
