package cell

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

func parseColor(s string) (color, error) {
	switch strings.ToLower(s) {
	case "red", "blue":
		return color(strings.ToLower(s)), nil
	}
	return "", errors.New("unknown color")
}

func colorCodec() Parsed[color, string] {
	return Parsed[color, string]{
		Parse:  parseColor,
		Format: func(c color) string { return string(c) },
	}
}

func TestJSON_IntEncoding(t *testing.T) {
	data, err := JSON[int]{}.Encode(7)
	require.NoError(t, err)
	assert.Equal(t, "7", string(data))

	v, err := JSON[int]{}.Decode([]byte("7"))
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestParsed_EncodeDecode(t *testing.T) {
	data, err := colorCodec().Encode("blue")
	require.NoError(t, err)
	assert.Equal(t, `"blue"`, string(data))

	v, err := colorCodec().Decode([]byte(`"RED"`))
	require.NoError(t, err)
	assert.Equal(t, color("red"), v)
}

func TestParsed_RejectsUnknownMember(t *testing.T) {
	_, err := colorCodec().Decode([]byte(`"green"`))
	assert.Error(t, err)

	_, err = colorCodec().Decode([]byte(`red`))
	assert.Error(t, err, "bare words are not valid JSON")
}

func TestJSON_RejectsNull(t *testing.T) {
	_, err := JSON[int]{}.Decode([]byte("null"))
	require.Error(t, err)

	_, err = colorCodec().Decode([]byte(" null "))
	require.Error(t, err)
}
