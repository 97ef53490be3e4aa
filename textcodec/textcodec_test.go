package textcodec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cardutil/cardutil/textcodec"
)

func TestLatin1RoundTrip(t *testing.T) {
	codec, err := textcodec.Get(textcodec.Latin1)
	require.NoError(t, err)

	b, err := codec.Encode("1234")
	require.NoError(t, err)
	assert.Equal(t, []byte("1234"), b)

	s, err := codec.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, "1234", s)
}

func TestASCIIRejectsHighBytes(t *testing.T) {
	codec, err := textcodec.Get(textcodec.ASCII)
	require.NoError(t, err)

	_, err = codec.Decode([]byte{0x80})
	require.Error(t, err)
	var decErr *textcodec.DecodeError
	require.ErrorAs(t, err, &decErr)
}

func TestCP500RoundTrip(t *testing.T) {
	codec, err := textcodec.Get(textcodec.CP500)
	require.NoError(t, err)

	b, err := codec.Encode("1144")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF1, 0xF1, 0xF4, 0xF4}, b)

	s, err := codec.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, "1144", s)
}

func TestCP500BijectionProperty(t *testing.T) {
	codec, err := textcodec.Get(textcodec.CP500)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(t, "raw")
		decoded, err := codec.Decode(raw)
		require.NoError(t, err)
		encoded, err := codec.Encode(decoded)
		require.NoError(t, err)
		assert.Equal(t, raw, encoded)
	})
}
