package bitmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cardutil/cardutil/bitmap"
)

func TestToListLength(t *testing.T) {
	list, err := bitmap.ToList(make([]byte, bitmap.ByteLength))
	require.NoError(t, err)
	assert.Len(t, list, 128)
}

func TestToListMSBFirst(t *testing.T) {
	// 0xC0 0x00 ... sets bit 1 (bitmap indicator) and bit 2.
	raw := make([]byte, bitmap.ByteLength)
	raw[0] = 0xC0
	list, err := bitmap.ToList(raw)
	require.NoError(t, err)
	assert.True(t, list[0])
	assert.True(t, list[1])
	for _, bit := range list[2:] {
		assert.False(t, bit)
	}
}

func TestInvalidSize(t *testing.T) {
	_, err := bitmap.ToList(make([]byte, 10))
	require.Error(t, err)
	var sizeErr bitmap.InvalidSizeError
	require.ErrorAs(t, err, &sizeErr)
}

func TestRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.SliceOfN(rapid.Byte(), bitmap.ByteLength, bitmap.ByteLength).Draw(t, "raw")
		list, err := bitmap.ToList(raw)
		require.NoError(t, err)
		require.Len(t, list, 128)

		back, err := bitmap.FromList(list)
		require.NoError(t, err)
		assert.Equal(t, raw, back)
	})
}
