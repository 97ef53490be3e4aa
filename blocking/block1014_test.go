package blocking_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cardutil/cardutil/blocking"
)

func TestWriterSingleBlockExact(t *testing.T) {
	var buf bytes.Buffer
	w := blocking.NewWriter(&buf)
	payload := bytes.Repeat([]byte{'A'}, blocking.PayloadSize)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, blocking.BlockSize, buf.Len())
	assert.Equal(t, byte(0x40), buf.Bytes()[blocking.BlockSize-1])
	assert.Equal(t, byte(0x40), buf.Bytes()[blocking.BlockSize-2])
}

func TestWriterStraddlesBoundary(t *testing.T) {
	var buf bytes.Buffer
	w := blocking.NewWriter(&buf)
	// A record of 1013 bytes forces a straddle across the first block.
	payload := bytes.Repeat([]byte{'B'}, 1013)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, 0, buf.Len()%blocking.BlockSize)
}

func TestWriterTwoThousandByteRecord(t *testing.T) {
	var buf bytes.Buffer
	w := blocking.NewWriter(&buf)
	payload := bytes.Repeat([]byte{'C'}, 2000)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, 0, buf.Len()%blocking.BlockSize)

	r := blocking.NewReader(&buf)
	out := make([]byte, 2000)
	n, err := readFull(r, out)
	require.NoError(t, err)
	assert.Equal(t, 2000, n)
	assert.Equal(t, payload, out)
}

func readFull(r *blocking.Reader, p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := r.Read(p[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

func TestUnblock1014RejectsBadSize(t *testing.T) {
	src := bytes.NewReader(make([]byte, blocking.BlockSize+1))
	var dst bytes.Buffer
	err := blocking.Unblock1014(&dst, src)
	require.Error(t, err)
	var sizeErr blocking.SizeError
	require.ErrorAs(t, err, &sizeErr)
}

func TestUnblock1014RejectsBadLineEnding(t *testing.T) {
	block := make([]byte, blocking.BlockSize)
	block[blocking.BlockSize-1] = 'x'
	src := bytes.NewReader(block)
	var dst bytes.Buffer
	err := blocking.Unblock1014(&dst, src)
	require.Error(t, err)
	var lineErr blocking.LineEndingError
	require.ErrorAs(t, err, &lineErr)
}

func TestBlockUnblockRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 0, 4000).Draw(t, "payload")

		var blocked bytes.Buffer
		require.NoError(t, blocking.Block1014(&blocked, bytes.NewReader(payload)))
		assert.Equal(t, 0, blocked.Len()%blocking.BlockSize)

		var unblocked bytes.Buffer
		require.NoError(t, blocking.Unblock1014(&unblocked, bytes.NewReader(blocked.Bytes())))

		// Unblocking always returns a multiple-of-PayloadSize buffer; the
		// original payload is a prefix of it (the remainder is 0x40 pad
		// that block_1014 itself introduced).
		require.True(t, unblocked.Len() >= len(payload))
		assert.Equal(t, payload, unblocked.Bytes()[:len(payload)])
	})
}
