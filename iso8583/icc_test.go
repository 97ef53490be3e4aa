package iso8583

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseICCSimpleTag(t *testing.T) {
	raw := []byte{0x01, 0x01, 0xff}
	out, err := ParseICC(raw, ICCWarn)
	require.NoError(t, err)
	assert.Equal(t, "0101ff", out["ICC_DATA"])
	assert.Equal(t, "ff", out["TAG01"])
}

func TestParseICCTwoByteTag(t *testing.T) {
	raw := []byte{0x9F, 0x02, 0x02, 0x00, 0x01}
	out, err := ParseICC(raw, ICCWarn)
	require.NoError(t, err)
	assert.Equal(t, "0001", out["TAG9F02"])
}

func TestParseICCStopsAtZeroByte(t *testing.T) {
	raw := []byte{0x01, 0x01, 0xff, 0x00, 0x02, 0x01, 0xaa}
	out, err := ParseICC(raw, ICCWarn)
	require.NoError(t, err)
	assert.Equal(t, "ff", out["TAG01"])
	_, hasSecond := out["TAG02"]
	assert.False(t, hasSecond)
}

func TestParseICCTruncatedWarnsByDefault(t *testing.T) {
	raw := []byte{0x01, 0x05, 0xff} // declares 5 bytes of value, only 1 present
	out, err := ParseICC(raw, FieldConfig{Processor: ICC}.iccOnError())
	require.NoError(t, err)
	assert.NotEmpty(t, out["ICC_DATA"])
}

func TestParseICCTruncatedErrorsWhenConfigured(t *testing.T) {
	raw := []byte{0x01, 0x05, 0xff}
	_, err := ParseICC(raw, ICCError)
	require.Error(t, err)
}
