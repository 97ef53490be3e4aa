package iso8583

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDE43DefaultPattern(t *testing.T) {
	field := `BOBS BURGERS\100 MAIN ST\WOOLLOONGABBA\4102      QLDAUS`
	out, err := ParseDE43(field, "")
	require.NoError(t, err)
	assert.Equal(t, "BOBS BURGERS", out["DE43_NAME"])
	assert.Equal(t, "100 MAIN ST", out["DE43_ADDRESS"])
	assert.Equal(t, "WOOLLOONGABBA", out["DE43_SUBURB"])
	assert.Equal(t, "4102", out["DE43_POSTCODE"])
	assert.Equal(t, "QLD", out["DE43_STATE"])
	assert.Equal(t, "AUS", out["DE43_COUNTRY"])
}

func TestParseDE43NoMatchReturnsEmptyRecord(t *testing.T) {
	out, err := ParseDE43("short", "")
	require.NoError(t, err)
	assert.Empty(t, out)
}
