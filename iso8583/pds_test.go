package iso8583

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFragmentPDSSingleTag(t *testing.T) {
	r := Record{"PDS0001": "abc"}
	fragments := FragmentPDS(r)
	require.Len(t, fragments, 1)
	assert.Equal(t, "0001003abc", fragments[0])
}

func TestFragmentPDSSortsAscending(t *testing.T) {
	r := Record{"PDS0099": "b", "PDS0001": "a"}
	fragments := FragmentPDS(r)
	require.Len(t, fragments, 1)
	assert.Equal(t, "0001001a0099001b", fragments[0])
}

func TestFragmentPDSSplitsOnOverflow(t *testing.T) {
	r := Record{
		"PDS0001": strings.Repeat("a", 900),
		"PDS9999": strings.Repeat("b", 900),
	}
	fragments := FragmentPDS(r)
	require.Len(t, fragments, 2)
	assert.LessOrEqual(t, len(fragments[0]), maxPDSFragmentLength)
	assert.LessOrEqual(t, len(fragments[1]), maxPDSFragmentLength)
}

func TestParsePDSRoundTrip(t *testing.T) {
	r := Record{"PDS0001": "abc", "PDS9999": "xyz"}
	fragments := FragmentPDS(r)
	require.Len(t, fragments, 1)

	parsed, err := ParsePDS(fragments[0])
	require.NoError(t, err)
	assert.Equal(t, "abc", parsed["PDS0001"])
	assert.Equal(t, "xyz", parsed["PDS9999"])
}

func TestParsePDSTruncated(t *testing.T) {
	_, err := ParsePDS("000100")
	require.Error(t, err)
}
