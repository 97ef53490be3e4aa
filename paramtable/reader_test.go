package paramtable

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardutil/cardutil/cuerr"
	"github.com/cardutil/cardutil/textcodec"
	"github.com/cardutil/cardutil/vbs"
)

// layoutRecord builds a minimal layout record carrying the indexMarker at
// [11:19], an 8-character table id at [19:27], and a 3-character sub-id at
// [243:246] (spec.md §4.6).
func layoutRecord(subID, tableID string) []byte {
	buf := bytes.Repeat([]byte(" "), layoutSubIDEnd)
	copy(buf[indexMarkerStart:indexMarkerEnd], indexMarker)
	copy(buf[layoutTableIDStart:layoutTableIDEnd], tableID)
	copy(buf[layoutSubIDStart:layoutSubIDEnd], subID)
	return buf
}

func dataRecord(subID, payload string) []byte {
	return []byte("DATDATDA" + subID + payload)
}

func buildTestStream(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	vw := vbs.NewWriter(&buf)

	require.NoError(t, vw.WriteRecord(layoutRecord("AAA", "TABLE001")))
	require.NoError(t, vw.WriteRecord([]byte(trailerMarker)))
	require.NoError(t, vw.WriteRecord(dataRecord("AAA", "HELLOWORLD")))
	require.NoError(t, vw.Close())
	return buf.Bytes()
}

func testConfig() Config {
	return Config{
		"TABLE001": TableFields{
			"FIELDONE": {Start: 11, End: 16},
			"FIELDTWO": {Start: 16, End: 21},
		},
	}
}

func TestReaderTwoPhaseExtract(t *testing.T) {
	stream := buildTestStream(t)
	codec := textcodec.MustGet(textcodec.ASCII)

	r := NewReader(bytes.NewReader(stream), codec, testConfig())
	idx, err := r.Index()
	require.NoError(t, err)
	assert.Equal(t, "TABLE001", idx["AAA"])

	records, err := ToSlice(r)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "HELLO", records[0]["FIELDONE"])
	assert.Equal(t, "WORLD", records[0]["FIELDTWO"])
}

func TestExtractRecordUnknownSubID(t *testing.T) {
	codec := textcodec.MustGet(textcodec.ASCII)
	idx := Index{"AAA": "TABLE001"}

	_, err := ExtractRecord(dataRecord("ZZZ", "HELLOWORLD"), idx, testConfig(), codec)
	require.Error(t, err)
}

func TestExtractRecordUnknownTableID(t *testing.T) {
	codec := textcodec.MustGet(textcodec.ASCII)
	idx := Index{"AAA": "NOCONFIG"}

	_, err := ExtractRecord(dataRecord("AAA", "HELLOWORLD"), idx, testConfig(), codec)
	require.Error(t, err)
}

func TestBuildIndexStopsAtTrailer(t *testing.T) {
	codec := textcodec.MustGet(textcodec.ASCII)
	records := [][]byte{
		layoutRecord("AAA", "TABLE001"),
		[]byte(trailerMarker),
		[]byte("should not be consumed"),
	}
	idx, consumed, err := BuildIndex(records, codec)
	require.NoError(t, err)
	assert.Equal(t, 2, consumed)
	assert.Equal(t, "TABLE001", idx["AAA"])
}

func TestBuildIndexMissingTrailerFails(t *testing.T) {
	codec := textcodec.MustGet(textcodec.ASCII)
	records := [][]byte{
		layoutRecord("AAA", "TABLE001"),
	}
	_, _, err := BuildIndex(records, codec)
	require.Error(t, err)
	var de *cuerr.DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, cuerr.KindParameter, de.Kind)
}

func TestReaderIndexMissingTrailerFails(t *testing.T) {
	var buf bytes.Buffer
	vw := vbs.NewWriter(&buf)
	require.NoError(t, vw.WriteRecord(layoutRecord("AAA", "TABLE001")))
	require.NoError(t, vw.Close())

	codec := textcodec.MustGet(textcodec.ASCII)
	r := NewReader(bytes.NewReader(buf.Bytes()), codec, testConfig())
	_, err := r.Index()
	require.Error(t, err)
	var de *cuerr.DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, cuerr.KindParameter, de.Kind)
}
