package ipm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardutil/cardutil/cuerr"
	"github.com/cardutil/cardutil/iso8583"
	"github.com/cardutil/cardutil/textcodec"
)

func testOptions() Options {
	return Options{
		Config: iso8583.BitConfig{
			"2": {Name: "PAN", Type: iso8583.LLVAR, Length: 19, Processor: iso8583.PAN},
			"3": {Name: "Processing code", Type: iso8583.Fixed, Length: 6},
		},
		Codec: textcodec.MustGet(textcodec.ASCII),
	}
}

func TestWriteThenReadUnblocked(t *testing.T) {
	opts := testOptions()
	var buf bytes.Buffer

	w := NewWriter(&buf, opts)
	require.NoError(t, w.WriteRecord(iso8583.Record{"MTI": "1144", "DE3": "123456"}))
	require.NoError(t, w.WriteRecord(iso8583.Record{"MTI": "1240", "DE3": "654321"}))
	require.NoError(t, w.Close())

	r := NewReader(&buf, opts)
	records, err := ToSlice(r)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1144", records[0]["MTI"])
	assert.Equal(t, "1240", records[1]["MTI"])
	assert.Equal(t, 2, r.RecordCount())
}

func TestWriteThenReadBlocked(t *testing.T) {
	opts := testOptions()
	opts.Blocked = true
	var buf bytes.Buffer

	w := NewWriter(&buf, opts)
	require.NoError(t, w.WriteRecord(iso8583.Record{"MTI": "1144", "DE3": "123456"}))
	require.NoError(t, w.Close())

	assert.Zero(t, buf.Len()%1014)

	r := NewReader(&buf, opts)
	records, err := ToSlice(r)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1144", records[0]["MTI"])
}

func TestReadRecordErrorCarriesRecordNumber(t *testing.T) {
	opts := testOptions()
	var buf bytes.Buffer

	w := NewWriter(&buf, opts)
	require.NoError(t, w.WriteRecord(iso8583.Record{"MTI": "1144", "DE3": "123456"}))
	require.NoError(t, w.WriteRecord(iso8583.Record{"MTI": "1240", "DE3": "654321"}))
	require.NoError(t, w.Close())

	// Corrupt the second record's MTI to force a decode failure after one
	// good record, and verify record numbering. Record 1 is a 4-byte
	// header plus 26 bytes (MTI 4, bitmap 16, DE3 6), so record 2's MTI
	// starts at offset 34.
	raw := buf.Bytes()
	raw[34] = 0x80 // not ASCII

	r := NewReader(bytes.NewReader(raw), opts)
	_, err := r.ReadRecord()
	require.NoError(t, err)
	_, err = r.ReadRecord()
	require.Error(t, err)
	var de *cuerr.DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 2, de.Record)
}

func TestTranscodeFile(t *testing.T) {
	opts := testOptions()
	var original bytes.Buffer
	w := NewWriter(&original, opts)
	require.NoError(t, w.WriteRecord(iso8583.Record{"MTI": "1144", "DE3": "123456"}))
	require.NoError(t, w.Close())

	var transcoded bytes.Buffer
	err := TranscodeFile(&transcoded, bytes.NewReader(original.Bytes()),
		textcodec.MustGet(textcodec.ASCII), textcodec.MustGet(textcodec.Latin1), TranscodeOptions{})
	require.NoError(t, err)

	r := NewReader(&transcoded, opts)
	records, err := ToSlice(r)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1144", records[0]["MTI"])
}
