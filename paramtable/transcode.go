package paramtable

import (
	"io"

	"github.com/cardutil/cardutil/textcodec"
	"github.com/cardutil/cardutil/vbs"
)

// TranscodeFile re-encodes a parameter table file from one text encoding
// to another, record for record, without interpreting the layout/data
// record distinction (grounded on the source tool's change_param_encoding,
// the parameter-table counterpart of ipm.TranscodeFile).
func TranscodeFile(dst io.Writer, src io.Reader, from, to textcodec.Codec) error {
	vr := vbs.NewReader(src)
	vw := vbs.NewWriter(dst)

	for {
		raw, err := vr.ReadRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		s, err := from.Decode(raw)
		if err != nil {
			return err
		}
		recoded, err := to.Encode(s)
		if err != nil {
			return err
		}
		if err := vw.WriteRecord(recoded); err != nil {
			return err
		}
	}
	return vw.Close()
}
