package ipm

import (
	"io"

	"github.com/cardutil/cardutil/blocking"
	"github.com/cardutil/cardutil/textcodec"
	"github.com/cardutil/cardutil/vbs"
)

// TranscodeOptions controls TranscodeFile's framing on each side of the
// conversion; the two sides may differ (e.g. un-blocking a mainframe file
// while re-encoding it).
type TranscodeOptions struct {
	SourceBlocked      bool
	DestinationBlocked bool
}

// TranscodeFile rewrites an IPM file's records from one text encoding to
// another without decoding the ISO 8583 structure: each VBS record's raw
// bytes are decoded under from and re-encoded under to, byte for byte. This
// works because every character a clearing file carries - field content,
// decimal length prefixes, the MTI - lives in the configured text encoding,
// so a straight recode reproduces the same message under the new encoding
// (grounded on the source tool's change_encoding, which performs the same
// byte-level re-encode without an ISO 8583 bit config).
func TranscodeFile(dst io.Writer, src io.Reader, from, to textcodec.Codec, opts TranscodeOptions) error {
	srcStream := src
	if opts.SourceBlocked {
		srcStream = blocking.NewReader(src)
	}

	dstStream := dst
	var bw *blocking.Writer
	if opts.DestinationBlocked {
		bw = blocking.NewWriter(dst)
		dstStream = bw
	}

	vr := vbs.NewReader(srcStream)
	vw := vbs.NewWriter(dstStream)

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

	if err := vw.Close(); err != nil {
		return err
	}
	if bw != nil {
		return bw.Close()
	}
	return nil
}
