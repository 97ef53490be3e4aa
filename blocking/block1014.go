/*
 * Copyright (c) 2026, The cardutil Authors.
 * All rights reserved.
 *
 * Redistribution and use in source and binary forms, with or without
 * modification, are permitted provided that the following conditions are met:
 *
 *  * Redistributions of source code must retain the above copyright notice,
 *    this list of conditions and the following disclaimer.
 *
 *  * Redistributions in binary form must reproduce the above copyright notice,
 *    this list of conditions and the following disclaimer in the documentation
 *    and/or other materials provided with the distribution.
 *
 * THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
 * AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
 * IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
 * ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
 * LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
 * CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
 * SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
 * INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
 * CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
 * ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
 * POSSIBILITY OF SUCH DAMAGE.
 */

// Package blocking implements the 1014-byte mainframe blocking layer: 1012
// bytes of payload followed by two 0x40 pad bytes, repeated so the total
// file length is always a multiple of 1014.
package blocking

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

const (
	// BlockSize is the full physical block size on the wire.
	BlockSize = 1014
	// PayloadSize is the usable payload per block; the remaining two
	// bytes of every block are the 0x40 pad.
	PayloadSize = 1012
	padByte     = 0x40
)

var blockingLog = log.NewWithOptions(io.Discard, log.Options{Prefix: "blocking"})

// SetLogOutput redirects the package logger; tests and callers that want
// the teacher's verbose LOGGER.debug trail can point it at os.Stderr.
func SetLogOutput(w io.Writer) {
	blockingLog.SetOutput(w)
}

// SizeError is returned by the strict whole-file variant when the input
// length is not a multiple of BlockSize.
type SizeError int

func (e SizeError) Error() string {
	return fmt.Sprintf("blocking: invalid file size: %d bytes is not a multiple of %d", int(e), BlockSize)
}

// LineEndingError is returned by the strict whole-file variant when a block
// does not end with two 0x40 pad bytes.
type LineEndingError int

func (e LineEndingError) Error() string {
	return fmt.Sprintf("blocking: invalid 1014 block line ending at block %d", int(e))
}

// Writer wraps an io.Writer, holding the wrapped capability directly (no
// attribute-forwarding proxy) and emitting 1014-byte physical blocks as the
// caller submits bytes of any size.
type Writer struct {
	w         io.Writer
	remaining int
}

// NewWriter returns a Writer that blocks data written to w into 1014-byte
// physical records.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, remaining: PayloadSize}
}

// Write implements io.Writer. It never returns n < len(p) on a nil error.
func (bw *Writer) Write(p []byte) (int, error) {
	total := len(p)
	for len(p) > 0 {
		if len(p) < bw.remaining {
			n, err := bw.w.Write(p)
			bw.remaining -= n
			if err != nil {
				return total - len(p) + n, err
			}
			return total, nil
		}

		chunk := p[:bw.remaining]
		if _, err := bw.w.Write(chunk); err != nil {
			return total - len(p), err
		}
		if _, err := bw.w.Write([]byte{padByte, padByte}); err != nil {
			return total - len(p) + len(chunk), err
		}
		blockingLog.Debug("wrote full block", "payload", len(chunk))

		p = p[bw.remaining:]
		bw.remaining = PayloadSize
	}
	return total, nil
}

// Close finalises the current block by padding it out to BlockSize with
// 0x40 and resetting the internal counter, guaranteeing the total length
// written is a multiple of BlockSize. If the wrapped writer is also an
// io.Closer, its Close is NOT called: the 1014 layer owns only the
// padding, not the lifetime of the underlying sink (mirrors VbsWriter's
// "close seeks to zero" contract one layer up).
func (bw *Writer) Close() error {
	pad := make([]byte, bw.remaining+2)
	for i := range pad {
		pad[i] = padByte
	}
	if _, err := bw.w.Write(pad); err != nil {
		return err
	}
	bw.remaining = PayloadSize
	return nil
}

// Reader wraps an io.Reader, presenting the 1012 usable payload bytes of
// each underlying 1014-byte physical block as a contiguous byte stream.
// The trailing two pad bytes of every block are discarded without
// validation; use Unblock for the strict whole-file variant.
type Reader struct {
	r      io.Reader
	buffer []byte
}

// NewReader returns a Reader that unblocks 1014-byte physical records read
// from r into a contiguous VBS-ready byte stream.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Read implements io.Reader, fetching whole 1014-byte blocks from the
// underlying source as needed to satisfy the request.
func (br *Reader) Read(p []byte) (int, error) {
	for len(br.buffer) <= len(p) {
		var block [BlockSize]byte
		n, err := io.ReadFull(br.r, block[:])
		if n == 0 {
			break
		}
		if n < BlockSize {
			// A short final physical block with no sentinel: keep the
			// usable prefix actually read rather than failing, matching
			// the streaming (non-strict) unblock contract.
			usable := n - 2
			if usable < 0 {
				usable = 0
			} else if usable > PayloadSize {
				usable = PayloadSize
			}
			br.buffer = append(br.buffer, block[:usable]...)
			break
		}
		br.buffer = append(br.buffer, block[:PayloadSize]...)
		if err != nil {
			break
		}
	}

	if len(br.buffer) == 0 {
		return 0, io.EOF
	}
	n := copy(p, br.buffer)
	br.buffer = br.buffer[n:]
	return n, nil
}

// Block1014 reads all of src, pads it to a multiple of PayloadSize bytes
// and writes it to dst as 1014-byte physical blocks. It is the strict,
// whole-file counterpart to Writer for callers who already have the full
// VBS stream in memory or in a seekable temp file.
func Block1014(dst io.Writer, src io.Reader) error {
	w := NewWriter(dst)
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return w.Close()
}

// Unblock1014 reads all of src as whole 1014-byte physical blocks and
// writes the 1012-byte payload of each to dst, rejecting (unlike Reader) a
// file whose length is not a multiple of BlockSize or whose blocks do not
// end in two 0x40 pad bytes.
func Unblock1014(dst io.Writer, src io.Reader) error {
	blockNum := 0
	for {
		var block [BlockSize]byte
		n, err := io.ReadFull(src, block[:])
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			return SizeError(blockNum*BlockSize + n)
		}
		if err != nil {
			return err
		}
		blockNum++

		if block[BlockSize-1] != padByte || block[BlockSize-2] != padByte {
			return LineEndingError(blockNum)
		}
		if _, err := dst.Write(block[:PayloadSize]); err != nil {
			return err
		}
	}
	return nil
}
