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

// Package vbs implements the Variable Blocked Stream record framing used
// to carry ISO 8583 messages: each record is a 4-byte big-endian unsigned
// length followed by that many bytes, terminated by a zero-length
// sentinel.
//
// The wire format is:
//
//	uint32_t length (big endian)
//	uint8_t[length] payload
//	... repeated, terminated by a single uint32_t zero.
package vbs

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/cardutil/cardutil/cuerr"
)

// MaxRecordLength is the largest record length this package will accept
// from the wire before treating it as framing corruption. Scheme files
// never carry a message anywhere near this size.
const MaxRecordLength = 3000

var vbsLog = log.NewWithOptions(io.Discard, log.Options{Prefix: "vbs"})

// SetLogOutput redirects the package logger.
func SetLogOutput(w io.Writer) {
	vbsLog.SetOutput(w)
}

// Writer emits VBS-framed records to an underlying io.Writer.
type Writer struct {
	w io.Writer
}

// NewWriter returns a Writer that frames records written to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteRecord emits one length-prefixed record.
func (vw *Writer) WriteRecord(record []byte) error {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(record)))
	if _, err := vw.w.Write(header[:]); err != nil {
		return err
	}
	if len(record) == 0 {
		return nil
	}
	_, err := vw.w.Write(record)
	return err
}

// Close writes the zero-length sentinel that marks end-of-stream. If the
// wrapped writer also implements io.Seeker, Close seeks it back to
// position 0, matching the scoped-acquisition contract of the teacher's
// Obfs4Conn (finalise, then make the stream ready for the next stage to
// consume from the top).
func (vw *Writer) Close() error {
	var zero [4]byte
	if _, err := vw.w.Write(zero[:]); err != nil {
		return err
	}
	if seeker, ok := vw.w.(io.Seeker); ok {
		_, err := seeker.Seek(0, io.SeekStart)
		return err
	}
	return nil
}

// Reader iterates VBS records from an underlying io.Reader. A Reader is
// not safe for concurrent use; spec.md §5 requires none.
type Reader struct {
	r           io.Reader
	recordCount int
	lastRecord  []byte
}

// NewReader returns a Reader over r. Compose r with blocking.NewReader
// first to read a 1014-blocked file.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// RecordCount returns the number of records successfully read so far.
func (vr *Reader) RecordCount() int {
	return vr.recordCount
}

// LastRecord returns the raw bytes (4-byte header + payload) of the last
// record successfully read, for forensic diagnostics on a subsequent
// failure.
func (vr *Reader) LastRecord() []byte {
	return vr.lastRecord
}

// ReadRecord reads and returns the next record's payload. It returns
// io.EOF when the stream is exhausted, tolerating a missing zero-length
// sentinel: if fewer than 4 header bytes are available, iteration ends
// cleanly rather than failing.
func (vr *Reader) ReadRecord() ([]byte, error) {
	var header [4]byte
	_, err := io.ReadFull(vr.r, header[:])
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		// Fewer than 4 header bytes available: tolerate a missing
		// sentinel and end iteration cleanly.
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}

	length := int32(binary.BigEndian.Uint32(header[:]))
	vbsLog.Debug("record header", "length", length, "record", vr.recordCount+1)

	if length < 0 || length > MaxRecordLength {
		return nil, cuerr.New(cuerr.KindFraming,
			fmt.Sprintf("invalid record length %d", length)).
			WithRecord(vr.recordCount + 1).
			WithContext(vr.lastRecord)
	}
	if length == 0 {
		return nil, io.EOF
	}

	payload := make([]byte, length)
	read, err := io.ReadFull(vr.r, payload)
	if err != nil {
		return nil, cuerr.New(cuerr.KindFraming,
			fmt.Sprintf("short read: wanted %d bytes, got %d", length, read)).
			WithRecord(vr.recordCount + 1).
			WithContext(append(append([]byte(nil), header[:]...), payload[:read]...))
	}

	vr.recordCount++
	vr.lastRecord = append(append([]byte(nil), header[:]...), payload...)
	return payload, nil
}

// ToSlice reads every record of r into a slice, stopping at io.EOF.
func ToSlice(r *Reader) ([][]byte, error) {
	var out [][]byte
	for {
		rec, err := r.ReadRecord()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// FromSlice writes every record in records to w, including the final
// sentinel, matching spec.md §8's "vbs_list_to_bytes" law.
func FromSlice(w io.Writer, records [][]byte) error {
	vw := NewWriter(w)
	for _, rec := range records {
		if err := vw.WriteRecord(rec); err != nil {
			return err
		}
	}
	return vw.Close()
}
