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

// Package ipm composes the vbs framing layer, the optional 1014 mainframe
// blocking layer, and the iso8583 codec into a reader/writer pair over a
// whole Mastercard IPM clearing file, the way the teacher's Obfs4Conn
// composes its framing and packet layers over a net.Conn (spec.md §4.5).
package ipm

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/cardutil/cardutil/blocking"
	"github.com/cardutil/cardutil/cuerr"
	"github.com/cardutil/cardutil/iso8583"
	"github.com/cardutil/cardutil/textcodec"
	"github.com/cardutil/cardutil/vbs"
)

var ipmLog = log.NewWithOptions(io.Discard, log.Options{Prefix: "ipm"})

// SetLogOutput redirects the package logger.
func SetLogOutput(w io.Writer) {
	ipmLog.SetOutput(w)
}

// Options configures how an IPM stream is framed and how its messages are
// coded.
type Options struct {
	Config    iso8583.BitConfig
	Codec     textcodec.Codec
	HexBitmap bool
	// Blocked wraps the stream in 1014-byte mainframe blocking (spec.md
	// §4.5's "blocked" transport variant) before the VBS layer.
	Blocked bool
}

func (o Options) codecOptions() iso8583.Options {
	return iso8583.Options{HexBitmap: o.HexBitmap}
}

// Reader reads successive ISO 8583 records from a Mastercard IPM stream.
type Reader struct {
	vr        *vbs.Reader
	opts      Options
	recordNum int
}

// NewReader returns a Reader over r, using opts for wire framing and field
// coding.
func NewReader(r io.Reader, opts Options) *Reader {
	src := r
	if opts.Blocked {
		src = blocking.NewReader(r)
	}
	return &Reader{vr: vbs.NewReader(src), opts: opts}
}

// RecordCount returns the number of records successfully read so far.
func (r *Reader) RecordCount() int {
	return r.recordNum
}

// ReadRecord reads and decodes the next message. It returns io.EOF when the
// stream is exhausted.
func (r *Reader) ReadRecord() (iso8583.Record, error) {
	raw, err := r.vr.ReadRecord()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	r.recordNum++

	ipmLog.Debug("decoding record", "record", r.recordNum, "length", len(raw))
	rec, err := iso8583.Decode(raw, r.opts.Config, r.opts.Codec, r.opts.codecOptions())
	if err != nil {
		if de, ok := err.(*cuerr.DataError); ok {
			return nil, de.WithRecord(r.recordNum)
		}
		return nil, cuerr.Wrap(cuerr.KindStructural, "failed to decode record", err).WithRecord(r.recordNum)
	}
	return rec, nil
}

// Writer encodes and writes successive ISO 8583 records to a Mastercard IPM
// stream.
type Writer struct {
	bw        *blocking.Writer // nil unless Options.Blocked
	vw        *vbs.Writer
	opts      Options
	recordNum int
}

// NewWriter returns a Writer over w, using opts for wire framing and field
// coding. When opts.Blocked is set, every byte the VBS layer writes is
// passed through the 1014-byte mainframe blocking layer first.
func NewWriter(w io.Writer, opts Options) *Writer {
	dst := w
	var bw *blocking.Writer
	if opts.Blocked {
		bw = blocking.NewWriter(w)
		dst = bw
	}
	return &Writer{bw: bw, vw: vbs.NewWriter(dst), opts: opts}
}

// WriteRecord encodes r and writes it as the next VBS record.
func (w *Writer) WriteRecord(r iso8583.Record) error {
	w.recordNum++
	encoded, err := iso8583.Encode(r, w.opts.Config, w.opts.Codec, w.opts.codecOptions())
	if err != nil {
		if de, ok := err.(*cuerr.DataError); ok {
			return de.WithRecord(w.recordNum)
		}
		return cuerr.Wrap(cuerr.KindStructural, "failed to encode record", err).WithRecord(w.recordNum)
	}
	return w.vw.WriteRecord(encoded)
}

// Close writes the VBS end-of-stream sentinel and, if the stream is
// 1014-blocked, pads the final physical block.
func (w *Writer) Close() error {
	if err := w.vw.Close(); err != nil {
		return err
	}
	if w.bw != nil {
		return w.bw.Close()
	}
	return nil
}

// ToSlice reads every record of r into a slice, stopping at io.EOF.
func ToSlice(r *Reader) ([]iso8583.Record, error) {
	var out []iso8583.Record
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
