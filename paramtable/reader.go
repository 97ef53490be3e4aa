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

// Package paramtable reads a Mastercard parameter table file: a VBS stream
// that opens with layout records (each mapping a 3-character sub-id to an
// 8-character table id, ended by a trailer record) and is immediately
// followed by the data records those layouts describe (spec.md §4.6). The
// byte ranges of each table's named fields are not read from the stream;
// they come from an externally supplied Config. Reading one requires two
// passes: build the layout index first, then resolve each data record's
// table id through it and project the record's named fields.
package paramtable

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/cardutil/cardutil/cuerr"
	"github.com/cardutil/cardutil/textcodec"
	"github.com/cardutil/cardutil/vbs"
)

var paramLog = log.NewWithOptions(io.Discard, log.Options{Prefix: "paramtable"})

// SetLogOutput redirects the package logger.
func SetLogOutput(w io.Writer) {
	paramLog.SetOutput(w)
}

const (
	indexMarkerStart, indexMarkerEnd = 11, 19
	indexMarker                      = "IP0000T1"
	trailerMarker                    = "TRAILER RECORD IP0000T1"

	// Layout record: the 8-character table id and 3-character sub-id the
	// marker at [11:19] introduces (spec.md §4.6).
	layoutTableIDStart, layoutTableIDEnd = 19, 27
	layoutSubIDStart, layoutSubIDEnd     = 243, 246

	// Data record: the 3-character sub-id resolved through the index to
	// find the record's table id (spec.md §4.6).
	dataSubIDStart, dataSubIDEnd = 8, 11
)

// Index maps the 3-character sub-id carried by a layout record to the
// 8-character table id it describes.
type Index map[string]string

// FieldRange is one named byte range within a data record, using the same
// zero-based, end-exclusive slice convention as mci_parameter_tables
// (_examples/original_source/cardutil/config.py:176-210, e.g. IP0006T1's
// table_id at {"start":8,"end":11} matching the data record sub-id bytes
// [8:11] of spec.md §4.6).
type FieldRange struct {
	Start int
	End   int // exclusive
}

// TableFields maps a field name to its byte range for one table id.
type TableFields map[string]FieldRange

// Config is the externally supplied mci_parameter_tables configuration
// (spec.md §6 "Configuration surface"): table id -> field name -> byte
// range. ExtractRecord cannot project any field without it.
type Config map[string]TableFields

// BuildIndex scans records (already VBS-unframed) for layout records -
// identified by the indexMarker at bytes [11:19] - mapping each one's
// sub-id (bytes [243:246]) to its table id (bytes [19:27]), stopping at the
// trailer sentinel. It returns the index plus the number of records it
// consumed, so the caller can resume data-record extraction from there. If
// the trailer is never observed, it fails with a cuerr.KindParameter error
// (spec.md §4.6, §7 error kind 6).
func BuildIndex(records [][]byte, codec textcodec.Codec) (Index, int, error) {
	idx := make(Index)
	for i, raw := range records {
		text, err := codec.Decode(raw)
		if err != nil {
			return nil, 0, cuerr.Wrap(cuerr.KindEncoding, "failed to decode parameter layout record", err).WithRecord(i + 1)
		}

		if len(text) >= indexMarkerEnd && text[indexMarkerStart:indexMarkerEnd] == indexMarker {
			subID, tableID, err := parseLayoutRecord(text)
			if err != nil {
				return nil, 0, cuerr.Wrap(cuerr.KindParameter, "malformed layout record", err).WithRecord(i + 1)
			}
			idx[subID] = tableID
			paramLog.Debug("layout record", "record", i+1, "sub-id", subID, "table", tableID)
			continue
		}
		if len(text) >= len(trailerMarker) && text[:len(trailerMarker)] == trailerMarker {
			return idx, i + 1, nil
		}
		return nil, 0, cuerr.New(cuerr.KindParameter, "parameter extract file missing IP0000T1 trailer").WithRecord(i + 1)
	}
	return nil, 0, cuerr.New(cuerr.KindParameter, "parameter extract file missing IP0000T1 trailer").WithRecord(len(records))
}

// parseLayoutRecord decodes one layout record's sub-id and table id.
func parseLayoutRecord(text string) (subID, tableID string, err error) {
	if len(text) < layoutSubIDEnd {
		return "", "", fmt.Errorf("paramtable: layout record shorter than %d bytes", layoutSubIDEnd)
	}
	return text[layoutSubIDStart:layoutSubIDEnd], text[layoutTableIDStart:layoutTableIDEnd], nil
}

// ExtractRecord resolves record's sub-id (bytes [8:11]) to a table id
// through idx, then projects that table's fields out of record using the
// byte ranges cfg supplies (spec.md §4.6).
func ExtractRecord(record []byte, idx Index, cfg Config, codec textcodec.Codec) (map[string]string, error) {
	if len(record) < dataSubIDEnd {
		return nil, cuerr.New(cuerr.KindParameter, "record too short to carry a sub-id").WithContext(record)
	}
	text, err := codec.Decode(record)
	if err != nil {
		return nil, cuerr.Wrap(cuerr.KindEncoding, "failed to decode parameter data record", err).WithContext(record)
	}

	subID := text[dataSubIDStart:dataSubIDEnd]
	tableID, ok := idx[subID]
	if !ok {
		return nil, cuerr.New(cuerr.KindParameter, fmt.Sprintf("no table registered for sub-id %q", subID)).WithContext(record)
	}
	fields, ok := cfg[tableID]
	if !ok {
		return nil, cuerr.New(cuerr.KindParameter, fmt.Sprintf("no field configuration supplied for table %q", tableID)).WithContext(record)
	}

	out := make(map[string]string, len(fields))
	for name, rng := range fields {
		if rng.End > len(text) {
			return nil, cuerr.New(cuerr.KindParameter,
				fmt.Sprintf("field %q [%d:%d] runs past end of %d-byte record", name, rng.Start, rng.End, len(text))).
				WithContext(record)
		}
		out[name] = text[rng.Start:rng.End]
	}
	return out, nil
}

// Reader drives the two-phase read over a whole parameter table VBS
// stream: the first ReadRecord calls build the index transparently; once
// built, every subsequent record is projected through ExtractRecord.
type Reader struct {
	vr      *vbs.Reader
	codec   textcodec.Codec
	cfg     Config
	idx     Index
	ready   bool
	pending []byte // one data record read ahead while building the index
}

// NewReader returns a Reader over r using codec for every layout and data
// record's text encoding, and cfg (the externally supplied
// mci_parameter_tables configuration) to project each data record's named
// fields.
func NewReader(r io.Reader, codec textcodec.Codec, cfg Config) *Reader {
	return &Reader{vr: vbs.NewReader(r), codec: codec, cfg: cfg}
}

// Index returns the layout index, building it from the stream's leading
// layout records on first call.
func (r *Reader) Index() (Index, error) {
	if r.ready {
		return r.idx, nil
	}

	var layoutRecords [][]byte
	for {
		raw, err := r.vr.ReadRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		text, decErr := r.codec.Decode(raw)
		if decErr != nil {
			return nil, cuerr.Wrap(cuerr.KindEncoding, "failed to decode parameter layout record", decErr)
		}
		isLayout := len(text) >= indexMarkerEnd && text[indexMarkerStart:indexMarkerEnd] == indexMarker
		isTrailer := len(text) >= len(trailerMarker) && text[:len(trailerMarker)] == trailerMarker
		if !isLayout && !isTrailer {
			r.pending = raw
			break
		}
		layoutRecords = append(layoutRecords, raw)
		if isTrailer {
			break
		}
	}

	idx, _, err := BuildIndex(layoutRecords, r.codec)
	if err != nil {
		return nil, err
	}
	r.idx = idx
	r.ready = true
	return r.idx, nil
}

// ReadRecord returns the next data record's named fields, building the
// layout index from the stream's leading records on first call.
func (r *Reader) ReadRecord() (map[string]string, error) {
	idx, err := r.Index()
	if err != nil {
		return nil, err
	}

	var raw []byte
	if r.pending != nil {
		raw, r.pending = r.pending, nil
	} else {
		raw, err = r.vr.ReadRecord()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
	}

	return ExtractRecord(raw, idx, r.cfg, r.codec)
}

// ToSlice reads every data record into a slice, stopping at io.EOF.
func ToSlice(r *Reader) ([]map[string]string, error) {
	var out []map[string]string
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
