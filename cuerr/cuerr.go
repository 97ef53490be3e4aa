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

// Package cuerr holds the error kinds shared by the stream and codec layers
// (vbs, iso8583, ipm, paramtable), plus the forensic context (record
// number, raw bytes) attached to data errors. The bitmap and blocking
// packages return their own error types instead.
package cuerr

import (
	"fmt"
)

// Kind classifies a failure per the error taxonomy of the clearing-file
// codec. It never replaces a concrete error type's own Error() string; it
// lets callers triage with a switch instead of string matching.
type Kind int

const (
	// KindFraming covers bad record lengths, short reads and bad 1014
	// block terminators.
	KindFraming Kind = iota
	// KindEncoding covers bytes that fail to decode under the configured
	// text encoding.
	KindEncoding
	// KindStructural covers bitmap/length mismatches and missing bit
	// config entries.
	KindStructural
	// KindTypeCoercion covers a field that cannot be interpreted as its
	// configured native type.
	KindTypeCoercion
	// KindTLV covers incomplete ICC tag/length data.
	KindTLV
	// KindParameter covers parameter-table extract failures.
	KindParameter
)

func (k Kind) String() string {
	switch k {
	case KindFraming:
		return "framing"
	case KindEncoding:
		return "encoding"
	case KindStructural:
		return "structural"
	case KindTypeCoercion:
		return "type-coercion"
	case KindTLV:
		return "tlv"
	case KindParameter:
		return "parameter"
	default:
		return "unknown"
	}
}

// DataError is the error surfaced to callers of the streaming readers. It
// always carries a human-readable message and optionally a 1-based record
// number and a binary context buffer suitable for a hex dump, matching the
// "Error surfacing" contract of the clearing-file format.
type DataError struct {
	Kind    Kind
	Message string
	// Record is the 1-based record number the failure occurred on. Zero
	// means "not applicable" (e.g. a pure codec call with no stream).
	Record int
	// Context is the raw bytes most relevant to the failure: the previous
	// complete record, the short read buffer, or the full message, per
	// the call site.
	Context []byte
	// Err is the originating lower-level error, if any. Never dropped.
	Err error
}

func (e *DataError) Error() string {
	msg := fmt.Sprintf("cardutil: %s: %s", e.Kind, e.Message)
	if e.Record > 0 {
		msg = fmt.Sprintf("%s (record %d)", msg, e.Record)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// New builds a DataError with no record number or context.
func New(kind Kind, message string) *DataError {
	return &DataError{Kind: kind, Message: message}
}

// Wrap builds a DataError around a lower-level error.
func Wrap(kind Kind, message string, err error) *DataError {
	return &DataError{Kind: kind, Message: message, Err: err}
}

// WithRecord returns a copy of the error annotated with a record number.
func (e *DataError) WithRecord(record int) *DataError {
	cp := *e
	cp.Record = record
	return &cp
}

// WithContext returns a copy of the error annotated with binary context.
func (e *DataError) WithContext(context []byte) *DataError {
	cp := *e
	cp.Context = append([]byte(nil), context...)
	return &cp
}
