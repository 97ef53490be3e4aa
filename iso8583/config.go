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

// Package iso8583 encodes and decodes ISO 8583 financial messages driven by
// a bitmap and a bit-number-keyed field dictionary ("bit config"), with the
// Mastercard-specific sub-field processors (PAN masking, PDS fragment
// assembly, ICC/TLV, DE43 merchant-address decomposition) described in
// spec.md §4.4.
package iso8583

import (
	"fmt"
	"sort"
)

// FieldType is the wire representation of a data element: a fixed-length
// field, or a field prefixed with a 2- or 3-digit decimal length.
type FieldType string

const (
	Fixed FieldType = "FIXED"
	LLVAR FieldType = "LLVAR"
	LLLVAR FieldType = "LLLVAR"
)

// LengthPrefixSize returns the number of decimal digits used as the length
// prefix for the field type (0 for Fixed).
func (t FieldType) LengthPrefixSize() int {
	switch t {
	case LLVAR:
		return 2
	case LLLVAR:
		return 3
	default:
		return 0
	}
}

// Processor names a scheme-specific sub-field post-processor applied after
// a field's raw value is read off the wire.
type Processor string

const (
	// NoProcessor means the field is a plain typed value.
	NoProcessor Processor = ""
	PAN         Processor = "PAN"
	PANPrefix   Processor = "PAN-PREFIX"
	PDS         Processor = "PDS"
	ICC         Processor = "ICC"
	DE43        Processor = "DE43"
)

// PythonType names the native value type a field decodes to, matching the
// bit-config vocabulary of the source tool this package's wire format is
// compatible with.
type PythonType string

const (
	StringType   PythonType = "string"
	IntType      PythonType = "int"
	LongType     PythonType = "long"
	DecimalType  PythonType = "decimal"
	DateTimeType PythonType = "datetime"
)

// DefaultDateFormat is applied when a FieldConfig of DateTimeType does not
// set DateFormat.
const DefaultDateFormat = "%y%m%d"

// ICCOnError selects the ICC/TLV sub-parser's behaviour on an incomplete
// tag or length, configured via FieldConfig.ProcessorConfig as
// "on_error=WARN" or "on_error=ERROR".
type ICCOnError string

const (
	// ICCWarn stops TLV parsing, keeps whatever tags were already
	// collected, and keeps ICC_DATA. This is the default, matching the
	// backward-compatible behaviour spec.md §9 calls out.
	ICCWarn ICCOnError = "WARN"
	// ICCError surfaces a TLV data error instead.
	ICCError ICCOnError = "ERROR"
)

// FieldConfig describes one bit number's wire encoding.
type FieldConfig struct {
	// Name documents the field; it has no effect on encoding/decoding.
	Name string
	Type FieldType
	// Length is the fixed field width for Type==Fixed, or a soft
	// maximum for the variable types (0 means unlimited).
	Length          int
	Processor       Processor
	ProcessorConfig string
	PythonType      PythonType
	// DateFormat is a strftime pattern; DefaultDateFormat is used when
	// empty and PythonType==DateTimeType.
	DateFormat string
}

func (c FieldConfig) dateFormat() string {
	if c.DateFormat != "" {
		return c.DateFormat
	}
	return DefaultDateFormat
}

// iccOnError parses ProcessorConfig ("on_error=WARN"/"on_error=ERROR") and
// defaults to ICCWarn, per spec.md §9's backward-compatibility note.
func (c FieldConfig) iccOnError() ICCOnError {
	const prefix = "on_error="
	cfg := c.ProcessorConfig
	if len(cfg) > len(prefix) && cfg[:len(prefix)] == prefix {
		switch ICCOnError(cfg[len(prefix):]) {
		case ICCError:
			return ICCError
		case ICCWarn:
			return ICCWarn
		}
	}
	return ICCWarn
}

// BitConfig maps a bit number, as a decimal string "2".."127", to its
// field configuration. It is plain, read-only data: load it once and
// reuse it across every Encode/Decode call and every Reader/Writer built
// on top of this package.
type BitConfig map[string]FieldConfig

// Lookup fetches the config for bit n, returning a structural error if
// absent.
func (c BitConfig) Lookup(bit int) (FieldConfig, error) {
	fc, ok := c[fmt.Sprintf("%d", bit)]
	if !ok {
		return FieldConfig{}, fmt.Errorf("iso8583: no bit config for DE%d", bit)
	}
	return fc, nil
}

// PDSBits returns the bit numbers, ascending, whose FieldConfig has the
// PDS processor. Encode uses this order to assign synthesized PDS
// fragments to DE slots (spec.md §4.4 step 2).
func (c BitConfig) PDSBits() []int {
	var bits []int
	for key, fc := range c {
		if fc.Processor != PDS {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(key, "%d", &n); err != nil {
			continue
		}
		bits = append(bits, n)
	}
	sort.Ints(bits)
	return bits
}
