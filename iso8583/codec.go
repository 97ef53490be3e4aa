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

package iso8583

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cardutil/cardutil/bitmap"
	"github.com/cardutil/cardutil/cuerr"
	"github.com/cardutil/cardutil/textcodec"
)

var codecLog = log.NewWithOptions(io.Discard, log.Options{Prefix: "iso8583"})

// SetLogOutput redirects the package logger.
func SetLogOutput(w io.Writer) {
	codecLog.SetOutput(w)
}

const minBit, maxBit = 2, 127

// Options controls the encoding-level knob the wire format exposes.
type Options struct {
	// HexBitmap writes/reads the 16-byte bitmap as 32 hex-encoded text
	// bytes instead of binary (spec.md §6).
	HexBitmap bool
}

// Encode converts r into an ISO 8583 message under cfg, per spec.md §4.4
// "Encode (dict -> bytes)".
func Encode(r Record, cfg BitConfig, codec textcodec.Codec, opts Options) ([]byte, error) {
	working := make(map[int]any, len(r))
	for key, v := range r {
		if !strings.HasPrefix(key, "DE") {
			continue
		}
		n, err := strconv.Atoi(key[2:])
		if err != nil {
			continue
		}
		working[n] = v
	}

	if err := injectPDSFragments(r, cfg, working); err != nil {
		return nil, err
	}

	bitmapValues := make([]bool, bitmap.Length)
	bitmapValues[0] = true // bit 1: presence of secondary bitmap region

	var payload []byte
	for bit := minBit; bit <= maxBit; bit++ {
		value, ok := working[bit]
		if !ok {
			continue
		}
		codecLog.Debug("encoding field", "bit", bit)

		fc, err := cfg.Lookup(bit)
		if err != nil {
			return nil, cuerr.Wrap(cuerr.KindStructural, fmt.Sprintf("no bit config for DE%d", bit), err)
		}
		encoded, err := encodeField(value, fc, codec)
		if err != nil {
			return nil, cuerr.Wrap(cuerr.KindTypeCoercion, fmt.Sprintf("failed to encode DE%d", bit), err)
		}
		bitmapValues[bit-1] = true
		payload = append(payload, encoded...)
	}

	binaryBitmap, err := bitmap.FromList(bitmapValues)
	if err != nil {
		return nil, err
	}

	var bitmapBytes []byte
	if opts.HexBitmap {
		hexStr := strings.ToLower(hex.EncodeToString(binaryBitmap))
		encoded, err := codec.Encode(hexStr)
		if err != nil {
			return nil, cuerr.Wrap(cuerr.KindEncoding, "failed to encode hex bitmap", err)
		}
		bitmapBytes = encoded
	} else {
		bitmapBytes = binaryBitmap
	}

	mti, _ := r["MTI"].(string)
	mtiBytes, err := codec.Encode(mti)
	if err != nil {
		return nil, cuerr.Wrap(cuerr.KindEncoding, "failed to encode MTI", err)
	}

	out := make([]byte, 0, len(mtiBytes)+len(bitmapBytes)+len(payload))
	out = append(out, mtiBytes...)
	out = append(out, bitmapBytes...)
	out = append(out, payload...)
	return out, nil
}

// injectPDSFragments assembles the record's PDS<xxxx> keys into fragments
// (spec.md §4.4 step 2) and assigns them, in order, to the PDS-processor
// bit slots declared in cfg, ascending by bit number.
func injectPDSFragments(r Record, cfg BitConfig, working map[int]any) error {
	fragments := FragmentPDS(r)
	if len(fragments) == 1 && fragments[0] == "" {
		return nil // no PDS keys present
	}

	slots := cfg.PDSBits()
	if len(fragments) > len(slots) {
		return fmt.Errorf("iso8583: %d PDS fragments but only %d PDS-processor bit slots configured", len(fragments), len(slots))
	}
	for i, fragment := range fragments {
		working[slots[i]] = fragment
	}
	return nil
}

func encodeField(value any, fc FieldConfig, codec textcodec.Codec) ([]byte, error) {
	raw, binary := value.([]byte)
	var valueBytes []byte
	if binary {
		valueBytes = raw
	} else {
		s, err := toWireString(value, fc)
		if err != nil {
			return nil, err
		}
		valueBytes, err = codec.Encode(s)
		if err != nil {
			return nil, err
		}
	}

	lengthSize := fc.Type.LengthPrefixSize()
	if lengthSize > 0 {
		lengthDigits, err := codec.Encode(zeroPad(strconv.Itoa(len(valueBytes)), lengthSize))
		if err != nil {
			return nil, err
		}
		return append(lengthDigits, valueBytes...), nil
	}

	// FIXED: exactly fc.Length bytes, left-justified space-padded (text
	// fields only; binary fields are taken verbatim).
	if binary {
		return valueBytes, nil
	}
	if len(valueBytes) > fc.Length {
		valueBytes = valueBytes[:fc.Length]
	} else if len(valueBytes) < fc.Length {
		pad, err := codec.Encode(strings.Repeat(" ", fc.Length-len(valueBytes)))
		if err != nil {
			return nil, err
		}
		valueBytes = append(valueBytes, pad...)
	}
	return valueBytes, nil
}

// Decode parses an ISO 8583 message into a Record under cfg, per spec.md
// §4.4 "Decode (bytes -> dict)".
func Decode(message []byte, cfg BitConfig, codec textcodec.Codec, opts Options) (Record, error) {
	bitmapSize := bitmap.ByteLength
	if opts.HexBitmap {
		bitmapSize = bitmap.ByteLength * 2
	}
	if len(message) < 4+bitmapSize {
		return nil, cuerr.New(cuerr.KindStructural, "message shorter than MTI+bitmap").WithContext(message)
	}

	mtiBytes := message[:4]
	bitmapRaw := message[4 : 4+bitmapSize]
	remainder := message[4+bitmapSize:]

	mti, err := codec.Decode(mtiBytes)
	if err != nil {
		return nil, cuerr.Wrap(cuerr.KindEncoding, "failed to decode MTI", err).WithContext(message)
	}

	var binaryBitmap []byte
	if opts.HexBitmap {
		hexStr, err := codec.Decode(bitmapRaw)
		if err != nil {
			return nil, cuerr.Wrap(cuerr.KindEncoding, "failed to decode hex bitmap", err).WithContext(message)
		}
		binaryBitmap, err = hex.DecodeString(hexStr)
		if err != nil {
			return nil, cuerr.Wrap(cuerr.KindStructural, "invalid hex bitmap", err).WithContext(message)
		}
	} else {
		binaryBitmap = bitmapRaw
	}

	bits, err := bitmap.ToList(binaryBitmap)
	if err != nil {
		return nil, cuerr.Wrap(cuerr.KindStructural, "invalid bitmap", err).WithContext(message)
	}

	result := make(Record)
	result["MTI"] = mti

	pos := 0
	for bit := minBit; bit <= maxBit; bit++ {
		if !bits[bit-1] {
			continue
		}
		codecLog.Debug("decoding field", "bit", bit)

		fc, err := cfg.Lookup(bit)
		if err != nil {
			return nil, cuerr.Wrap(cuerr.KindStructural, fmt.Sprintf("no bit config for DE%d", bit), err).WithContext(message)
		}

		fields, consumed, err := decodeField(bit, fc, remainder[pos:], codec)
		if err != nil {
			return nil, wrapFieldErr(err, bit, message)
		}
		for k, v := range fields {
			result[k] = v
		}
		pos += consumed
	}

	if pos != len(remainder) {
		return nil, cuerr.New(cuerr.KindStructural,
			fmt.Sprintf("message data not correct length: bitmap indicates len=%d, message is len=%d", pos, len(remainder))).
			WithContext(remainder)
	}

	return result, nil
}

func wrapFieldErr(err error, bit int, message []byte) error {
	if de, ok := err.(*cuerr.DataError); ok {
		return de.WithContext(message)
	}
	return cuerr.Wrap(cuerr.KindStructural, fmt.Sprintf("failed to decode DE%d", bit), err).WithContext(message)
}

func decodeField(bit int, fc FieldConfig, data []byte, codec textcodec.Codec) (Record, int, error) {
	lengthSize := fc.Type.LengthPrefixSize()
	fieldLength := fc.Length

	if lengthSize > 0 {
		if len(data) < lengthSize {
			return nil, 0, cuerr.New(cuerr.KindStructural, fmt.Sprintf("DE%d: not enough bytes for length prefix", bit))
		}
		lengthStr, err := codec.Decode(data[:lengthSize])
		if err != nil {
			return nil, 0, cuerr.Wrap(cuerr.KindEncoding, fmt.Sprintf("DE%d: failed to decode length prefix", bit), err)
		}
		fieldLength, err = strconv.Atoi(lengthStr)
		if err != nil {
			return nil, 0, cuerr.Wrap(cuerr.KindStructural, fmt.Sprintf("DE%d: invalid length prefix %q", bit, lengthStr), err)
		}
	}

	if lengthSize+fieldLength > len(data) {
		return nil, 0, cuerr.New(cuerr.KindStructural, fmt.Sprintf("DE%d: field runs past end of message", bit))
	}
	raw := data[lengthSize : lengthSize+fieldLength]

	out := make(Record)
	var fieldValue any

	if fc.Processor == ICC {
		fieldValue = append([]byte(nil), raw...)
	} else {
		s, err := codec.Decode(raw)
		if err != nil {
			return nil, 0, cuerr.Wrap(cuerr.KindEncoding, fmt.Sprintf("DE%d: failed to decode value", bit), err)
		}
		fieldValue = s
	}

	switch fc.Processor {
	case PAN:
		fieldValue = MaskPAN(fieldValue.(string))
	case PANPrefix:
		fieldValue = MaskPANPrefix(fieldValue.(string))
	}

	typed, err := coerceDecoded(fieldValue, fc)
	if err != nil {
		return nil, 0, cuerr.Wrap(cuerr.KindTypeCoercion, fmt.Sprintf("DE%d", bit), err)
	}
	out[DEKey(bit)] = typed

	switch fc.Processor {
	case PDS:
		pds, err := ParsePDS(fieldValue.(string))
		if err != nil {
			return nil, 0, cuerr.Wrap(cuerr.KindStructural, fmt.Sprintf("DE%d: PDS parse failed", bit), err)
		}
		for k, v := range pds {
			out[k] = v
		}
	case DE43:
		fields, err := ParseDE43(fieldValue.(string), fc.ProcessorConfig)
		if err != nil {
			return nil, 0, err
		}
		for k, v := range fields {
			out[k] = v
		}
	case ICC:
		icc, err := ParseICC(fieldValue.([]byte), fc.iccOnError())
		if err != nil {
			return nil, 0, cuerr.Wrap(cuerr.KindTLV, fmt.Sprintf("DE%d: ICC parse failed", bit), err)
		}
		for k, v := range icc {
			out[k] = v
		}
	}

	return out, lengthSize + fieldLength, nil
}

// coerceDecoded applies typed coercion to the already-processed field
// value (spec.md §4.4 "apply typed coercion to native value"). Processors
// other than ICC always hand this a string; ICC hands it raw bytes, which
// never carries a PythonType other than the default.
func coerceDecoded(value any, fc FieldConfig) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	return fromWireString(s, fc)
}
