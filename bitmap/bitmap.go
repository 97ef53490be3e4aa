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

// Package bitmap converts between a 16-byte ISO 8583 bitmap and a 128
// element boolean sequence, most-significant-bit first within each byte.
package bitmap

import "fmt"

// Length is the number of bits in a primary+secondary ISO 8583 bitmap.
const Length = 128

// ByteLength is the wire size of a binary bitmap.
const ByteLength = Length / 8

// InvalidSizeError is returned when a caller supplies a bitmap that is not
// exactly ByteLength bytes long.
type InvalidSizeError int

func (e InvalidSizeError) Error() string {
	return fmt.Sprintf("bitmap: invalid size: %d bytes, want %d", int(e), ByteLength)
}

// ToList unpacks a 16-byte bitmap into a 128-element boolean slice. Bit 0 of
// the result corresponds to bit 1 of the ISO 8583 message (bitmap indicator),
// and so on through bit 127 (DE 128). ToList is total: every ByteLength-byte
// input maps to a unique 128-element output.
func ToList(b []byte) ([]bool, error) {
	if len(b) != ByteLength {
		return nil, InvalidSizeError(len(b))
	}

	out := make([]bool, Length)
	for byteIdx, octet := range b {
		for bitIdx := 0; bitIdx < 8; bitIdx++ {
			// Most significant bit first within the byte.
			mask := byte(1) << (7 - bitIdx)
			out[byteIdx*8+bitIdx] = octet&mask != 0
		}
	}
	return out, nil
}

// FromList packs a 128-element boolean slice back into a 16-byte bitmap.
// FromList(ToList(b)) == b for any valid b.
func FromList(bits []bool) ([]byte, error) {
	if len(bits) != Length {
		return nil, fmt.Errorf("bitmap: invalid list length: %d, want %d", len(bits), Length)
	}

	out := make([]byte, ByteLength)
	for i, set := range bits {
		if !set {
			continue
		}
		byteIdx := i / 8
		bitIdx := i % 8
		out[byteIdx] |= byte(1) << (7 - bitIdx)
	}
	return out, nil
}
