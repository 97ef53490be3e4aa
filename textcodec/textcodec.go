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

// Package textcodec implements the three text encodings the clearing-file
// contract supports: cp500 (EBCDIC), latin-1 and ascii. Binary-typed fields
// bypass this package entirely.
package textcodec

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// Name identifies one of the three contractual text encodings.
type Name string

const (
	CP500  Name = "cp500"
	Latin1 Name = "latin-1"
	ASCII  Name = "ascii"
)

// DecodeError is returned when bytes do not decode under the configured
// encoding (a field value, MTI, or length prefix). Encode also returns it,
// with the UTF-8 bytes of the input string, when a string does not encode.
type DecodeError struct {
	Encoding Name
	Bytes    []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("textcodec: %q does not decode under %s", e.Bytes, e.Encoding)
}

// Codec encodes/decodes byte strings under one contractual encoding.
type Codec interface {
	Name() Name
	Encode(s string) ([]byte, error)
	Decode(b []byte) (string, error)
}

// Get returns the Codec for the named encoding, or an error if unknown.
func Get(name Name) (Codec, error) {
	switch name {
	case CP500:
		return cp500Codec{}, nil
	case Latin1:
		return charmapCodec{name: Latin1, enc: charmap.ISO8859_1}, nil
	case ASCII, "":
		return asciiCodec{}, nil
	default:
		return nil, fmt.Errorf("textcodec: unknown encoding %q", name)
	}
}

// MustGet is like Get but panics on an unknown encoding; used for
// configuration built from a compile-time-known constant.
func MustGet(name Name) Codec {
	c, err := Get(name)
	if err != nil {
		panic(err)
	}
	return c
}

// charmapCodec adapts golang.org/x/text/encoding/charmap to Codec.
type charmapCodec struct {
	name Name
	enc  *charmap.Charmap
}

func (c charmapCodec) Name() Name { return c.name }

func (c charmapCodec) Encode(s string) ([]byte, error) {
	out, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, &DecodeError{Encoding: c.name, Bytes: []byte(s)}
	}
	return out, nil
}

func (c charmapCodec) Decode(b []byte) (string, error) {
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", &DecodeError{Encoding: c.name, Bytes: b}
	}
	return string(out), nil
}

// asciiCodec implements strict 7-bit ASCII, matching Python's 'ascii' codec:
// any byte >= 0x80 fails to decode/encode.
type asciiCodec struct{}

func (asciiCodec) Name() Name { return ASCII }

func (asciiCodec) Encode(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0x7f {
			return nil, &DecodeError{Encoding: ASCII, Bytes: []byte(s)}
		}
		out = append(out, byte(r))
	}
	return out, nil
}

func (asciiCodec) Decode(b []byte) (string, error) {
	for _, c := range b {
		if c > 0x7f {
			return "", &DecodeError{Encoding: ASCII, Bytes: b}
		}
	}
	return string(b), nil
}
