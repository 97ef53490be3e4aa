package cuerr

import (
	"fmt"
	"strings"
)

// HexDump renders b as a classic 16-bytes-per-line hex dump with an ASCII
// gutter, for attaching to forensic error messages. It has no dependency on
// the record/stream types above so other packages can reuse it freely.
func HexDump(b []byte) string {
	var sb strings.Builder
	for offset := 0; offset < len(b); offset += 16 {
		end := offset + 16
		if end > len(b) {
			end = len(b)
		}
		line := b[offset:end]

		fmt.Fprintf(&sb, "%08x  ", offset)
		for i := 0; i < 16; i++ {
			if i < len(line) {
				fmt.Fprintf(&sb, "%02x ", line[i])
			} else {
				sb.WriteString("   ")
			}
			if i == 7 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(" |")
		for _, c := range line {
			if c >= 0x20 && c < 0x7f {
				sb.WriteByte(c)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("|\n")
	}
	return sb.String()
}
