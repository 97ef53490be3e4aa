package iso8583

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ParseICC decodes the raw bytes of an ICC/DE55-style field into
// "TAG<hex>" entries plus "ICC_DATA" (spec.md §4.4 "ICC TLV sub-parsing").
// Tags whose first byte is 0x9F or 0x5F span two bytes; a zero byte
// terminates parsing. onError selects what happens when a tag or length
// runs past the end of the buffer.
func ParseICC(raw []byte, onError ICCOnError) (Record, error) {
	out := Record{
		"ICC_DATA": strings.ToLower(hex.EncodeToString(raw)),
	}

	pos := 0
	for pos < len(raw) {
		if raw[pos] == 0x00 {
			break
		}

		tagStart := pos
		tagLen := 1
		if raw[pos] == 0x9F || raw[pos] == 0x5F {
			tagLen = 2
		}
		if pos+tagLen > len(raw) {
			return iccTruncated(out, onError, "tag")
		}
		tag := raw[tagStart : tagStart+tagLen]
		pos += tagLen

		if pos+1 > len(raw) {
			return iccTruncated(out, onError, "length")
		}
		length := int(raw[pos])
		pos++

		if pos+length > len(raw) {
			return iccTruncated(out, onError, "value")
		}
		value := raw[pos : pos+length]
		pos += length

		out[TagKey(strings.ToUpper(hex.EncodeToString(tag)))] = strings.ToLower(hex.EncodeToString(value))
	}
	return out, nil
}

func iccTruncated(partial Record, onError ICCOnError, what string) (Record, error) {
	if onError == ICCWarn {
		return partial, nil
	}
	return partial, fmt.Errorf("iso8583: ICC TLV truncated at %s", what)
}
