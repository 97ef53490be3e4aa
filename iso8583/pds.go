package iso8583

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const maxPDSFragmentLength = 999

// FragmentPDS collects every "PDS<xxxx>" key in r, sorted ascending by
// numeric tag, and assembles them into one or more fragment strings of the
// wire form "<tag:04d><len:03d><value>" concatenated together, starting a
// new fragment whenever the next tag would push a fragment over 999
// characters (spec.md §4.4 step 2, §3 PDS fragmentation invariant).
func FragmentPDS(r Record) []string {
	type tagValue struct {
		tag   int
		value string
	}
	var tagged []tagValue
	for key, v := range r {
		if !strings.HasPrefix(key, "PDS") {
			continue
		}
		tag, err := strconv.Atoi(key[3:])
		if err != nil {
			continue
		}
		tagged = append(tagged, tagValue{tag: tag, value: fmt.Sprint(v)})
	}
	sort.Slice(tagged, func(i, j int) bool { return tagged[i].tag < tagged[j].tag })

	var fragments []string
	var current strings.Builder
	for _, tv := range tagged {
		entry := fmt.Sprintf("%04d%03d%s", tv.tag, len(tv.value), tv.value)
		if current.Len()+len(entry) > maxPDSFragmentLength && current.Len() > 0 {
			fragments = append(fragments, current.String())
			current.Reset()
		}
		current.WriteString(entry)
	}
	fragments = append(fragments, current.String())
	return fragments
}

// ParsePDS decodes one already-decoded PDS field string into "PDS<tag>"
// entries (spec.md §4.4 "PDS sub-parsing"): tag(4) + len(3) + value(len),
// repeated until the string is exhausted.
func ParsePDS(field string) (Record, error) {
	out := make(Record)
	pos := 0
	for pos < len(field) {
		if pos+7 > len(field) {
			return nil, fmt.Errorf("iso8583: truncated PDS fragment at offset %d", pos)
		}
		tag := field[pos : pos+4]
		length, err := strconv.Atoi(field[pos+4 : pos+7])
		if err != nil {
			return nil, fmt.Errorf("iso8583: invalid PDS length at offset %d: %w", pos, err)
		}
		if pos+7+length > len(field) {
			return nil, fmt.Errorf("iso8583: PDS value runs past end of field at offset %d", pos)
		}
		out["PDS"+tag] = field[pos+7 : pos+7+length]
		pos += 7 + length
	}
	return out, nil
}
