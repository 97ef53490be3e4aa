package iso8583

import (
	"regexp"
	"strings"
)

// DefaultDE43Pattern is the Card Acceptor Name/Location regex documented
// by spec.md §4.4/§8 example 6: name, address and suburb are free-text
// sub-fields separated by a literal backslash, followed by a fixed-width
// postcode/state/country block. It is only a default: FieldConfig.
// ProcessorConfig may supply a different regex, as long as it exposes the
// same named groups (spec.md §9 Open Questions).
const DefaultDE43Pattern = `(?P<DE43_NAME>.+?) *\\(?P<DE43_ADDRESS>.+?) *\\(?P<DE43_SUBURB>.+?) *\\` +
	`(?P<DE43_POSTCODE>.{10})(?P<DE43_STATE>.{3})(?P<DE43_COUNTRY>.{3})`

// ParseDE43 splits a merchant name/location field into its named groups
// using pattern (DefaultDE43Pattern if empty). Unlike the other
// processors, a non-match is not an error: spec.md's worked behaviour is
// to return no groups when the field doesn't conform.
func ParseDE43(field, pattern string) (Record, error) {
	if pattern == "" {
		pattern = DefaultDE43Pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	match := re.FindStringSubmatch(field)
	if match == nil {
		return Record{}, nil
	}

	out := make(Record, len(re.SubexpNames()))
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		value := match[i]
		if name == "DE43_POSTCODE" {
			value = strings.TrimRight(value, " ")
		}
		out[name] = value
	}
	return out, nil
}
