package iso8583

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// toWireString applies FieldConfig's typed coercion ahead of encoding: an
// int/long/decimal native value becomes a zero-padded decimal string, a
// datetime becomes its formatted string, and anything else (including
// plain strings) passes through unchanged (spec.md §4.4 "Field encoding").
func toWireString(value any, fc FieldConfig) (string, error) {
	switch fc.PythonType {
	case IntType, LongType:
		n, err := toInt64(value)
		if err != nil {
			return "", err
		}
		return zeroPad(strconv.FormatInt(n, 10), fc.Length), nil
	case DecimalType:
		d, err := toDecimal(value)
		if err != nil {
			return "", err
		}
		return d.ZeroPadded(fc.Length), nil
	case DateTimeType:
		t, err := toTime(value)
		if err != nil {
			return "", err
		}
		f, err := strftime.New(fc.dateFormat())
		if err != nil {
			return "", err
		}
		return f.FormatString(t), nil
	default:
		return fmt.Sprint(value), nil
	}
}

func zeroPad(s string, width int) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for len(s) < width {
		s = "0" + s
	}
	if neg {
		return "-" + s
	}
	return s
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("iso8583: cannot coerce %T to int", value)
	}
}

func toDecimal(value any) (Decimal, error) {
	switch v := value.(type) {
	case Decimal:
		return v, nil
	case string:
		return NewDecimalFromString(v)
	default:
		return Decimal{}, fmt.Errorf("iso8583: cannot coerce %T to decimal", value)
	}
}

func toTime(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		return parseDateTimeFallback(v)
	default:
		return time.Time{}, fmt.Errorf("iso8583: cannot coerce %T to datetime", value)
	}
}

// parseDateTimeFallback implements spec.md §4.4's "Date parsing fallback":
// the pack carries no flexible natural-language date parser, so this goes
// straight to ISO-format parsing and reports a value error on failure.
func parseDateTimeFallback(s string) (time.Time, error) {
	layouts := []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"}
	var firstErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("iso8583: %q is not a recognised date/time: %w", s, firstErr)
}

// fromWireString applies typed coercion after decoding: the raw decoded
// field string is parsed into the native type FieldConfig.PythonType
// names.
func fromWireString(s string, fc FieldConfig) (any, error) {
	switch fc.PythonType {
	case IntType, LongType:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("iso8583: %q is not a valid int: %w", s, err)
		}
		return n, nil
	case DecimalType:
		d, err := NewDecimalFromString(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("iso8583: %q is not a valid decimal: %w", s, err)
		}
		return d, nil
	case DateTimeType:
		t, err := parseDateTimeWithFormat(s, fc.dateFormat())
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return s, nil
	}
}

func parseDateTimeWithFormat(s, pattern string) (time.Time, error) {
	// strftime only formats; Go has no strftime *parser*, so translate
	// the handful of directives the bit config actually uses into a Go
	// reference-time layout, mirroring strptime's behaviour for the
	// common case (spec.md default "%y%m%d" and its HHMMSS extension).
	layout := strftimeToGoLayout(pattern)
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("iso8583: %q does not match date format %q: %w", s, pattern, err)
	}
	return t, nil
}

func strftimeToGoLayout(pattern string) string {
	replacer := strings.NewReplacer(
		"%Y", "2006",
		"%y", "06",
		"%m", "01",
		"%d", "02",
		"%H", "15",
		"%M", "04",
		"%S", "05",
	)
	return replacer.Replace(pattern)
}
