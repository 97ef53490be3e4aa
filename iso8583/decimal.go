package iso8583

import (
	"fmt"
	"math/big"
	"strings"
)

// Decimal is a fixed-point decimal value, used for PythonType==DecimalType
// fields. No decimal library appears anywhere in the example pack (see
// DESIGN.md), so this wraps math/big.Int with an explicit scale instead of
// carrying float64 rounding error through a monetary amount.
type Decimal struct {
	unscaled *big.Int
	scale    int
}

// NewDecimalFromString parses a string such as "123.45" or "-7" into a
// Decimal.
func NewDecimalFromString(s string) (Decimal, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	digits := intPart + fracPart
	if digits == "" {
		return Decimal{}, fmt.Errorf("iso8583: invalid decimal %q", s)
	}
	unscaled, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Decimal{}, fmt.Errorf("iso8583: invalid decimal %q", s)
	}
	if neg {
		unscaled.Neg(unscaled)
	}
	scale := 0
	if hasFrac {
		scale = len(fracPart)
	}
	return Decimal{unscaled: unscaled, scale: scale}, nil
}

// String renders the decimal with its fixed scale, e.g. "123.45".
func (d Decimal) String() string {
	if d.unscaled == nil {
		return "0"
	}
	s := new(big.Int).Abs(d.unscaled).String()
	for len(s) <= d.scale {
		s = "0" + s
	}
	sign := ""
	if d.unscaled.Sign() < 0 {
		sign = "-"
	}
	if d.scale == 0 {
		return sign + s
	}
	cut := len(s) - d.scale
	return sign + s[:cut] + "." + s[cut:]
}

// ZeroPadded left-pads String() with zeros (after any sign) to width
// characters, matching the source tool's "format(decimal_value, '0<len>')"
// typed-coercion rule for encoding a decimal field.
func (d Decimal) ZeroPadded(width int) string {
	s := d.String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	for len(sign)+len(s) < width {
		s = "0" + s
	}
	return sign + s
}
