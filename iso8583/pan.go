package iso8583

import "strings"

// MaskPAN masks a decoded PAN field value to first6 + '*'*(len-10) + last4,
// per spec.md §4.4's PAN processor.
func MaskPAN(pan string) string {
	if len(pan) < 10 {
		// Too short to have a distinct first-6/last-4; nothing safe to
		// reveal beyond what's already there.
		return strings.Repeat("*", len(pan))
	}
	stars := strings.Repeat("*", len(pan)-10)
	return pan[:6] + stars + pan[len(pan)-4:]
}

// MaskPANPrefix truncates a PAN to its first 9 characters, per the
// PAN-PREFIX processor.
func MaskPANPrefix(pan string) string {
	if len(pan) <= 9 {
		return pan
	}
	return pan[:9]
}
