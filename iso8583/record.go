package iso8583

import "fmt"

// Record is the field dictionary a message decodes to and encodes from.
// Values are Go's native tagged union: a type switch over string, int64,
// Decimal, time.Time and []byte realises spec.md §9's "Dynamic typing ->
// tagged union" design note without a hand-rolled sum type — Go's
// interface{} already dispatches exhaustively via type switch, which is
// what that note is really asking for.
//
// Reserved keys: "MTI", "DE<n>" (n in 2..127), "PDS<xxxx>", "TAG<hex>",
// "ICC_DATA", "DE43_NAME", "DE43_ADDRESS", "DE43_SUBURB", "DE43_POSTCODE",
// "DE43_STATE", "DE43_COUNTRY".
type Record map[string]any

// DEKey returns the reserved key for data element n.
func DEKey(n int) string {
	return fmt.Sprintf("DE%d", n)
}

// PDSKey returns the reserved key for PDS tag n, zero-padded to 4 digits.
func PDSKey(tag int) string {
	return fmt.Sprintf("PDS%04d", tag)
}

// TagKey returns the reserved key for an ICC tag given its hex id (already
// upper-cased, 2 or 4 hex digits).
func TagKey(hexTag string) string {
	return "TAG" + hexTag
}
