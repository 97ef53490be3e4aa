package iso8583

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/cardutil/cardutil/textcodec"
)

// TestEncodeDecodeRoundTrip checks the law from spec.md §8: encoding a
// record then decoding the result reproduces every field that survives
// the PAN/PAN-PREFIX masking processors unchanged (fields without a
// lossy processor round-trip exactly).
func TestEncodeDecodeRoundTrip(t *testing.T) {
	cfg := testBitConfig()
	codec := textcodec.MustGet(textcodec.ASCII)

	rapid.Check(t, func(rt *rapid.T) {
		mti := rapid.StringMatching(`[0-9]{4}`).Draw(rt, "mti")
		processingCode := rapid.StringMatching(`[0-9]{6}`).Draw(rt, "processingCode")

		r := Record{
			"MTI": mti,
			"DE3": processingCode,
		}

		encoded, err := Encode(r, cfg, codec, Options{})
		if err != nil {
			rt.Fatalf("Encode: %v", err)
		}
		decoded, err := Decode(encoded, cfg, codec, Options{})
		if err != nil {
			rt.Fatalf("Decode: %v", err)
		}
		if decoded["MTI"] != mti {
			rt.Fatalf("MTI round-trip: got %v, want %v", decoded["MTI"], mti)
		}
		if decoded["DE3"] != processingCode {
			rt.Fatalf("DE3 round-trip: got %v, want %v", decoded["DE3"], processingCode)
		}
	})
}

// TestPDSFragmentRoundTrip checks the PDS fragmentation/reassembly law
// independent of the bitmap layer.
func TestPDSFragmentRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		value := rapid.StringMatching(`[a-zA-Z0-9]{1,50}`).Draw(rt, "value")
		r := Record{"PDS0042": value}

		fragments := FragmentPDS(r)
		for _, fragment := range fragments {
			parsed, err := ParsePDS(fragment)
			if err != nil {
				rt.Fatalf("ParsePDS: %v", err)
			}
			if got, ok := parsed["PDS0042"]; ok && got != value {
				rt.Fatalf("PDS round-trip: got %v, want %v", got, value)
			}
		}
	})
}
