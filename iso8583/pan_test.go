package iso8583

import "testing"

func TestMaskPAN(t *testing.T) {
	got := MaskPAN("4564320012321122")
	want := "456432******1122"
	if got != want {
		t.Errorf("MaskPAN() = %q, want %q", got, want)
	}
}

func TestMaskPANShortValue(t *testing.T) {
	got := MaskPAN("12345")
	want := "*****"
	if got != want {
		t.Errorf("MaskPAN() = %q, want %q", got, want)
	}
}

func TestMaskPANPrefix(t *testing.T) {
	got := MaskPANPrefix("4564320012321122")
	want := "456432001"
	if got != want {
		t.Errorf("MaskPANPrefix() = %q, want %q", got, want)
	}
}

func TestMaskPANPrefixShortValue(t *testing.T) {
	got := MaskPANPrefix("12345")
	if got != "12345" {
		t.Errorf("MaskPANPrefix() = %q, want unchanged value", got)
	}
}
