package catalog

import "testing"

func TestRatioRoundTrip(t *testing.T) {
	for code := 1; code <= 8; code++ {
		ratio, ok := RatioString(code)
		if !ok {
			t.Fatalf("RatioString(%d): expected a known ratio", code)
		}
		if got := RatioType(ratio); got != code {
			t.Errorf("RatioType(%q) = %d, want %d", ratio, got, code)
		}
	}
}

func TestRatioTypeUnknownFallsBack(t *testing.T) {
	cases := []string{"", "5:4", "16:10", "garbage"}
	for _, ratio := range cases {
		if got := RatioType(ratio); got != 1 {
			t.Errorf("RatioType(%q) = %d, want 1", ratio, got)
		}
	}
}

func TestRatioStringUnknownCode(t *testing.T) {
	for _, code := range []int{0, 9, -1, 100} {
		if _, ok := RatioString(code); ok {
			t.Errorf("RatioString(%d): expected ok=false", code)
		}
	}
}
