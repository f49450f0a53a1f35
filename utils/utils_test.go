package utils

import "testing"

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		1000:    "1000",
		9.99:    "9.99",
		2000:    "2000",
		999.995: "999.995",
	}
	for in, want := range cases {
		if got := FormatAmount(in); got != want {
			t.Errorf("FormatAmount(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"0551234567", "+213551234567", "021987654"}
	for _, p := range valid {
		if !ValidPhone(p) {
			t.Errorf("ValidPhone(%q) = false, want true", p)
		}
	}

	invalid := []string{"", "abc", "055 123 4567", "12345", "+"}
	for _, p := range invalid {
		if ValidPhone(p) {
			t.Errorf("ValidPhone(%q) = true, want false", p)
		}
	}
}
