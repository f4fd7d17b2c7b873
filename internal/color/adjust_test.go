package color

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAdjust(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		amount int
		want   string
	}{
		{"darken accent", "#4f46e5", -20, "#3b32d1"},
		{"no prefix kept", "4f46e5", -20, "3b32d1"},
		{"lighten", "#102030", 16, "#203040"},
		{"clamp up", "#000000", 300, "#ffffff"},
		{"clamp down", "#ffffff", -300, "#000000"},
		{"per channel clamp", "#f0100a", 20, "#ff241e"},
		{"zero padded", "#0a0a0a", -5, "#050505"},
		{"all black stays padded", "000001", -1, "000000"},
		{"upper case input", "#ABCDEF", 0, "#abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Adjust(tt.in, tt.amount)
			if err != nil {
				t.Fatalf("Adjust(%q, %d) error: %v", tt.in, tt.amount, err)
			}
			if got != tt.want {
				t.Errorf("Adjust(%q, %d) = %q, want %q", tt.in, tt.amount, got, tt.want)
			}
		})
	}
}

func TestAdjustZeroIsIdentity(t *testing.T) {
	for v := 0; v < 256; v += 17 {
		in := fmt.Sprintf("#%02x%02x%02x", v, 255-v, v/2)
		got, err := Adjust(in, 0)
		if err != nil {
			t.Fatalf("Adjust(%q, 0) error: %v", in, err)
		}
		if got != in {
			t.Errorf("Adjust(%q, 0) = %q", in, got)
		}
	}
}

func TestAdjustAlwaysSixDigits(t *testing.T) {
	for _, amount := range []int{-500, -255, -20, -1, 1, 20, 255, 500} {
		for _, in := range []string{"#000000", "#7f7f7f", "#ffffff", "#4f46e5", "#010203"} {
			got, err := Adjust(in, amount)
			if err != nil {
				t.Fatalf("Adjust(%q, %d) error: %v", in, amount, err)
			}
			if len(got) != 7 || !Valid(got) {
				t.Errorf("Adjust(%q, %d) = %q, not a 6 digit colour", in, amount, got)
			}
		}
	}
}

func TestAdjustRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "#", "#fff", "#4f46e", "#4f46e5a", "#gg46e5", "##4f46e5", "4f 46e5", "red"} {
		_, err := Adjust(in, -20)
		if !errors.Is(err, ErrInvalidColorFormat) {
			t.Errorf("Adjust(%q) error = %v, want ErrInvalidColorFormat", in, err)
		}
		if err != nil && !strings.Contains(err.Error(), "color:") {
			t.Errorf("error should carry the package prefix: %v", err)
		}
	}
}
