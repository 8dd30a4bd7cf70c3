package particlenet

import (
	"math"
	"testing"
)

func TestResolveColor(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		hex   string
		alpha float64
	}{
		{"long hex", "#ff0000", "#ff0000", 1},
		{"short hex", "#f00", "#ff0000", 1},
		{"hex with alpha", "#ff000080", "#ff0000", 128.0 / 255},
		{"short hex with alpha", "#f008", "#ff0000", 136.0 / 255},
		{"rgb", "rgb(255, 0, 0)", "#ff0000", 1},
		{"rgba half", "rgba(0,128,255,0.5)", "#0080ff", 0.5},
		{"named", "red", "#ff0000", 1},
		{"named teal", "teal", "#008080", 1},
		{"uppercase", "#FF0000", "#ff0000", 1},
		{"padded", "  white ", "#ffffff", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hex, alpha, err := resolveColor(tt.in)
			if err != nil {
				t.Fatalf("resolveColor(%q): %v", tt.in, err)
			}
			if hex != tt.hex {
				t.Errorf("hex = %q, want %q", hex, tt.hex)
			}
			if math.Abs(alpha-tt.alpha) > 1e-9 {
				t.Errorf("alpha = %v, want %v", alpha, tt.alpha)
			}
		})
	}
}

func TestResolveColorErrors(t *testing.T) {
	bad := []string{"", "bogus", "#12345", "#gg0000", "rgb(1,2)", "rgba(a,b,c,d)", "rgb(1,2,3"}
	for _, in := range bad {
		if _, _, err := resolveColor(in); err == nil {
			t.Errorf("resolveColor(%q): expected error", in)
		}
	}
}
