package text

import "testing"

func TestCountRunes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"ascii", "hello", 5},
		{"japanese", "こんにちは", 5},
		{"mixed", "hello世界", 7},
		{"emoji", "Hello👋", 6},
		{"multibyte symbols", "①②③", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountRunes(tt.text); got != tt.want {
				t.Errorf("CountRunes(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
