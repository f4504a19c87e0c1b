package money

import "testing"

func TestFormatPKR(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "Rs 0"},
		{300, "Rs 300"},
		{4350, "Rs 4,350"},
		{4349.5, "Rs 4,350"},
		{4349.49, "Rs 4,349"},
		{1250000, "Rs 1,250,000"},
		{-500, "Rs -500"},
	}

	for _, tt := range tests {
		if got := FormatPKR(tt.amount); got != tt.want {
			t.Errorf("FormatPKR(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
