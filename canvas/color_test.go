package canvas

import "testing"

func TestIsColor(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"none", true},
		{" Transparent ", true},
		{"cornflowerblue", true},
		{"#abc", true},
		{"#abcd", true},
		{"#A0B1C2", true},
		{"#a0b1c2d3", true},
		{"#12", false},
		{"#12345", false},
		{"#ggg", false},
		{"abc", false},
		{"not-a-colour", false},
	}
	for _, tt := range tests {
		if got := IsColor(tt.in); got != tt.want {
			t.Errorf("IsColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if tt.want && tt.in != "" && tt.in != "none" && tt.in != " Transparent " && ParseColor(tt.in, 1) == nil {
			t.Errorf("ParseColor(%q) = nil for a valid colour", tt.in)
		}
	}
}
