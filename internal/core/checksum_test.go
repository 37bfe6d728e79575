package core

import "testing"

func TestIsValidCode(t *testing.T) {
	tests := []struct {
		name string
		code int
		want bool
	}{
		{name: "county marker", code: 10, want: true},
		{name: "municipality", code: 1017, want: true},
		{name: "six digits", code: 179132, want: true},
		{name: "registry code failing the check", code: 86453, want: false},
		{name: "wrong check digit", code: 1003, want: false},
		{name: "zero", code: 0, want: false},
		{name: "negative", code: -10, want: false},
		{name: "seven digits", code: 1234567, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidCode(tt.code); got != tt.want {
				t.Errorf("IsValidCode(%d) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestIsValidCodeString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"179132", true},
		{" 1035 ", true},
		{"86453", false},
		{"1234567", false},
		{"12a4", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidCodeString(tt.input); got != tt.want {
				t.Errorf("IsValidCodeString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDigitSum(t *testing.T) {
	tests := []struct{ n, want int }{
		{0, 0},
		{7, 7},
		{14, 5},
		{63, 9},
	}
	for _, tt := range tests {
		if got := digitSum(tt.n); got != tt.want {
			t.Errorf("digitSum(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
