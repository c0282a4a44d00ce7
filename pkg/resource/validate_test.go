package resource

import "testing"

func TestIsDate(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"2024-03-15", true},
		{"2024-03-15T10:30:00Z", true},
		{"2024-03-15T10:30:00", true},
		{"15/03/2024", false},
		{"not-a-date", false},
		{"2024-13-40", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsDate(tt.value); got != tt.want {
			t.Errorf("IsDate(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestIsEmail(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"grace@example.edu", true},
		{"a.b+c@sub.example.com", true},
		{"no-at-sign", false},
		{"two@@example.com", false},
		{"spaces in@example.com", false},
		{"missing@tld", false},
	}

	for _, tt := range tests {
		if got := IsEmail(tt.value); got != tt.want {
			t.Errorf("IsEmail(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"https://example.edu/~grace", true},
		{"http://example.edu", true},
		{"ftp://example.edu", false},
		{"example.edu", false},
		{"https://", false},
	}

	for _, tt := range tests {
		if got := IsURL(tt.value); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestLenBetween(t *testing.T) {
	check := LenBetween(8, 20)

	tests := []struct {
		length int
		want   bool
	}{
		{7, false},
		{8, true},
		{20, true},
		{21, false},
	}

	for _, tt := range tests {
		value := make([]byte, tt.length)
		for i := range value {
			value[i] = 'x'
		}
		if got := check(string(value)); got != tt.want {
			t.Errorf("LenBetween(8,20) on length %d = %v, want %v", tt.length, got, tt.want)
		}
	}
}

func TestMaxLen(t *testing.T) {
	check := MaxLen(3)
	if !check("abc") {
		t.Error("MaxLen(3) rejected a 3-byte value")
	}
	if check("abcd") {
		t.Error("MaxLen(3) accepted a 4-byte value")
	}
}
