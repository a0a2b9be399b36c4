package domain

import "testing"

func TestNormalizeState(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{"TX", "TX", true},
		{"tx", "TX", true},
		{" ca ", "CA", true},
		{"DC", "DC", true},
		{"Texas", "", false},
		{"XX", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		got, ok := NormalizeState(tc.in)
		if ok != tc.valid || got != tc.want {
			t.Errorf("NormalizeState(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.valid)
		}
	}
}
