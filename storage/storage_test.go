package storage

import "testing"

func TestEmptyRange(t *testing.T) {
	var r Range[int]
	if !r.IsEmpty() || r.Len() != 0 {
		t.Errorf("expected zero range to be empty, got %v", r)
	}
	if EmptyRange[int]() != r {
		t.Error("expected EmptyRange to equal the zero range")
	}
}

func TestRangeLen(t *testing.T) {
	tests := []struct {
		r     Range[string]
		len   int
		empty bool
		str   string
	}{
		{Range[string]{Start: 1, End: 4}, 3, false, "[1,4)"},
		{Range[string]{Start: 2, End: 2}, 0, true, "[2,2)"},
		{Range[string]{Start: 5, End: 3}, 0, true, "[5,3)"},
	}
	for _, tt := range tests {
		if got := tt.r.Len(); got != tt.len {
			t.Errorf("%v: expected len %d, got %d", tt.r, tt.len, got)
		}
		if got := tt.r.IsEmpty(); got != tt.empty {
			t.Errorf("%v: expected empty %v, got %v", tt.r, tt.empty, got)
		}
		if got := tt.r.String(); got != tt.str {
			t.Errorf("expected %s, got %s", tt.str, got)
		}
	}
}
