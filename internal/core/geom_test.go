package core

import "testing"

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected Rect
	}{
		{"overlapping rects", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), NewRect(5, 5, 5, 5)},
		{"non-overlapping horizontal", NewRect(0, 0, 10, 10), NewRect(15, 0, 10, 10), Rect{}},
		{"adjacent (no overlap)", NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10), Rect{}},
		{"contained rect", NewRect(0, 0, 20, 20), NewRect(5, 5, 5, 5), NewRect(5, 5, 5, 5)},
		{"single cell overlap", NewRect(0, 0, 10, 10), NewRect(9, 9, 10, 10), NewRect(9, 9, 1, 1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersect(tc.b); got != tc.expected {
				t.Errorf("Intersect() = %+v, expected %+v", got, tc.expected)
			}
			if got := tc.b.Intersect(tc.a); got != tc.expected {
				t.Errorf("Intersect() (reversed) = %+v, expected %+v", got, tc.expected)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestRectEmpty(t *testing.T) {
	if !(Rect{W: 0, H: 3}).Empty() {
		t.Error("zero width rect should be empty")
	}
	if NewRect(0, 0, 1, 1).Empty() {
		t.Error("1x1 rect should not be empty")
	}
}
