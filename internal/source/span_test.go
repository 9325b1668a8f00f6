package source

import (
	"testing"
)

func TestSpan_Intersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{name: "overlap", a: Span{File: 1, Start: 0, End: 5}, b: Span{File: 1, Start: 3, End: 8}, want: true},
		{name: "touching end-to-start", a: Span{File: 1, Start: 0, End: 3}, b: Span{File: 1, Start: 3, End: 6}, want: false},
		{name: "nested", a: Span{File: 1, Start: 0, End: 9}, b: Span{File: 1, Start: 4, End: 5}, want: true},
		{name: "empty inside", a: Span{File: 1, Start: 0, End: 9}, b: Span{File: 1, Start: 4, End: 4}, want: false},
		{name: "different files", a: Span{File: 1, Start: 0, End: 5}, b: Span{File: 2, Start: 0, End: 5}, want: false},
		{name: "disjoint", a: Span{File: 1, Start: 0, End: 2}, b: Span{File: 1, Start: 6, End: 9}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
			// симметричность
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("reverse Intersects() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpan_ContainsAndAdjacent(t *testing.T) {
	s := Span{File: 3, Start: 10, End: 20}

	if !s.Contains(10) || s.Contains(20) || s.Contains(9) {
		t.Errorf("Contains must be half-open for %v", s)
	}
	if !s.ContainsSpan(Span{File: 3, Start: 10, End: 20}) {
		t.Error("span must contain itself")
	}
	if s.ContainsSpan(Span{File: 4, Start: 12, End: 13}) {
		t.Error("span from another file must not be contained")
	}
	if !s.Adjacent(Span{File: 3, Start: 20, End: 25}) {
		t.Error("expected adjacency at end offset")
	}
	if s.Adjacent(Span{File: 3, Start: 21, End: 25}) {
		t.Error("unexpected adjacency with a gap")
	}
}

func TestSpan_CoverAndSub(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		other    Span
		expected Span
	}{
		{
			name:     "cover extends both sides",
			span:     Span{File: 1, Start: 10, End: 20},
			other:    Span{File: 1, Start: 5, End: 25},
			expected: Span{File: 1, Start: 5, End: 25},
		},
		{
			name:     "cover ignores other file",
			span:     Span{File: 1, Start: 10, End: 20},
			other:    Span{File: 2, Start: 0, End: 50},
			expected: Span{File: 1, Start: 10, End: 20},
		},
		{
			name:     "cover with zero-length span",
			span:     Span{File: 1, Start: 10, End: 10},
			other:    Span{File: 1, Start: 12, End: 12},
			expected: Span{File: 1, Start: 10, End: 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Cover(tt.other); got != tt.expected {
				t.Errorf("Cover() = %+v, want %+v", got, tt.expected)
			}
		})
	}

	s := Span{File: 7, Start: 100, End: 150}
	if got, want := s.Sub(5, 10), (Span{File: 7, Start: 105, End: 110}); got != want {
		t.Errorf("Sub() = %+v, want %+v", got, want)
	}
	if got := s.ZeroideToStart(); got.Start != 100 || !got.Empty() {
		t.Errorf("ZeroideToStart() = %+v", got)
	}
	if got := s.ZeroideToEnd(); got.Start != 150 || !got.Empty() {
		t.Errorf("ZeroideToEnd() = %+v", got)
	}
	if got := s.Len(); got != 50 {
		t.Errorf("Len() = %d, want 50", got)
	}
}
