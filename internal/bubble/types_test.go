package bubble

import (
	"errors"
	"math"
	"testing"
)

func TestRadius(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		k        float64
		expected float64
	}{
		{"zero", 0, 1, 0},
		{"square", 400, 1, 20},
		{"scaled", 1e6, 0.005, 5},
		{"negative", -9, 1, 0},
		{"NaN", math.NaN(), 1, 0},
		{"+Inf", math.Inf(1), 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Radius(tt.value, tt.k); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Radius(%v, %v) = %v, want %v", tt.value, tt.k, got, tt.expected)
			}
		})
	}
}

func TestYearRange(t *testing.T) {
	yr := YearRange{Start: 2000, End: 2002}

	if yr.Len() != 3 {
		t.Errorf("Len() = %d, want 3", yr.Len())
	}
	if !yr.Contains(2000) || !yr.Contains(2002) {
		t.Error("range should contain its endpoints")
	}
	if yr.Contains(1999) || yr.Contains(2003) {
		t.Error("range should not contain years outside it")
	}
	if yr.Index(2001) != 1 {
		t.Errorf("Index(2001) = %d, want 1", yr.Index(2001))
	}
	if err := (YearRange{Start: 2003, End: 2000}).Valid(); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Valid() = %v, want ErrInvalidRange", err)
	}
}

func TestSeries_At(t *testing.T) {
	yr := YearRange{Start: 2000, End: 2002}
	s := Series{100, 400, 900}

	if v, ok := s.At(yr, 2001); !ok || v != 400 {
		t.Errorf("At(2001) = %v, %v", v, ok)
	}
	if _, ok := s.At(yr, 2003); ok {
		t.Error("At(2003) should be out of range")
	}
	if s.First() != 100 || s.Last() != 900 {
		t.Errorf("First/Last = %v/%v", s.First(), s.Last())
	}
	if (Series{}).Last() != 0 {
		t.Error("empty series Last should be 0")
	}
}

func TestEntity_Pin(t *testing.T) {
	e := &Entity{ID: "USA"}
	if e.Pinned() {
		t.Fatal("new entity should be free")
	}
	e.Pin(3, 4)
	if !e.Pinned() || *e.PinX != 3 || *e.PinY != 4 {
		t.Errorf("pin = %v,%v", e.PinX, e.PinY)
	}
	e.Unpin()
	if e.Pinned() {
		t.Error("entity should be free after Unpin")
	}
}

func TestSessionError(t *testing.T) {
	err := &SessionError{Frame: 12, Year: 2001, Wrapped: ErrUnknownEntity}
	expected := "frame 12 (year 2001): bubble: unknown entity"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrUnknownEntity) {
		t.Error("SessionError should unwrap to its cause")
	}
}
