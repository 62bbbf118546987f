package store

import (
	"math"
	"testing"
)

func TestEncodeValues(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"empty", nil, ""},
		{"single", []float64{42}, "42"},
		{"push order", []float64{1, 2.5, -3}, "1\n2.5\n-3"},
		{"shortest form", []float64{0.1}, "0.1"},
		{"large", []float64{1e300}, "1e+300"},
		{"special", []float64{math.Inf(1), math.Inf(-1)}, "+Inf\n-Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encodeValues(tt.values); got != tt.want {
				t.Errorf("encodeValues() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeValues_ExactRoundTrip(t *testing.T) {
	values := []float64{
		0.1 + 0.2,
		math.Pi,
		math.SmallestNonzeroFloat64,
		math.MaxFloat64,
		-1.0 / 3.0,
		math.Copysign(0, -1),
	}

	got, err := decodeValues(encodeValues(values))
	if err != nil {
		t.Fatalf("decodeValues() error: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("decoded %d values, want %d", len(got), len(values))
	}
	for i := range values {
		if math.Float64bits(got[i]) != math.Float64bits(values[i]) {
			t.Errorf("value %d: got %v, want %v", i, got[i], values[i])
		}
	}
}

func TestDecodeValues_NaN(t *testing.T) {
	got, err := decodeValues(encodeValues([]float64{math.NaN()}))
	if err != nil {
		t.Fatalf("decodeValues() error: %v", err)
	}
	if len(got) != 1 || !math.IsNaN(got[0]) {
		t.Errorf("got %v, want [NaN]", got)
	}
}

func TestDecodeValues_Empty(t *testing.T) {
	got, err := decodeValues("")
	if err != nil {
		t.Fatalf("decodeValues() error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v, want empty non-nil slice", got)
	}
}

func TestDecodeValues_Invalid(t *testing.T) {
	if _, err := decodeValues("1\nabc\n3"); err == nil {
		t.Error("expected error for non-numeric line")
	}
}

func TestChecksum(t *testing.T) {
	a := checksum("1\n2", "")
	if len(a) != 16 {
		t.Errorf("checksum length = %d, want 16 hex digits", len(a))
	}
	if a != checksum("1\n2", "") {
		t.Error("checksum is not deterministic")
	}
	// Moving a value between stacks must change the checksum.
	if a == checksum("1", "2") {
		t.Error("checksum does not distinguish the stacks")
	}
	if checksum("", "1") == checksum("1", "") {
		t.Error("checksum does not distinguish primary from secondary")
	}
}
