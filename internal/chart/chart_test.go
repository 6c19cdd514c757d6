package chart

import (
	"bytes"
	"testing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestLine_RendersPNG(t *testing.T) {
	labels := []string{"2024-06-01", "2024-06-02", "2024-06-03"}
	values := []float64{1500, 2200, 1800}

	data, err := Line("Water intake", "Daily intake (ml)", "Daily norm (ml)", labels, values, 2550)
	if err != nil {
		t.Fatalf("Line: %v", err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestLine_TooFewPoints(t *testing.T) {
	_, err := Line("t", "s", "g", []string{"2024-06-01"}, []float64{100}, 200)
	if err == nil {
		t.Fatal("expected error for a single point")
	}
}

func TestLine_LengthMismatch(t *testing.T) {
	_, err := Line("t", "s", "g", []string{"a", "b"}, []float64{1}, 2)
	if err == nil {
		t.Fatal("expected error for mismatched inputs")
	}
}
