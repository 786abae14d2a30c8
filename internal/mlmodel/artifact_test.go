package mlmodel

import (
	"bytes"
	"encoding/gob"
	"math"
	"strings"
	"testing"
)

// trainTiny fits a small forest on a separable two-class problem.
func trainTiny(t *testing.T, dim int) *Artifact {
	t.Helper()
	names := make([]string, dim)
	for i := range names {
		names[i] = "f" + string(rune('a'+i%26)) + string(rune('0'+i/26))
	}
	x := make([][]float64, 0, 40)
	y := make([]int, 0, 40)
	for i := 0; i < 40; i++ {
		row := make([]float64, dim)
		cls := i % 2
		for j := range row {
			row[j] = float64(j) + float64(cls)*10 + float64(i)*0.01
		}
		x = append(x, row)
		y = append(y, cls)
	}
	return Train(names, []string{"DOWN", "UP"}, x, y, 20)
}

func TestTrainAndProbabilities(t *testing.T) {
	art := trainTiny(t, 6)
	if art.NumFeatures() != 6 {
		t.Fatalf("num features: got %d", art.NumFeatures())
	}
	probs, err := art.Probabilities([]float64{0, 1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("probabilities: %v", err)
	}
	if len(probs) != 2 {
		t.Fatalf("probability vector length: got %d", len(probs))
	}
	var sum float64
	for _, p := range probs {
		if p < 0 || p > 1 {
			t.Fatalf("probability out of range: %v", probs)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("probabilities must sum to 1, got %v", sum)
	}
}

func TestProbabilitiesWidthMismatch(t *testing.T) {
	art := trainTiny(t, 6)
	if _, err := art.Probabilities(make([]float64, 7)); err == nil {
		t.Fatalf("expected error on 7-wide vector for 6-input model")
	}
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	art := trainTiny(t, 5)
	var buf bytes.Buffer
	if err := art.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.NumFeatures() != art.NumFeatures() {
		t.Fatalf("feature count changed across roundtrip: %d vs %d", got.NumFeatures(), art.NumFeatures())
	}
	if got.NumTrees() != art.NumTrees() {
		t.Fatalf("tree count changed across roundtrip")
	}
	wantLabels := art.Labels()
	for i, l := range got.Labels() {
		if l != wantLabels[i] {
			t.Fatalf("label %d changed: %q vs %q", i, l, wantLabels[i])
		}
	}
	in := []float64{0, 1, 2, 3, 4}
	a, err := art.Probabilities(in)
	if err != nil {
		t.Fatalf("original probabilities: %v", err)
	}
	b, err := got.Probabilities(in)
	if err != nil {
		t.Fatalf("decoded probabilities: %v", err)
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			t.Fatalf("probability %d drifted across roundtrip: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode(strings.NewReader("version https://git-lfs.github.com/spec/v1")); err == nil {
		t.Fatalf("expected decode failure on pointer text")
	}
	if _, err := Decode(bytes.NewReader([]byte{0x00, 0x01, 0x02})); err == nil {
		t.Fatalf("expected decode failure on junk bytes")
	}
}

func TestDecodeRejectsBadEnvelope(t *testing.T) {
	cases := []envelope{
		{Version: FormatVersion + 1, FeatureNames: []string{"a"}, Labels: []string{"DOWN", "UP"}},
		{Version: FormatVersion, FeatureNames: nil, Labels: []string{"DOWN", "UP"}},
		{Version: FormatVersion, FeatureNames: []string{"a"}, Labels: []string{"UP"}},
		{Version: FormatVersion, FeatureNames: []string{"a"}, Labels: []string{"DOWN", "UP"}}, // nil forest
	}
	for i, env := range cases {
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(&env); err != nil {
			t.Fatalf("case %d encode: %v", i, err)
		}
		if _, err := Decode(&buf); err == nil {
			t.Fatalf("case %d: expected validation failure", i)
		}
	}
}
