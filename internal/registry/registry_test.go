package registry

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/features"
	"StockPulse/internal/mlmodel"
	xhttp "StockPulse/pkg/http"
)

const pointerText = "version https://git-lfs.github.com/spec/v1\noid sha256:abc\nsize 12345\n"

func encodeArtifact(t *testing.T, dim int) []byte {
	t.Helper()
	names := make([]string, dim)
	for i := range names {
		names[i] = "f" + string(rune('A'+i%26)) + string(rune('0'+i/26))
	}
	x := make([][]float64, 0, 30)
	y := make([]int, 0, 30)
	for i := 0; i < 30; i++ {
		row := make([]float64, dim)
		cls := i % 2
		for j := range row {
			row[j] = float64(j+cls*7) + float64(i)*0.1
		}
		x = append(x, row)
		y = append(y, cls)
	}
	art := mlmodel.Train(names, []string{"DOWN", "UP"}, x, y, 10)
	var buf bytes.Buffer
	if err := art.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func writeArtifact(t *testing.T, path string, dim int) {
	t.Helper()
	if err := os.WriteFile(path, encodeArtifact(t, dim), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	dir := t.TempDir()
	catalog, err := NewCatalog(dir, "enhanced_spy_model.gob", "spy_model.gob")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return New(catalog, "", nil), dir
}

func TestClassifySymbol(t *testing.T) {
	cases := map[string]AssetClass{
		"SPY":      Equity,
		"AAPL":     Equity,
		"BTC-USD":  Crypto,
		"eth-usdt": Crypto,
		"BRK-B":    Equity,
		"-USD":     Equity,
		"BTC-USD-": Equity,
	}
	for symbol, want := range cases {
		if got := ClassifySymbol(symbol); got != want {
			t.Fatalf("%s: got %v, want %v", symbol, got, want)
		}
	}
}

func TestCandidateOrder(t *testing.T) {
	reg, _ := newTestRegistry(t)

	equity := reg.CandidatesFor("SPY")
	if len(equity) != 2 {
		t.Fatalf("equity candidates: got %d", len(equity))
	}
	if equity[0].Generation != features.GenerationExtended || equity[1].Generation != features.GenerationOriginal {
		t.Fatalf("equity order must be extended then original: %+v", equity)
	}

	crypto := reg.CandidatesFor("BTC-USD")
	if len(crypto) != 2 {
		t.Fatalf("crypto candidates: got %d", len(crypto))
	}
	if crypto[0].File != "btc_usd_model.gob" {
		t.Fatalf("crypto symbol artifact first: got %s", crypto[0].File)
	}
	if crypto[0].Generation != features.GenerationOriginal {
		t.Fatalf("symbol-specific artifacts carry the original generation")
	}
	if crypto[1].File != "spy_model.gob" {
		t.Fatalf("crypto fallback must be the generic artifact: got %s", crypto[1].File)
	}
}

func TestIsPlaceholder(t *testing.T) {
	if !isPlaceholder([]byte(pointerText)) {
		t.Fatalf("pointer text not detected")
	}
	if isPlaceholder([]byte{0x1f, 0x8b, 0x00}) {
		t.Fatalf("binary misdetected as pointer")
	}
	if isPlaceholder(nil) {
		t.Fatalf("empty input misdetected")
	}
}

func TestResolveFallsBackPastPlaceholder(t *testing.T) {
	reg, dir := newTestRegistry(t)
	if err := os.WriteFile(filepath.Join(dir, "enhanced_spy_model.gob"), []byte(pointerText), 0o644); err != nil {
		t.Fatalf("write placeholder: %v", err)
	}
	writeArtifact(t, filepath.Join(dir, "spy_model.gob"), features.GenerationOriginal.Dim())

	art, cand, err := reg.Resolve(context.Background(), reg.CandidatesFor("SPY"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cand.Name != "spy_model" {
		t.Fatalf("expected fallback to spy_model, got %s", cand.Name)
	}
	if art.NumFeatures() != 30 {
		t.Fatalf("artifact width: got %d", art.NumFeatures())
	}
}

func TestResolveCryptoFallsBackToGeneric(t *testing.T) {
	reg, dir := newTestRegistry(t)
	writeArtifact(t, filepath.Join(dir, "spy_model.gob"), features.GenerationOriginal.Dim())

	_, cand, err := reg.Resolve(context.Background(), reg.CandidatesFor("BTC-USD"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cand.Name != "spy_model" {
		t.Fatalf("missing symbol artifact must fall back to generic, got %s", cand.Name)
	}
}

func TestResolveModelNotFound(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, _, err := reg.Resolve(context.Background(), reg.CandidatesFor("SPY"))
	if err == nil {
		t.Fatalf("expected failure with empty artifact dir")
	}
	if !errors.Is(err, models.ErrModelNotFound) {
		t.Fatalf("want model_not_found, got %v", err)
	}
}

func TestResolveRejectsGenerationMismatch(t *testing.T) {
	reg, dir := newTestRegistry(t)
	// extended slot holds an artifact with the original width
	writeArtifact(t, filepath.Join(dir, "enhanced_spy_model.gob"), 30)

	_, _, err := reg.Resolve(context.Background(), reg.CandidatesFor("SPY")[:1])
	if err == nil {
		t.Fatalf("expected rejection of mislabeled artifact")
	}
	if !errors.Is(err, models.ErrModelNotFound) {
		t.Fatalf("want model_not_found after fail-closed check, got %v", err)
	}
}

func TestResolveCachesArtifacts(t *testing.T) {
	reg, dir := newTestRegistry(t)
	writeArtifact(t, filepath.Join(dir, "spy_model.gob"), 30)
	writeArtifact(t, filepath.Join(dir, "enhanced_spy_model.gob"), features.GenerationExtended.Dim())

	first, cand, err := reg.Resolve(context.Background(), reg.CandidatesFor("SPY"))
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if cand.Generation != features.GenerationExtended {
		t.Fatalf("extended artifact present, expected extended candidate")
	}
	if reg.CachedLocations() != 1 {
		t.Fatalf("cached locations: got %d, want 1", reg.CachedLocations())
	}

	// delete the file; the cached copy must still serve
	if err := os.Remove(filepath.Join(dir, "enhanced_spy_model.gob")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	second, cand2, err := reg.Resolve(context.Background(), reg.CandidatesFor("SPY"))
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if cand2.Name != cand.Name {
		t.Fatalf("resolution changed between identical calls: %s vs %s", cand2.Name, cand.Name)
	}
	if first != second {
		t.Fatalf("expected the same cached artifact instance")
	}
}

func TestResolveFetchesRemoteForPlaceholder(t *testing.T) {
	dir := t.TempDir()
	catalog, err := NewCatalog(dir, "enhanced_spy_model.gob", "spy_model.gob")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	path := filepath.Join(dir, "spy_model.gob")
	if err := os.WriteFile(path, []byte(pointerText), 0o644); err != nil {
		t.Fatalf("write placeholder: %v", err)
	}

	served := encodeArtifact(t, features.GenerationOriginal.Dim())
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/spy_model.gob" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		hits++
		_, _ = w.Write(served)
	}))
	defer srv.Close()

	reg := New(catalog, srv.URL, xhttp.NewClient())
	art, cand, err := reg.Resolve(context.Background(), reg.CandidatesFor("SPY"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cand.Name != "spy_model" {
		t.Fatalf("candidate: got %s", cand.Name)
	}
	if art.NumFeatures() != features.GenerationOriginal.Dim() {
		t.Fatalf("artifact width: got %d", art.NumFeatures())
	}
	if hits != 1 {
		t.Fatalf("remote fetched %d times, want 1", hits)
	}

	// the pointer file must now hold the real bytes
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if isPlaceholder(data) {
		t.Fatalf("pointer file was not replaced")
	}
	if _, err := mlmodel.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("persisted bytes do not decode: %v", err)
	}
}

func TestPlaceholderWithoutRemoteIsCorrupt(t *testing.T) {
	reg, dir := newTestRegistry(t)
	if err := os.WriteFile(filepath.Join(dir, "spy_model.gob"), []byte(pointerText), 0o644); err != nil {
		t.Fatalf("write placeholder: %v", err)
	}
	_, err := reg.load(context.Background(), reg.CandidatesFor("SPY")[1])
	if err == nil {
		t.Fatalf("placeholder without remote must not load")
	}
	if !errors.Is(err, models.ErrCorruptArtifact) {
		t.Fatalf("want corrupt_artifact, got %v", err)
	}
}
