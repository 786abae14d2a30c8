package marketdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
)

func TestRecentBarsParsesColumns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock/candle" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("symbol") != "SPY" || q.Get("resolution") != "D" || q.Get("token") != "k" {
			t.Fatalf("unexpected query %v", q)
		}
		for _, key := range []string{"from", "to"} {
			ts, err := strconv.ParseInt(q.Get(key), 10, 64)
			if err != nil || ts%86400 != 0 {
				t.Fatalf("%s must be a UTC day boundary, got %q", key, q.Get(key))
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"s":"ok","t":[1700000000,1700086400],"o":[10,11],"h":[12,13],"l":[9,10],"c":[11,12],"v":[1000,2000]}`))
	}))
	defer srv.Close()

	src := New(srv.URL, "k", 5*time.Second)
	bars, err := src.RecentBars(context.Background(), "SPY", 10)
	if err != nil {
		t.Fatalf("recent bars: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("bars: got %d", len(bars))
	}
	if bars[0].Close != 11 || bars[1].Close != 12 {
		t.Fatalf("closes wrong: %+v", bars)
	}
	if !bars[0].Timestamp.Before(bars[1].Timestamp) {
		t.Fatalf("bars must be oldest first")
	}
	if bars[1].Volume != 2000 {
		t.Fatalf("volume: got %d", bars[1].Volume)
	}
}

func TestRecentBarsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"s":"no_data"}`))
	}))
	defer srv.Close()

	src := New(srv.URL, "k", 5*time.Second)
	bars, err := src.RecentBars(context.Background(), "XXXX", 10)
	if err != nil {
		t.Fatalf("no_data is not a transport failure: %v", err)
	}
	if len(bars) != 0 {
		t.Fatalf("expected empty series, got %d bars", len(bars))
	}
}

func TestRecentBarsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	src := New(srv.URL, "k", 5*time.Second)
	_, err := src.RecentBars(context.Background(), "SPY", 10)
	if !errors.Is(err, models.ErrDataUnavailable) {
		t.Fatalf("want data_unavailable, got %v", err)
	}
}

func TestRecentBarsMalformedColumns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"s":"ok","t":[1700000000,1700086400],"o":[10],"h":[12,13],"l":[9,10],"c":[11,12],"v":[1000,2000]}`))
	}))
	defer srv.Close()

	src := New(srv.URL, "k", 5*time.Second)
	_, err := src.RecentBars(context.Background(), "SPY", 10)
	if !errors.Is(err, models.ErrDataUnavailable) {
		t.Fatalf("column mismatch must surface as data_unavailable, got %v", err)
	}
}
