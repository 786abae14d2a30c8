package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
)

func TestAppErrorMapping(t *testing.T) {
	cases := []struct {
		kind   models.ErrorKind
		status int
		code   string
	}{
		{models.KindInsufficientHistory, http.StatusUnprocessableEntity, "ERR_INSUFFICIENT_HISTORY"},
		{models.KindModelNotFound, http.StatusServiceUnavailable, "ERR_MODEL_NOT_FOUND"},
		{models.KindCorruptArtifact, http.StatusServiceUnavailable, "ERR_CORRUPT_ARTIFACT"},
		{models.KindFeatureMismatch, http.StatusInternalServerError, "ERR_FEATURE_MISMATCH"},
		{models.KindDataUnavailable, http.StatusBadGateway, "ERR_DATA_UNAVAILABLE"},
	}
	for _, tc := range cases {
		err := models.NewPredictError(tc.kind, models.StageInferring, "boom")
		appErr := appErrorFor(err)
		if appErr.Status != tc.status {
			t.Fatalf("%s: status got %d, want %d", tc.kind, appErr.Status, tc.status)
		}
		if appErr.Code != tc.code {
			t.Fatalf("%s: code got %q, want %q", tc.kind, appErr.Code, tc.code)
		}
	}
}

func TestAppErrorMappingUnknown(t *testing.T) {
	appErr := appErrorFor(fmt.Errorf("plain failure"))
	if appErr.Status != http.StatusInternalServerError {
		t.Fatalf("plain errors map to 500, got %d", appErr.Status)
	}
}

func TestPredictionResponseShape(t *testing.T) {
	ts := time.Date(2025, 6, 2, 21, 0, 0, 0, time.UTC)
	res := &models.PredictionResult{
		Symbol:       "SPY",
		Prediction:   models.DirectionUp,
		Confidence:   63.5,
		CurrentPrice: 512.4,
		ProbUp:       63.5,
		ProbDown:     36.5,
		Model:        "enhanced_spy_model",
		Timestamp:    ts,
	}
	out := toPredictionResponse(res)
	if out.Prediction != "UP" || out.Confidence != 63.5 {
		t.Fatalf("unexpected response %+v", out)
	}
	if out.Probabilities.Up != 63.5 || out.Probabilities.Down != 36.5 {
		t.Fatalf("probabilities: %+v", out.Probabilities)
	}
	if !out.Timestamp.Equal(ts) {
		t.Fatalf("timestamp changed: %v", out.Timestamp)
	}
}
