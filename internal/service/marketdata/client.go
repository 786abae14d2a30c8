package marketdata

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/util"
)

// Client fetches daily OHLCV history from a candle REST API
// (Finnhub-compatible: /stock/candle with parallel value arrays).
type Client struct {
	baseURL string
	apiKey  string
	http    *xhttp.Client
}

// New creates a BarSource over the candle API at baseURL.
func New(baseURL, apiKey string, timeout time.Duration) drepo.BarSource {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// candleResponse mirrors the provider's columnar payload. The s field is
// "ok" or "no_data".
type candleResponse struct {
	Close  []float64 `json:"c"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Open   []float64 `json:"o"`
	Volume []float64 `json:"v"`
	Time   []int64   `json:"t"`
	Status string    `json:"s"`
}

// RecentBars returns up to days daily bars for symbol, oldest first.
// A "no_data" reply is not a transport failure; it yields an empty series
// and lets the feature layer report the history as insufficient.
func (c *Client) RecentBars(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	now := time.Now().UTC()
	from, to := util.AlignDay(now.AddDate(0, 0, -days), now)

	var resp candleResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/stock/candle",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {"D"},
			"from":       {strconv.FormatInt(from.Unix(), 10)},
			"to":         {strconv.FormatInt(to.Unix(), 10)},
			"token":      {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, models.WrapPredictError(models.KindDataUnavailable, models.StageFetching, err,
			"candle request for %s failed", symbol)
	}

	if resp.Status == "no_data" {
		return nil, nil
	}
	if resp.Status != "ok" {
		return nil, models.NewPredictError(models.KindDataUnavailable, models.StageFetching,
			"candle response for %s has status %q", symbol, resp.Status)
	}

	bars, err := resp.bars()
	if err != nil {
		return nil, models.WrapPredictError(models.KindDataUnavailable, models.StageFetching, err,
			"candle response for %s is malformed", symbol)
	}
	return bars, nil
}

// bars converts the columnar payload into ordered bars. The provider keeps
// all arrays the same length; anything else is a malformed reply.
func (r *candleResponse) bars() ([]models.Bar, error) {
	n := len(r.Time)
	if len(r.Open) != n || len(r.High) != n || len(r.Low) != n || len(r.Close) != n || len(r.Volume) != n {
		return nil, fmt.Errorf("column lengths differ: t=%d o=%d h=%d l=%d c=%d v=%d",
			n, len(r.Open), len(r.High), len(r.Low), len(r.Close), len(r.Volume))
	}
	bars := make([]models.Bar, 0, n)
	for i := 0; i < n; i++ {
		bars = append(bars, models.Bar{
			Timestamp: time.Unix(r.Time[i], 0).UTC(),
			Open:      r.Open[i],
			High:      r.High[i],
			Low:       r.Low[i],
			Close:     r.Close[i],
			Volume:    int64(r.Volume[i]),
		})
	}
	return bars, nil
}
