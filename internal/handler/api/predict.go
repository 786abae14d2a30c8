package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/registry"
	icache "StockPulse/internal/service/cache"
	"StockPulse/internal/service/metrics"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PredictHandler exposes the prediction pipeline over HTTP.
type PredictHandler struct {
	logger   *applogger.Logger
	pred     *usecase.Predictor
	bars     domrepo.BarSource
	reg      *registry.Registry
	cache    icache.BytesCache
	rl       *ratelimit.Limiter
	cacheTTL time.Duration
	started  time.Time
}

func NewPredictHandler(logger *applogger.Logger, pred *usecase.Predictor, bars domrepo.BarSource, reg *registry.Registry) *PredictHandler {
	metrics.Register()
	return &PredictHandler{
		logger:   logger,
		pred:     pred,
		bars:     bars,
		reg:      reg,
		rl:       ratelimit.New(),
		cacheTTL: 60 * time.Second,
		started:  time.Now(),
	}
}

// SetCache enables cache-aside on the predict endpoint.
func (h *PredictHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetCacheTTL overrides the default 60s response cache TTL.
func (h *PredictHandler) SetCacheTTL(ttl time.Duration) { h.cacheTTL = ttl }

func (h *PredictHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/predict/:symbol", h.Predict)
	g.GET("/health", h.Health)
	g.GET("/model/:symbol/info", h.ModelInfo)
	g.GET("/historical/:symbol", h.Historical)
}

// predictionResponse is the wire shape of a served prediction.
type predictionResponse struct {
	Symbol        string  `json:"symbol"`
	Prediction    string  `json:"prediction"`
	Confidence    float64 `json:"confidence"`
	CurrentPrice  float64 `json:"current_price"`
	Probabilities struct {
		Up   float64 `json:"up"`
		Down float64 `json:"down"`
	} `json:"probabilities"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}

func toPredictionResponse(res *models.PredictionResult) *predictionResponse {
	out := &predictionResponse{
		Symbol:       res.Symbol,
		Prediction:   string(res.Prediction),
		Confidence:   res.Confidence,
		CurrentPrice: res.CurrentPrice,
		Model:        res.Model,
		Timestamp:    res.Timestamp,
	}
	out.Probabilities.Up = res.ProbUp
	out.Probabilities.Down = res.ProbDown
	return out
}

func (h *PredictHandler) Predict(c echo.Context) error {
	start := time.Now()
	endpoint := "predict"
	defer func() { metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":predict", 5, 2) {
		if h.logger != nil {
			h.logger.Warn("predict rate_limited", applogger.String("remote", c.RealIP()))
		}
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limited"})
	}

	cacheKey := "predict:" + req.Symbol
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			if h.logger != nil {
				h.logger.Warn("predict cache_get_error", applogger.Error(err))
			}
		} else if ok {
			metrics.CacheHits.WithLabelValues(endpoint).Inc()
			return c.JSONBlob(http.StatusOK, b)
		}
	}

	res, err := h.pred.Predict(c.Request().Context(), req.Symbol, req.Days)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		if h.logger != nil {
			h.logger.Error("predict pipeline error",
				applogger.String("symbol", req.Symbol), applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErrorFor(err))
	}

	b, err := json.Marshal(toPredictionResponse(res))
	if err != nil {
		return xhttp.InternalServerErrorResponse(c)
	}
	if h.cache != nil {
		if err := h.cache.SetBytes(cacheKey, b, h.cacheTTL); err != nil && h.logger != nil {
			h.logger.Warn("predict cache_set_error", applogger.Error(err))
		}
	}
	return c.JSONBlob(http.StatusOK, b)
}

func (h *PredictHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":         "ok",
		"models_cached":  h.reg.CachedLocations(),
		"uptime_seconds": int(time.Since(h.started).Seconds()),
	})
}

func (h *PredictHandler) ModelInfo(c echo.Context) error {
	start := time.Now()
	endpoint := "model_info"
	defer func() { metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.ModelInfoRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	info, err := h.pred.ModelInfo(c.Request().Context(), req.Symbol)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		if h.logger != nil {
			h.logger.Error("model info error",
				applogger.String("symbol", req.Symbol), applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErrorFor(err))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"symbol":     info.Symbol,
		"model":      info.Candidate,
		"generation": info.Generation,
		"num_inputs": info.NumInputs,
		"labels":     info.Labels,
		"num_trees":  info.NumTrees,
	})
}

// barResponse is one daily bar on the wire.
type barResponse struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

func (h *PredictHandler) Historical(c echo.Context) error {
	start := time.Now()
	endpoint := "historical"
	defer func() { metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.HistoricalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":historical", 3, 1) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limited"})
	}

	bars, err := h.bars.RecentBars(c.Request().Context(), req.Symbol, req.Days)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		if h.logger != nil {
			h.logger.Error("historical fetch error",
				applogger.String("symbol", req.Symbol), applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErrorFor(err))
	}

	out := make([]barResponse, 0, len(bars))
	for _, b := range bars {
		out = append(out, barResponse{
			Date:   b.Timestamp.Format("2006-01-02"),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	return xhttp.ListResponse(c, out, int64(len(out)))
}

// appErrorFor maps pipeline failures onto HTTP statuses. Client-fixable
// conditions are 4xx; infrastructure conditions that a retry may clear are
// 502/503; contract violations inside the service are 500.
func appErrorFor(err error) *xhttp.AppError {
	var perr *models.PredictError
	if !errors.As(err, &perr) {
		return xhttp.InternalError("internal error").WithError(err)
	}
	switch perr.Kind {
	case models.KindInsufficientHistory:
		return xhttp.NewAppError("ERR_INSUFFICIENT_HISTORY", "", perr.Message, http.StatusUnprocessableEntity).WithError(perr)
	case models.KindModelNotFound:
		return xhttp.NewAppError("ERR_MODEL_NOT_FOUND", "", perr.Message, http.StatusServiceUnavailable).WithError(perr)
	case models.KindCorruptArtifact:
		return xhttp.NewAppError("ERR_CORRUPT_ARTIFACT", "", perr.Message, http.StatusServiceUnavailable).WithError(perr)
	case models.KindFeatureMismatch:
		return xhttp.NewAppError("ERR_FEATURE_MISMATCH", "", perr.Message, http.StatusInternalServerError).WithError(perr)
	case models.KindDataUnavailable:
		return xhttp.NewAppError("ERR_DATA_UNAVAILABLE", "", perr.Message, http.StatusBadGateway).WithError(perr)
	default:
		return xhttp.InternalError(perr.Message).WithError(perr)
	}
}
