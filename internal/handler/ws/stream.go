package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"StockPulse/internal/usecase"
	applogger "StockPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Streamer pushes periodic predictions for a fixed symbol set to WebSocket
// subscribers. Every subscriber sees the same broadcast; slow connections
// are dropped rather than buffered.
type Streamer struct {
	pred     *usecase.Predictor
	symbols  []string
	interval time.Duration
	days     int
	l        *applogger.Logger

	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[*websocket.Conn]struct{}
}

func NewStreamer(pred *usecase.Predictor, symbols []string, interval time.Duration, days int) *Streamer {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Streamer{
		pred:     pred,
		symbols:  symbols,
		interval: interval,
		days:     days,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		subs: make(map[*websocket.Conn]struct{}),
	}
}

// SetLogger injects a structured logger.
func (s *Streamer) SetLogger(l *applogger.Logger) { s.l = l }

func (s *Streamer) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/stream", s.Handle)
}

// Handle upgrades the connection and registers it as a subscriber. The read
// loop only drains control frames and detects the peer going away.
func (s *Streamer) Handle(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	s.add(conn)
	if s.l != nil {
		s.l.Info("stream subscriber connected", applogger.String("remote", conn.RemoteAddr().String()))
	}

	go func() {
		defer s.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}

// predictionEvent is the broadcast wire format.
type predictionEvent struct {
	Type         string    `json:"type"`
	Symbol       string    `json:"symbol"`
	Prediction   string    `json:"prediction"`
	Confidence   float64   `json:"confidence"`
	CurrentPrice float64   `json:"current_price"`
	ProbUp       float64   `json:"prob_up"`
	ProbDown     float64   `json:"prob_down"`
	Model        string    `json:"model"`
	Timestamp    time.Time `json:"timestamp"`
}

// Run drives the broadcast loop until the context is cancelled. Each tick
// predicts the configured symbols and pushes one event per symbol; a failed
// symbol is logged and skipped, never aborting the loop.
func (s *Streamer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ping.C:
			s.pingAll()
		case <-ticker.C:
			if s.subscriberCount() == 0 {
				continue
			}
			for _, symbol := range s.symbols {
				res, err := s.pred.Predict(ctx, symbol, s.days)
				if err != nil {
					if s.l != nil {
						s.l.Warn("stream predict error",
							applogger.String("symbol", symbol), applogger.Error(err))
					}
					continue
				}
				ev := predictionEvent{
					Type:         "prediction",
					Symbol:       res.Symbol,
					Prediction:   string(res.Prediction),
					Confidence:   res.Confidence,
					CurrentPrice: res.CurrentPrice,
					ProbUp:       res.ProbUp,
					ProbDown:     res.ProbDown,
					Model:        res.Model,
					Timestamp:    res.Timestamp,
				}
				b, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				s.broadcast(b)
			}
		}
	}
}

func (s *Streamer) add(conn *websocket.Conn) {
	s.mu.Lock()
	s.subs[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Streamer) remove(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.subs, conn)
	s.mu.Unlock()
	_ = conn.Close()
}

func (s *Streamer) subscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Streamer) broadcast(b []byte) {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.subs))
	for conn := range s.subs {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			if s.l != nil {
				s.l.Warn("stream write error", applogger.Error(err))
			}
			s.remove(conn)
		}
	}
}

func (s *Streamer) pingAll() {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.subs))
	for conn := range s.subs {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			s.remove(conn)
		}
	}
}

func (s *Streamer) closeAll() {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.subs))
	for conn := range s.subs {
		conns = append(conns, conn)
	}
	s.subs = make(map[*websocket.Conn]struct{})
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}
}
