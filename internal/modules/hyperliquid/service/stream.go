package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"hype_signal/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
)

const (
	midsMaxAge   = 30 * time.Second
	pingInterval = 50 * time.Second
)

// MidsStream держит последний снапшот allMids из websocket.
type MidsStream struct {
	url    string
	dialer *websocket.Dialer

	mu      sync.RWMutex
	mids    map[string]float64
	updated time.Time

	connected atomic.Bool
	now       func() time.Time
}

func NewMidsStream(url string) *MidsStream {
	return &MidsStream{
		url:    url,
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		now:    time.Now,
	}
}

func (s *MidsStream) Connected() bool { return s.connected.Load() }

// Snapshot отдает копию, если данные не старше midsMaxAge.
func (s *MidsStream) Snapshot() (map[string]float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mids == nil || s.now().Sub(s.updated) > midsMaxAge {
		return nil, false
	}
	out := make(map[string]float64, len(s.mids))
	for k, v := range s.mids {
		out[k] = v
	}
	return out, true
}

type midsFrame struct {
	Channel string `json:"channel"`
	Data    struct {
		Mids map[string]string `json:"mids"`
	} `json:"data"`
}

func (s *MidsStream) apply(msg []byte) {
	var f midsFrame
	if err := sonic.Unmarshal(msg, &f); err != nil || f.Channel != "allMids" {
		return
	}
	mids := parseMids(f.Data.Mids)
	s.mu.Lock()
	s.mids = mids
	s.updated = s.now()
	s.mu.Unlock()
}

// Run переподключается с экспоненциальной паузой, пока жив ctx.
func (s *MidsStream) Run(ctx context.Context) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0

	for {
		err := s.session(ctx, bo)
		s.connected.Store(false)
		if ctx.Err() != nil {
			return
		}

		wait := bo.NextBackOff()
		logger.Warn("[WS] allMids stream dropped: %v, reconnect in %s", err, wait)
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func (s *MidsStream) session(ctx context.Context, bo backoff.BackOff) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	sub := map[string]any{
		"method":       "subscribe",
		"subscription": map[string]string{"type": "allMids"},
	}
	if err := conn.WriteJSON(sub); err != nil {
		return err
	}
	s.connected.Store(true)
	bo.Reset()
	logger.Info("[WS] subscribed to allMids at %s", s.url)

	// закрываем соединение по ctx, чтобы разблокировать ReadMessage
	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = conn.Close()
				return
			case <-done:
				return
			case <-t.C:
				_ = conn.WriteJSON(map[string]string{"method": "ping"})
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		s.apply(msg)
	}
}

// MidsSource снапшот из стрима, если свежий, иначе REST.
type MidsSource struct {
	stream *MidsStream
	info   *InfoClient
}

func NewMidsSource(stream *MidsStream, info *InfoClient) *MidsSource {
	return &MidsSource{stream: stream, info: info}
}

func (m *MidsSource) AllMids(ctx context.Context) (map[string]float64, error) {
	if m.stream != nil {
		if mids, ok := m.stream.Snapshot(); ok {
			return mids, nil
		}
	}
	return m.info.AllMids(ctx)
}
