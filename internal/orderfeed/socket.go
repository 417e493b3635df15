package orderfeed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mataam/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// ConnState is the feed socket's lifecycle.
type ConnState int

const (
	ConnDisconnected ConnState = iota
	ConnConnecting
	ConnConnected
	// ConnGaveUp is the terminal state after the retry budget is spent; the
	// UI shows a reconnect control and Reconnect re-arms the socket.
	ConnGaveUp
)

// String implements fmt.Stringer.
func (s ConnState) String() string {
	switch s {
	case ConnDisconnected:
		return "disconnected"
	case ConnConnecting:
		return "connecting"
	case ConnConnected:
		return "connected"
	case ConnGaveUp:
		return "gave-up"
	default:
		return "unknown"
	}
}

// Socket maintains the tenant-scoped push connection and applies each pushed
// order to the feed. Lost connections are retried with bounded exponential
// backoff rather than a flat unbounded loop.
type Socket struct {
	url     string
	tenant  string
	feed    *Feed
	logger  zerolog.Logger
	onState func(ConnState)

	initialWait time.Duration
	maxWait     time.Duration
	maxElapsed  time.Duration

	mu      sync.Mutex
	state   ConnState
	dialing bool
}

// NewSocket creates a socket that feeds pushed orders into the feed. onState
// may be nil.
func NewSocket(cfg config.FeedConfig, tenant string, feed *Feed, onState func(ConnState), logger zerolog.Logger) *Socket {
	return &Socket{
		url:         cfg.WSURL,
		tenant:      tenant,
		feed:        feed,
		logger:      logger.With().Str("component", "socket").Logger(),
		onState:     onState,
		initialWait: cfg.ReconnectWait,
		maxWait:     cfg.MaxReconnectWait,
		maxElapsed:  cfg.MaxReconnectFor,
	}
}

// State returns the current connection state.
func (s *Socket) State() ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run dials and reads until ctx is cancelled or the retry budget is spent.
// It never runs two dial loops at once; a second call returns immediately.
func (s *Socket) Run(ctx context.Context) {
	s.mu.Lock()
	if s.dialing {
		s.mu.Unlock()
		return
	}
	s.dialing = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.dialing = false
		s.mu.Unlock()
	}()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.initialWait
	policy.MaxInterval = s.maxWait
	policy.MaxElapsedTime = s.maxElapsed
	policy.Reset()

	for {
		if ctx.Err() != nil {
			s.setState(ConnDisconnected)
			return
		}

		s.setState(ConnConnecting)
		healthy, err := s.runOnce(ctx)
		if ctx.Err() != nil {
			s.setState(ConnDisconnected)
			return
		}

		s.logger.Warn().Err(err).Msg("feed connection lost")
		if healthy {
			// A healthy session ended; start the backoff schedule over.
			policy.Reset()
		}

		wait := policy.NextBackOff()
		if wait == backoff.Stop {
			s.logger.Error().Msg("feed reconnect budget spent")
			s.setState(ConnGaveUp)
			return
		}

		s.logger.Info().Dur("wait", wait).Msg("reconnecting to feed")
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			s.setState(ConnDisconnected)
			return
		}
	}
}

// Reconnect re-arms the socket after it has given up.
func (s *Socket) Reconnect(ctx context.Context) {
	s.mu.Lock()
	gaveUp := s.state == ConnGaveUp && !s.dialing
	s.mu.Unlock()

	if gaveUp {
		go s.Run(ctx)
	}
}

// runOnce dials, joins the tenant group and reads until the connection
// drops. healthy reports whether the session delivered at least one message
// or outlived the initial reconnect wait; a server that accepts the join
// and drops immediately must not reset the retry budget.
func (s *Socket) runOnce(ctx context.Context) (healthy bool, err error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return false, fmt.Errorf("dial failed: %w", err)
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
			conn.Close()
		}
	}()

	join := fmt.Sprintf("JOIN:%s:%s-orders", s.tenant, s.tenant)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(join)); err != nil {
		return false, fmt.Errorf("join failed: %w", err)
	}

	s.setState(ConnConnected)
	s.logger.Info().Str("tenant", s.tenant).Msg("joined order feed")

	start := time.Now()
	gotMessage := false
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			healthy := gotMessage || time.Since(start) >= s.initialWait
			return healthy, fmt.Errorf("read failed: %w", err)
		}
		gotMessage = true

		order, err := s.feed.api.DecodeOrderPayload(data)
		if err != nil {
			s.logger.Warn().Err(err).Msg("dropping undecodable feed message")
			continue
		}
		s.feed.Apply(order)
	}
}

func (s *Socket) setState(state ConnState) {
	s.mu.Lock()
	changed := s.state != state
	s.state = state
	s.mu.Unlock()

	if changed && s.onState != nil {
		s.onState(state)
	}
}
