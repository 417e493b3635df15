package orderfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"mataam/internal/config"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// feedServer upgrades each connection, records the first message and pushes
// the given payloads.
type feedServer struct {
	*httptest.Server

	mu       sync.Mutex
	joins    []string
	payloads [][]byte
}

func newFeedServer(t *testing.T, payloads ...[]byte) *feedServer {
	t.Helper()

	fs := &feedServer{payloads: payloads}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, join, err := conn.ReadMessage()
		if err != nil {
			return
		}
		fs.mu.Lock()
		fs.joins = append(fs.joins, string(join))
		fs.mu.Unlock()

		for _, payload := range fs.payloads {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}

		// Hold the connection open until the client hangs up.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *feedServer) wsURL() string {
	return "ws" + strings.TrimPrefix(fs.URL, "http")
}

func (fs *feedServer) firstJoin() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.joins) == 0 {
		return ""
	}
	return fs.joins[0]
}

func newTestSocket(t *testing.T, url string, feed *Feed, onState func(ConnState)) *Socket {
	t.Helper()
	return NewSocket(config.FeedConfig{
		WSURL:            url,
		ReconnectWait:    10 * time.Millisecond,
		MaxReconnectWait: 20 * time.Millisecond,
		MaxReconnectFor:  50 * time.Millisecond,
	}, "shami", feed, onState, zerolog.Nop())
}

func TestSocket_JoinsTenantGroupAndAppliesPushes(t *testing.T) {
	server := newFeedServer(t, []byte(`{"Id": 42, "OrderNumber": "A-42", "OrderStatus": "Pending"}`))

	feed := newStaffFeed(t, new(mockAPI), &spyNotifier{})
	socket := newTestSocket(t, server.wsURL(), feed, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go socket.Run(ctx)

	require.Eventually(t, func() bool {
		return len(feed.Orders()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "JOIN:shami:shami-orders", server.firstJoin())
	assert.Equal(t, int64(42), feed.Orders()[0].ID)
	assert.Equal(t, 1, feed.TotalItems())

	cancel()
	require.Eventually(t, func() bool {
		return socket.State() == ConnDisconnected
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSocket_DropsUndecodableMessages(t *testing.T) {
	server := newFeedServer(t,
		[]byte(`not json at all`),
		[]byte(`{"Id": 7}`),
	)

	feed := newStaffFeed(t, new(mockAPI), &spyNotifier{})
	socket := newTestSocket(t, server.wsURL(), feed, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go socket.Run(ctx)

	require.Eventually(t, func() bool {
		return len(feed.Orders()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(7), feed.Orders()[0].ID)
}

func TestSocket_GivesUpAfterRetryBudget(t *testing.T) {
	// A server that is already gone makes every dial fail.
	server := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	server.Close()

	var states []ConnState
	var mu sync.Mutex
	feed := newStaffFeed(t, new(mockAPI), &spyNotifier{})
	socket := newTestSocket(t, url, feed, func(s ConnState) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	socket.Run(context.Background())

	assert.Equal(t, ConnGaveUp, socket.State())
	mu.Lock()
	assert.Contains(t, states, ConnConnecting)
	assert.Equal(t, ConnGaveUp, states[len(states)-1])
	mu.Unlock()
}

func TestSocket_FlappingJoinStillExhaustsBudget(t *testing.T) {
	// Accepts the join and drops the connection immediately. Such a session
	// delivers nothing and must not reset the retry schedule.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_, _, _ = conn.ReadMessage()
		conn.Close()
	}))
	defer server.Close()

	feed := newStaffFeed(t, new(mockAPI), &spyNotifier{})
	socket := NewSocket(config.FeedConfig{
		WSURL:            "ws" + strings.TrimPrefix(server.URL, "http"),
		ReconnectWait:    20 * time.Millisecond,
		MaxReconnectWait: 40 * time.Millisecond,
		MaxReconnectFor:  100 * time.Millisecond,
	}, "shami", feed, nil, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		socket.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
		assert.Equal(t, ConnGaveUp, socket.State())
	case <-time.After(5 * time.Second):
		t.Fatal("retry budget never triggered")
	}
}

func TestSocket_ReconnectReArmsAfterGivingUp(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := "ws" + strings.TrimPrefix(dead.URL, "http")
	dead.Close()

	feed := newStaffFeed(t, new(mockAPI), &spyNotifier{})
	socket := newTestSocket(t, deadURL, feed, nil)

	socket.Run(context.Background())
	require.Equal(t, ConnGaveUp, socket.State())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	socket.Reconnect(ctx)

	require.Eventually(t, func() bool {
		return socket.State() != ConnGaveUp
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSocket_SecondRunIsNoOp(t *testing.T) {
	server := newFeedServer(t)

	feed := newStaffFeed(t, new(mockAPI), &spyNotifier{})
	socket := newTestSocket(t, server.wsURL(), feed, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go socket.Run(ctx)

	require.Eventually(t, func() bool {
		return socket.State() == ConnConnected
	}, 2*time.Second, 10*time.Millisecond)

	// Returns immediately instead of starting a second dial loop.
	done := make(chan struct{})
	go func() {
		socket.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second Run did not return")
	}
}
