// Package stream maintains the push channel to the yodel server.
//
// One Manager owns one logical websocket connection for the life of a
// session. Any abnormal termination schedules a reconnect with capped
// exponential backoff; an intentional teardown (context cancellation) sends
// a normal-closure frame and stops for good. Transport lifecycle is exposed
// as a State channel so consumers never have to touch the socket.
package stream

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// State is the connection status of the push channel.
type State string

const (
	// StateDisconnected is the initial state, re-entered on every error or
	// unclean close.
	StateDisconnected State = "disconnected"
	// StateConnected is entered only after a successful open handshake.
	StateConnected State = "connected"
)

const (
	defaultMinBackoff = time.Second
	defaultMaxBackoff = 30 * time.Second

	// The server heartbeats every 5s and drops silent clients after 10s.
	// Give it three missed heartbeats before declaring the link dead.
	defaultReadTimeout = 15 * time.Second

	writeTimeout = 5 * time.Second
)

// Options tune the reconnect and liveness behavior of a Manager.
type Options struct {
	MinBackoff  time.Duration
	MaxBackoff  time.Duration
	ReadTimeout time.Duration
}

// Manager owns the websocket connection. Create with NewManager, then call
// Run exactly once; messages and state transitions arrive on the channels
// until Run returns.
type Manager struct {
	url    string
	opts   Options
	logger *slog.Logger
	dialer *websocket.Dialer

	messages chan []byte
	states   chan State

	mu    sync.Mutex
	state State
}

// NewManager creates a manager for the given websocket URL
// (e.g. "ws://localhost:8080/ws").
func NewManager(url string, opts Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MinBackoff <= 0 {
		opts.MinBackoff = defaultMinBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = defaultReadTimeout
	}
	return &Manager{
		url:      url,
		opts:     opts,
		logger:   logger,
		dialer:   websocket.DefaultDialer,
		messages: make(chan []byte),
		states:   make(chan State, 16),
		state:    StateDisconnected,
	}
}

// Messages returns the inbound frame channel. Frames are delivered in
// arrival order and never dropped; the channel is closed when Run returns.
func (m *Manager) Messages() <-chan []byte {
	return m.messages
}

// States returns the state transition channel. Only changes are reported.
func (m *Manager) States() <-chan State {
	return m.states
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	if m.state == s {
		m.mu.Unlock()
		return
	}
	m.state = s
	m.mu.Unlock()

	select {
	case m.states <- s:
	default:
		m.logger.Warn("state channel full, dropping transition", "state", s)
	}
}

// Run connects and keeps the channel alive until ctx is canceled. It always
// returns ctx.Err(); dial and read failures are absorbed into the reconnect
// loop rather than surfaced.
func (m *Manager) Run(ctx context.Context) error {
	defer close(m.messages)

	backoff := m.opts.MinBackoff
	for {
		conn, resp, err := m.dialer.DialContext(ctx, m.url, nil)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.logger.Warn("connect failed", "url", m.url, "error", err, "retry_in", backoff)
			if !m.sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextBackoff(backoff, m.opts.MaxBackoff)
			continue
		}

		m.setState(StateConnected)
		m.logger.Info("connected", "url", m.url)
		backoff = m.opts.MinBackoff

		err = m.read(ctx, conn)
		m.setState(StateDisconnected)

		if ctx.Err() != nil {
			return ctx.Err()
		}

		m.logger.Warn("connection lost", "error", err, "retry_in", backoff)
		if !m.sleep(ctx, backoff) {
			return ctx.Err()
		}
		backoff = nextBackoff(backoff, m.opts.MaxBackoff)
	}
}

// read pumps frames from one connection until it dies or ctx is canceled.
// On cancellation it sends a normal-closure frame so the server sees a clean
// goodbye instead of a dropped socket.
func (m *Manager) read(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
			// Give the server a moment to answer the close handshake
			// before tearing the socket down.
			select {
			case <-done:
			case <-time.After(writeTimeout):
			}
			_ = conn.Close()
		case <-done:
			_ = conn.Close()
		}
	}()

	deadline := func() { _ = conn.SetReadDeadline(time.Now().Add(m.opts.ReadTimeout)) }
	deadline()
	conn.SetPingHandler(func(appData string) error {
		deadline()
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeTimeout))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		deadline()

		select {
		case m.messages <- data:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// sleep waits for d or cancellation; false means the context died.
func (m *Manager) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func nextBackoff(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		return max
	}
	return next
}
