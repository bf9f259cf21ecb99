package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/internal/state"
	"github.com/sparkyweld/sparky-client/models"
)

const (
	defaultMaxReconnectAttempts = 5
	defaultDialTimeout          = 10 * time.Second
	maxBackoff                  = 30 * time.Second
)

// Config carries the settings needed to construct a [Manager].
type Config struct {
	// URL is the WebSocket endpoint (ws:// or wss://).
	URL string

	// Enabled gates the whole channel. A disabled manager ignores
	// auto-connect triggers and Connect becomes a no-op.
	Enabled bool

	// DialTimeout bounds a single dial attempt. Defaults to 10 seconds.
	DialTimeout time.Duration
}

// Option tunes Manager behaviour beyond Config.
type Option func(*Manager)

// WithoutAutoConnect disables connecting automatically when a session
// identifier appears in the store.
func WithoutAutoConnect() Option {
	return func(m *Manager) { m.autoConnect = false }
}

// WithoutReconnect disables the automatic backoff reconnect loop.
func WithoutReconnect() Option {
	return func(m *Manager) { m.enableReconnect = false }
}

// WithMaxReconnectAttempts overrides the reconnect attempt cap (default 5).
func WithMaxReconnectAttempts(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// Manager owns the single logical realtime connection for the active
// session. The connection state machine
// (disconnected → connecting → connected, connected → error,
// error → connecting while retrying) is written to the shared store; typed
// events fan out to subscribers registered via the On* methods.
type Manager struct {
	cfg    Config
	store  *state.Store
	logger *logger.Logger

	autoConnect     bool
	enableReconnect bool
	maxAttempts     int

	mu             sync.Mutex
	conn           *websocket.Conn
	sessionID      string
	attempts       int
	reconnectTimer *time.Timer
	closed         bool

	writeMu sync.Mutex

	storeUnsub func()

	connStatus      registry[models.ConnectionState]
	chatMessages    registry[models.ChatMessage]
	workflowStatus  registry[models.WorkflowStatusUpdate]
	agentExecution  registry[models.AgentExecutionUpdate]
	typing          registry[models.TypingUpdate]
	recommendations registry[models.RecommendationUpdate]
	errors          registry[models.RealtimeError]
}

// NewManager constructs a Manager bound to store. When the store gains a
// session identifier, the manager connects automatically (unless
// [WithoutAutoConnect] is given or cfg.Enabled is false); when the session
// is replaced, it re-dials for the new one; when the session is cleared, it
// disconnects.
func NewManager(cfg Config, store *state.Store, log *logger.Logger, opts ...Option) *Manager {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}

	m := &Manager{
		cfg:             cfg,
		store:           store,
		logger:          log,
		autoConnect:     true,
		enableReconnect: true,
		maxAttempts:     defaultMaxReconnectAttempts,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.storeUnsub = store.Subscribe(func(c state.Change) {
		if c != state.SessionChanged {
			return
		}
		sessionID := store.SessionID()
		if sessionID == "" {
			go m.Disconnect()
			return
		}
		if !m.autoConnect || !m.cfg.Enabled {
			return
		}

		m.mu.Lock()
		bound := m.sessionID
		m.mu.Unlock()

		// Dial when the channel is down, or re-dial when the active session
		// no longer matches the one the open connection is bound to.
		if store.RealtimeState() == models.ConnDisconnected || bound != sessionID {
			go m.Connect("")
		}
	})

	return m
}

// Connect opens the realtime connection for sessionID, or for the session
// held in the store when sessionID is empty. Without any session identifier
// it no-ops with a diagnostic and leaves the connection state untouched.
// Calling Connect while already connected for the same session is a no-op.
func (m *Manager) Connect(sessionID string) {
	if !m.cfg.Enabled {
		m.logger.Debug().Msg("realtime disabled, connect skipped")
		return
	}

	if sessionID == "" {
		sessionID = m.store.SessionID()
	}
	if sessionID == "" {
		m.logger.Debug().Msg("connect skipped: no session id available")
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if m.conn != nil && m.sessionID == sessionID {
		m.mu.Unlock()
		return
	}
	if m.conn != nil {
		// Session changed underneath an open connection: replace it.
		stale := m.conn
		m.conn = nil
		m.mu.Unlock()
		_ = stale.Close()
		m.mu.Lock()
	}
	if m.store.RealtimeState() == models.ConnConnecting {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.store.SetRealtimeState(models.ConnConnecting)

	conn, err := m.dial(sessionID)
	if err != nil {
		m.logger.Warn().Err(err).Str("session_id", sessionID).Msg("realtime dial failed")
		m.store.SetRealtimeState(models.ConnError)
		m.connStatus.emit(models.ConnError)
		m.scheduleReconnect(sessionID)
		return
	}

	m.mu.Lock()
	m.conn = conn
	m.sessionID = sessionID
	m.attempts = 0
	m.mu.Unlock()

	m.store.SetRealtimeState(models.ConnConnected)
	m.connStatus.emit(models.ConnConnected)
	m.logger.Info().Str("session_id", sessionID).Msg("realtime connected")

	go m.readLoop(conn, sessionID)
}

func (m *Manager) dial(sessionID string) (*websocket.Conn, error) {
	u, err := url.Parse(m.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse realtime url: %w", err)
	}
	q := u.Query()
	q.Set("session_id", sessionID)
	u.RawQuery = q.Encode()

	header := http.Header{}
	if token := m.store.AccessToken(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: m.cfg.DialTimeout}
	conn, resp, err := dialer.Dial(u.String(), header)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}
	return conn, nil
}

// Disconnect tears down the active connection and any pending reconnect
// timer. Safe to call when already disconnected.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.sessionID = ""
	m.attempts = 0
	if m.reconnectTimer != nil {
		m.reconnectTimer.Stop()
		m.reconnectTimer = nil
	}
	m.mu.Unlock()

	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client disconnect"),
			time.Now().Add(time.Second))
		_ = conn.Close()
		m.logger.Info().Msg("realtime disconnected")
	}

	m.store.SetRealtimeState(models.ConnDisconnected)
	m.connStatus.emit(models.ConnDisconnected)
}

// Close shuts the manager down for good: disconnects if connected, stops
// watching the store, and drops every subscription so no event can reach a
// torn-down owner.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	if m.storeUnsub != nil {
		m.storeUnsub()
	}
	m.Disconnect()

	m.connStatus.clear()
	m.chatMessages.clear()
	m.workflowStatus.clear()
	m.agentExecution.clear()
	m.typing.clear()
	m.recommendations.clear()
	m.errors.clear()
}

// OnConnectionStatus subscribes to connection state changes.
func (m *Manager) OnConnectionStatus(fn func(models.ConnectionState)) Unsubscribe {
	return m.connStatus.add(fn)
}

// OnChatMessage subscribes to assistant chat turns. User turns are posted
// over HTTP and echoed locally, so only assistant messages arrive here.
func (m *Manager) OnChatMessage(fn func(models.ChatMessage)) Unsubscribe {
	return m.chatMessages.add(fn)
}

// OnWorkflowStatus subscribes to workflow status updates.
func (m *Manager) OnWorkflowStatus(fn func(models.WorkflowStatusUpdate)) Unsubscribe {
	return m.workflowStatus.add(fn)
}

// OnAgentExecution subscribes to agent execution updates.
func (m *Manager) OnAgentExecution(fn func(models.AgentExecutionUpdate)) Unsubscribe {
	return m.agentExecution.add(fn)
}

// OnTyping subscribes to typing indicator updates.
func (m *Manager) OnTyping(fn func(models.TypingUpdate)) Unsubscribe {
	return m.typing.add(fn)
}

// OnRecommendation subscribes to recommendation updates.
func (m *Manager) OnRecommendation(fn func(models.RecommendationUpdate)) Unsubscribe {
	return m.recommendations.add(fn)
}

// OnError subscribes to realtime transport errors.
func (m *Manager) OnError(fn func(models.RealtimeError)) Unsubscribe {
	return m.errors.add(fn)
}

// SendTypingIndicator tells the backend the user started or stopped typing.
// Dropped silently unless the channel is connected.
func (m *Manager) SendTypingIndicator(isTyping bool) {
	payload, _ := json.Marshal(typingPayload{IsTyping: isTyping})
	m.send(frame{Type: kindTypingIndicator, Payload: payload})
}

// CancelWorkflow asks the orchestrator to cancel the running workflow.
// Dropped silently unless the channel is connected.
func (m *Manager) CancelWorkflow() {
	m.send(frame{Type: kindCancelWorkflow})
}

// RequestWorkflowStatus asks the orchestrator to push the current workflow
// status. Dropped silently unless the channel is connected.
func (m *Manager) RequestWorkflowStatus() {
	m.send(frame{Type: kindWorkflowStatusRequest})
}

func (m *Manager) send(f frame) {
	if m.store.RealtimeState() != models.ConnConnected {
		m.logger.Debug().Str("type", f.Type).Msg("realtime send dropped: not connected")
		return
	}

	m.mu.Lock()
	conn := m.conn
	f.SessionID = m.sessionID
	m.mu.Unlock()
	if conn == nil {
		return
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	if err := conn.WriteJSON(f); err != nil {
		m.logger.Warn().Err(err).Str("type", f.Type).Msg("realtime send failed")
	}
}

func (m *Manager) readLoop(conn *websocket.Conn, sessionID string) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			m.mu.Lock()
			active := m.conn == conn
			if active {
				m.conn = nil
			}
			closed := m.closed
			m.mu.Unlock()

			// A connection replaced or torn down on purpose is not an error.
			if !active || closed {
				return
			}

			m.logger.Warn().Err(err).Msg("realtime connection lost")
			m.store.SetRealtimeState(models.ConnError)
			m.connStatus.emit(models.ConnError)
			m.errors.emit(models.RealtimeError{
				Message: "Realtime connection lost.",
				Recovery: []string{
					"Check your network connection.",
					"The client retries automatically for a few attempts.",
					"Reconnect manually if updates stay paused.",
				},
			})
			m.scheduleReconnect(sessionID)
			return
		}

		m.dispatch(data)
	}
}

func (m *Manager) dispatch(data []byte) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		m.logger.Debug().Err(err).Msg("realtime frame discarded: bad json")
		return
	}

	switch f.Type {
	case kindConnectionStatus:
		var p connectionStatusPayload
		if err := json.Unmarshal(f.Payload, &p); err == nil {
			m.connStatus.emit(models.ConnectionState(p.Status))
		}
	case kindChatMessage:
		var p models.ChatMessage
		if err := json.Unmarshal(f.Payload, &p); err == nil {
			m.chatMessages.emit(p)
		}
	case kindWorkflowStatus:
		var p models.WorkflowStatusUpdate
		if err := json.Unmarshal(f.Payload, &p); err == nil {
			m.workflowStatus.emit(p)
		}
	case kindAgentExecution:
		var p models.AgentExecutionUpdate
		if err := json.Unmarshal(f.Payload, &p); err == nil {
			m.agentExecution.emit(p)
		}
	case kindTypingIndicator:
		var p models.TypingUpdate
		if err := json.Unmarshal(f.Payload, &p); err == nil {
			m.typing.emit(p)
		}
	case kindRecommendation:
		var p models.RecommendationUpdate
		if err := json.Unmarshal(f.Payload, &p); err == nil {
			m.recommendations.emit(p)
		}
	case kindError:
		var p models.RealtimeError
		if err := json.Unmarshal(f.Payload, &p); err == nil {
			m.errors.emit(p)
		}
	default:
		m.logger.Debug().Str("type", f.Type).Msg("realtime frame discarded: unknown type")
	}
}

// scheduleReconnect arms the backoff timer. Runs only while the channel is
// in the error state, a session identifier exists, and the attempt counter
// is below the cap; past the cap the channel stays in error until an
// explicit Connect.
func (m *Manager) scheduleReconnect(sessionID string) {
	if !m.enableReconnect || sessionID == "" {
		return
	}
	if m.store.RealtimeState() != models.ConnError {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	if m.attempts >= m.maxAttempts {
		m.logger.Warn().Int("attempts", m.attempts).Msg("realtime reconnect attempts exhausted")
		return
	}

	delay := backoffDelay(m.attempts)
	m.attempts++
	m.logger.Info().
		Int("attempt", m.attempts).
		Dur("delay", delay).
		Msg("realtime reconnect scheduled")

	m.reconnectTimer = time.AfterFunc(delay, func() {
		m.Connect(sessionID)
	})
}

// backoffDelay is min(1s * 2^attempts, 30s): 1s, 2s, 4s, 8s, 16s, 30s, ...
func backoffDelay(attempts int) time.Duration {
	if attempts > 5 {
		return maxBackoff
	}
	d := time.Duration(1<<uint(attempts)) * time.Second
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}
