package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/internal/state"
	"github.com/sparkyweld/sparky-client/models"
)

// wsTestServer upgrades every request and hands the connection to handle.
func wsTestServer(t *testing.T, handle func(*websocket.Conn, *http.Request)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		handle(conn, r)
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newTestManager(t *testing.T, url string, opts ...Option) (*Manager, *state.Store) {
	t.Helper()
	appState := state.NewStore(logger.Nop())
	m := NewManager(Config{URL: url, Enabled: true}, appState, logger.Nop(), opts...)
	t.Cleanup(m.Close)
	return m, appState
}

// ── Backoff ──────────────────────────────────────────────────────────────────

func TestBackoffDelay_Sequence(t *testing.T) {
	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}

	for attempts, expected := range want {
		assert.Equal(t, expected, backoffDelay(attempts), "attempt %d", attempts)
	}
	assert.Equal(t, 30*time.Second, backoffDelay(100))
}

// ── Connect guards ───────────────────────────────────────────────────────────

func TestConnect_NoSession_NoOp(t *testing.T) {
	m, appState := newTestManager(t, "ws://localhost:1", WithoutAutoConnect(), WithoutReconnect())

	m.Connect("")

	assert.Equal(t, models.ConnDisconnected, appState.RealtimeState())
}

func TestConnect_Disabled_NoOp(t *testing.T) {
	appState := state.NewStore(logger.Nop())
	m := NewManager(Config{URL: "ws://localhost:1", Enabled: false}, appState, logger.Nop())
	defer m.Close()

	m.Connect("sess-1")

	assert.Equal(t, models.ConnDisconnected, appState.RealtimeState())
}

func TestConnect_DialFailure_SetsError(t *testing.T) {
	// Nobody listens on this port.
	m, appState := newTestManager(t, "ws://127.0.0.1:1", WithoutAutoConnect(), WithoutReconnect())

	m.Connect("sess-1")

	assert.Equal(t, models.ConnError, appState.RealtimeState())
}

// ── Round trip ───────────────────────────────────────────────────────────────

func TestConnect_RoundTrip(t *testing.T) {
	received := make(chan frame, 1)

	srv := wsTestServer(t, func(conn *websocket.Conn, r *http.Request) {
		defer conn.Close()

		assert.Equal(t, "sess-1", r.URL.Query().Get("session_id"))
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))

		// Push a workflow update to the client.
		payload, _ := json.Marshal(models.WorkflowStatusUpdate{
			SessionID: "sess-1",
			Phase:     models.WorkflowRunning,
			Step:      2,
		})
		require.NoError(t, conn.WriteJSON(frame{Type: kindWorkflowStatus, SessionID: "sess-1", Payload: payload}))

		// Then read one frame back.
		var f frame
		if err := conn.ReadJSON(&f); err == nil {
			received <- f
		}
	})
	defer srv.Close()

	m, appState := newTestManager(t, wsURL(srv), WithoutAutoConnect(), WithoutReconnect())
	appState.SetTokens(models.TokenPair{AccessToken: "access-1"})

	updates := make(chan models.WorkflowStatusUpdate, 1)
	unsub := m.OnWorkflowStatus(func(u models.WorkflowStatusUpdate) { updates <- u })
	defer unsub()

	m.Connect("sess-1")
	require.Equal(t, models.ConnConnected, appState.RealtimeState())

	select {
	case u := <-updates:
		assert.Equal(t, models.WorkflowRunning, u.Phase)
		assert.Equal(t, 2, u.Step)
	case <-time.After(2 * time.Second):
		t.Fatal("workflow update not delivered")
	}

	m.SendTypingIndicator(true)

	select {
	case f := <-received:
		assert.Equal(t, kindTypingIndicator, f.Type)
		assert.Equal(t, "sess-1", f.SessionID)
	case <-time.After(2 * time.Second):
		t.Fatal("typing indicator not received by server")
	}
}

func TestConnect_SameSessionTwice_NoOp(t *testing.T) {
	srv := wsTestServer(t, func(conn *websocket.Conn, r *http.Request) {
		// Keep the connection open until the test tears down.
		_, _, _ = conn.ReadMessage()
		conn.Close()
	})
	defer srv.Close()

	m, appState := newTestManager(t, wsURL(srv), WithoutAutoConnect(), WithoutReconnect())

	m.Connect("sess-1")
	require.Equal(t, models.ConnConnected, appState.RealtimeState())

	m.Connect("sess-1")
	assert.Equal(t, models.ConnConnected, appState.RealtimeState())
}

func TestDisconnect_ResetsState(t *testing.T) {
	srv := wsTestServer(t, func(conn *websocket.Conn, r *http.Request) {
		_, _, _ = conn.ReadMessage()
		conn.Close()
	})
	defer srv.Close()

	m, appState := newTestManager(t, wsURL(srv), WithoutAutoConnect(), WithoutReconnect())

	m.Connect("sess-1")
	require.Equal(t, models.ConnConnected, appState.RealtimeState())

	m.Disconnect()
	assert.Equal(t, models.ConnDisconnected, appState.RealtimeState())
}

// ── Outbound drops ───────────────────────────────────────────────────────────

func TestSend_DroppedWhenNotConnected(t *testing.T) {
	m, appState := newTestManager(t, "ws://localhost:1", WithoutAutoConnect(), WithoutReconnect())

	// None of these may panic or change state.
	m.SendTypingIndicator(true)
	m.CancelWorkflow()
	m.RequestWorkflowStatus()

	assert.Equal(t, models.ConnDisconnected, appState.RealtimeState())
}

// ── Auto connect on session change ───────────────────────────────────────────

func TestAutoConnect_OnSessionAppears(t *testing.T) {
	srv := wsTestServer(t, func(conn *websocket.Conn, r *http.Request) {
		_, _, _ = conn.ReadMessage()
		conn.Close()
	})
	defer srv.Close()

	m, appState := newTestManager(t, wsURL(srv), WithoutReconnect())
	_ = m

	appState.SetSession(models.Session{ID: "sess-9"})

	require.Eventually(t, func() bool {
		return appState.RealtimeState() == models.ConnConnected
	}, 2*time.Second, 10*time.Millisecond)

	appState.ClearSession()

	require.Eventually(t, func() bool {
		return appState.RealtimeState() == models.ConnDisconnected
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAutoConnect_SessionReplaced_RebindsConnection(t *testing.T) {
	dials := make(chan string, 4)
	srv := wsTestServer(t, func(conn *websocket.Conn, r *http.Request) {
		dials <- r.URL.Query().Get("session_id")
		_, _, _ = conn.ReadMessage()
		conn.Close()
	})
	defer srv.Close()

	m, appState := newTestManager(t, wsURL(srv), WithoutReconnect())

	appState.SetSession(models.Session{ID: "sess-1"})
	require.Eventually(t, func() bool {
		return appState.RealtimeState() == models.ConnConnected
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, "sess-1", <-dials)

	// Starting a fresh conversation while the old channel is still open must
	// re-dial so events for the new session arrive.
	appState.SetSession(models.Session{ID: "sess-2"})

	select {
	case id := <-dials:
		assert.Equal(t, "sess-2", id)
	case <-time.After(2 * time.Second):
		t.Fatal("no redial for the replaced session")
	}

	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.sessionID == "sess-2" && appState.RealtimeState() == models.ConnConnected
	}, 2*time.Second, 10*time.Millisecond)
}

// ── Reconnect ────────────────────────────────────────────────────────────────

func TestReconnect_ArmedOnlyFromErrorState(t *testing.T) {
	m, appState := newTestManager(t, "ws://localhost:1", WithoutAutoConnect())

	// Channel is down but not in error: nothing to recover.
	m.scheduleReconnect("sess-1")
	m.mu.Lock()
	assert.Zero(t, m.attempts)
	assert.Nil(t, m.reconnectTimer)
	m.mu.Unlock()

	appState.SetRealtimeState(models.ConnError)
	m.scheduleReconnect("sess-1")
	m.mu.Lock()
	assert.Equal(t, 1, m.attempts)
	require.NotNil(t, m.reconnectTimer)
	m.reconnectTimer.Stop()
	m.mu.Unlock()
}

func TestReconnect_ArmedWhenConnectionDrops(t *testing.T) {
	srv := wsTestServer(t, func(conn *websocket.Conn, r *http.Request) {
		// Drop the connection right after the handshake.
		conn.Close()
	})
	defer srv.Close()

	m, appState := newTestManager(t, wsURL(srv), WithoutAutoConnect())

	// The dial succeeds, then the server side goes away under the read loop.
	m.Connect("sess-1")

	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.attempts == 1 && m.reconnectTimer != nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, models.ConnError, appState.RealtimeState())

	m.mu.Lock()
	m.reconnectTimer.Stop()
	m.mu.Unlock()
}

func TestReconnect_CapThenExplicitConnectResets(t *testing.T) {
	srv := wsTestServer(t, func(conn *websocket.Conn, r *http.Request) {
		_, _, _ = conn.ReadMessage()
		conn.Close()
	})
	defer srv.Close()

	m, appState := newTestManager(t, wsURL(srv), WithoutAutoConnect(), WithMaxReconnectAttempts(2))
	appState.SetRealtimeState(models.ConnError)

	// Arm twice, disarming the timer each time so it never fires mid-test.
	armReconnect := func() {
		m.scheduleReconnect("sess-1")
		m.mu.Lock()
		if m.reconnectTimer != nil {
			m.reconnectTimer.Stop()
			m.reconnectTimer = nil
		}
		m.mu.Unlock()
	}
	armReconnect()
	armReconnect()

	m.mu.Lock()
	require.Equal(t, 2, m.attempts)
	m.mu.Unlock()

	// Past the cap the channel stays in error and no further timer is armed.
	m.scheduleReconnect("sess-1")
	m.mu.Lock()
	assert.Equal(t, 2, m.attempts)
	assert.Nil(t, m.reconnectTimer)
	m.mu.Unlock()
	assert.Equal(t, models.ConnError, appState.RealtimeState())

	// An explicit Connect recovers and resets the counter.
	m.Connect("sess-1")
	assert.Equal(t, models.ConnConnected, appState.RealtimeState())
	m.mu.Lock()
	assert.Zero(t, m.attempts)
	m.mu.Unlock()
}

// ── Dispatch ─────────────────────────────────────────────────────────────────

func TestDispatch_TypedEvents(t *testing.T) {
	m, _ := newTestManager(t, "ws://localhost:1", WithoutAutoConnect(), WithoutReconnect())

	var (
		gotChat  []models.ChatMessage
		gotAgent []models.AgentExecutionUpdate
		gotRecs  []models.RecommendationUpdate
		gotTyped []models.TypingUpdate
		gotErrs  []models.RealtimeError
	)
	m.OnChatMessage(func(v models.ChatMessage) { gotChat = append(gotChat, v) })
	m.OnAgentExecution(func(v models.AgentExecutionUpdate) { gotAgent = append(gotAgent, v) })
	m.OnRecommendation(func(v models.RecommendationUpdate) { gotRecs = append(gotRecs, v) })
	m.OnTyping(func(v models.TypingUpdate) { gotTyped = append(gotTyped, v) })
	m.OnError(func(v models.RealtimeError) { gotErrs = append(gotErrs, v) })

	m.dispatch([]byte(`{"type":"chat_message","payload":{"id":"m1","role":"assistant","content":"hello"}}`))
	m.dispatch([]byte(`{"type":"agent_execution","payload":{"agent_name":"pricing","status":"running"}}`))
	m.dispatch([]byte(`{"type":"recommendation","payload":{"recommendations":[{"package_id":"p1","name":"MIG starter"}]}}`))
	m.dispatch([]byte(`{"type":"typing_indicator","payload":{"is_typing":true}}`))
	m.dispatch([]byte(`{"type":"error","payload":{"message":"agent crashed","recovery":["retry"]}}`))

	// Unknown types and malformed frames are discarded silently.
	m.dispatch([]byte(`{"type":"no_such_kind","payload":{}}`))
	m.dispatch([]byte(`not json`))

	require.Len(t, gotChat, 1)
	assert.Equal(t, "hello", gotChat[0].Content)
	require.Len(t, gotAgent, 1)
	assert.Equal(t, "pricing", gotAgent[0].AgentName)
	require.Len(t, gotRecs, 1)
	require.Len(t, gotRecs[0].Recommendations, 1)
	assert.Equal(t, "MIG starter", gotRecs[0].Recommendations[0].Name)
	require.Len(t, gotTyped, 1)
	assert.True(t, gotTyped[0].IsTyping)
	require.Len(t, gotErrs, 1)
	assert.Equal(t, "agent crashed", gotErrs[0].Message)
	assert.Equal(t, []string{"retry"}, gotErrs[0].Recovery)
}

func TestUnsubscribe_Idempotent(t *testing.T) {
	m, _ := newTestManager(t, "ws://localhost:1", WithoutAutoConnect(), WithoutReconnect())

	var calls int
	unsub := m.OnTyping(func(models.TypingUpdate) { calls++ })

	m.typing.emit(models.TypingUpdate{IsTyping: true})
	unsub()
	unsub() // second call is a no-op
	m.typing.emit(models.TypingUpdate{IsTyping: false})

	assert.Equal(t, 1, calls)
}
