// SPDX-License-Identifier: Apache-2.0

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/models"
)

func newTestStore() *Store {
	return NewStore(logger.Nop())
}

// ── Initial state ────────────────────────────────────────────────────────────

func TestNewStore_Defaults(t *testing.T) {
	s := newTestStore()

	assert.True(t, s.Tokens().Empty())
	assert.Empty(t, s.SessionID())
	assert.Equal(t, models.BackendConnected, s.Connectivity())
	assert.Equal(t, models.ConnDisconnected, s.RealtimeState())
	assert.Empty(t, s.Notifications())

	_, ok := s.LatestNotification()
	assert.False(t, ok)
}

// ── Tokens ───────────────────────────────────────────────────────────────────

func TestSetTokens_ReplacesPairAndPublishes(t *testing.T) {
	s := newTestStore()

	var changes []Change
	unsub := s.Subscribe(func(c Change) { changes = append(changes, c) })
	defer unsub()

	s.SetTokens(models.TokenPair{AccessToken: "a1", RefreshToken: "r1"})

	assert.Equal(t, "a1", s.AccessToken())
	assert.Equal(t, "r1", s.RefreshToken())
	assert.Equal(t, []Change{TokensChanged}, changes)
}

func TestClearCredentials(t *testing.T) {
	s := newTestStore()
	s.SetTokens(models.TokenPair{AccessToken: "a1", RefreshToken: "r1"})

	s.ClearCredentials()

	assert.True(t, s.Tokens().Empty())
	assert.Empty(t, s.AccessToken())
}

// ── Session ──────────────────────────────────────────────────────────────────

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore()

	var sessionChanges int
	unsub := s.Subscribe(func(c Change) {
		if c == SessionChanged {
			sessionChanges++
		}
	})
	defer unsub()

	s.SetSession(models.Session{ID: "sess-42"})
	assert.Equal(t, "sess-42", s.SessionID())

	s.ClearSession()
	assert.Empty(t, s.SessionID())

	assert.Equal(t, 2, sessionChanges)
}

// ── Connectivity ─────────────────────────────────────────────────────────────

func TestSetConnectivity_PublishesOnlyOnFlip(t *testing.T) {
	s := newTestStore()

	var flips int
	unsub := s.Subscribe(func(c Change) {
		if c == ConnectivityChanged {
			flips++
		}
	})
	defer unsub()

	// Already connected by default: no publish.
	s.SetConnectivity(models.BackendConnected)
	assert.Equal(t, 0, flips)

	s.SetConnectivity(models.BackendDisconnected)
	s.SetConnectivity(models.BackendDisconnected)
	s.SetConnectivity(models.BackendConnected)

	assert.Equal(t, 2, flips)
}

func TestSetRealtimeState_PublishesOnlyOnChange(t *testing.T) {
	s := newTestStore()

	var moves int
	unsub := s.Subscribe(func(c Change) {
		if c == RealtimeStateChanged {
			moves++
		}
	})
	defer unsub()

	s.SetRealtimeState(models.ConnConnecting)
	s.SetRealtimeState(models.ConnConnecting)
	s.SetRealtimeState(models.ConnConnected)

	assert.Equal(t, 2, moves)
	assert.Equal(t, models.ConnConnected, s.RealtimeState())
}

// ── Notifications ────────────────────────────────────────────────────────────

func TestNotify_AppendsAndPublishes(t *testing.T) {
	s := newTestStore()

	var pushed int
	unsub := s.Subscribe(func(c Change) {
		if c == NotificationPushed {
			pushed++
		}
	})
	defer unsub()

	s.Notify(models.NotifyError, "boom")
	s.Notify(models.NotifyInfo, "recovered")

	notifications := s.Notifications()
	require.Len(t, notifications, 2)
	assert.Equal(t, "boom", notifications[0].Message)
	assert.Equal(t, models.NotifyError, notifications[0].Level)

	latest, ok := s.LatestNotification()
	require.True(t, ok)
	assert.Equal(t, "recovered", latest.Message)
	assert.Equal(t, 2, pushed)
}

func TestNotify_HistoryCapped(t *testing.T) {
	s := newTestStore()

	for i := 0; i < maxNotifications+10; i++ {
		s.Notify(models.NotifyInfo, "n")
	}

	assert.Len(t, s.Notifications(), maxNotifications)
}

// ── Subscriptions ────────────────────────────────────────────────────────────

func TestUnsubscribe_Idempotent(t *testing.T) {
	s := newTestStore()

	var calls int
	unsub := s.Subscribe(func(Change) { calls++ })

	s.SetTokens(models.TokenPair{AccessToken: "a"})
	unsub()
	unsub() // second call is a no-op
	s.SetTokens(models.TokenPair{AccessToken: "b"})

	assert.Equal(t, 1, calls)
}

func TestSubscriber_MayCallBackIntoStore(t *testing.T) {
	s := newTestStore()

	var observed string
	unsub := s.Subscribe(func(c Change) {
		if c == TokensChanged {
			// Callbacks run outside the store lock.
			observed = s.AccessToken()
		}
	})
	defer unsub()

	s.SetTokens(models.TokenPair{AccessToken: "reentrant"})
	assert.Equal(t, "reentrant", observed)
}

func TestSignalAuthExpired(t *testing.T) {
	s := newTestStore()

	var got []Change
	unsub := s.Subscribe(func(c Change) { got = append(got, c) })
	defer unsub()

	s.SignalAuthExpired()
	assert.Equal(t, []Change{AuthExpired}, got)
}
