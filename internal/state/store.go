// SPDX-License-Identifier: Apache-2.0

// Package state holds the shared client state: credentials, the active
// configurator session, backend connectivity, the realtime channel state,
// and pending user notifications.
//
// The [Store] is the single owner of every one of those fields. The API
// client and the realtime session manager receive it by injection and go
// through its action methods for every read and write; nothing else in the
// codebase shares mutable state with them. Components that need to react to
// changes register a callback via [Store.Subscribe].
package state

import (
	"sync"
	"time"

	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/models"
)

// maxNotifications bounds the retained notification history.
const maxNotifications = 50

// Change identifies which part of the store was mutated. Delivered to
// subscribers after the mutation has been applied.
type Change int

const (
	// TokensChanged fires when the token pair is replaced or cleared.
	TokensChanged Change = iota
	// SessionChanged fires when the active session is set or cleared.
	SessionChanged
	// ConnectivityChanged fires when backend HTTP reachability flips.
	ConnectivityChanged
	// RealtimeStateChanged fires when the realtime connection state moves.
	RealtimeStateChanged
	// NotificationPushed fires when a user-facing notification is queued.
	NotificationPushed
	// AuthExpired fires once when an unrecoverable auth failure sends the
	// user back to the login screen.
	AuthExpired
)

// Store is the single-owner state container shared by the API client, the
// realtime session manager, and the UI. All mutations go through action
// methods that hold the store lock; subscriber callbacks are invoked after
// the lock is released so they may call back into the store.
type Store struct {
	logger *logger.Logger

	mu            sync.RWMutex
	tokens        models.TokenPair
	session       models.Session
	connectivity  models.Connectivity
	realtime      models.ConnectionState
	notifications []models.Notification

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

// NewStore constructs an empty Store: no credentials, no session, backend
// connectivity "connected" (optimistic until a request fails), realtime
// channel disconnected.
func NewStore(log *logger.Logger) *Store {
	return &Store{
		logger:       log,
		connectivity: models.BackendConnected,
		realtime:     models.ConnDisconnected,
		subs:         make(map[int]func(Change)),
	}
}

// Subscribe registers fn to be called after every store mutation. The
// returned unsubscribe function is idempotent.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) publish(c Change) {
	s.subMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// SetTokens replaces the held token pair wholesale.
func (s *Store) SetTokens(tokens models.TokenPair) {
	s.mu.Lock()
	s.tokens = tokens
	s.mu.Unlock()

	s.publish(TokensChanged)
}

// ClearCredentials drops both tokens. Subsequent requests go out
// unauthenticated.
func (s *Store) ClearCredentials() {
	s.mu.Lock()
	s.tokens = models.TokenPair{}
	s.mu.Unlock()

	s.publish(TokensChanged)
}

// AccessToken returns the current bearer token, or "" if absent.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.AccessToken
}

// RefreshToken returns the current refresh token, or "" if absent.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.RefreshToken
}

// Tokens returns a copy of the held token pair.
func (s *Store) Tokens() models.TokenPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}

// SetSession records the active configurator session.
func (s *Store) SetSession(session models.Session) {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	s.publish(SessionChanged)
}

// ClearSession drops the active session (conversation reset).
func (s *Store) ClearSession() {
	s.mu.Lock()
	s.session = models.Session{}
	s.mu.Unlock()

	s.publish(SessionChanged)
}

// SessionID returns the active session identifier, or "" if none.
func (s *Store) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.ID
}

// SetConnectivity records backend HTTP reachability. Publishing is skipped
// when the value does not change, so every successful request does not spam
// subscribers.
func (s *Store) SetConnectivity(c models.Connectivity) {
	s.mu.Lock()
	changed := s.connectivity != c
	s.connectivity = c
	s.mu.Unlock()

	if changed {
		s.publish(ConnectivityChanged)
	}
}

// Connectivity returns the last observed backend reachability.
func (s *Store) Connectivity() models.Connectivity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connectivity
}

// SetRealtimeState records the realtime channel state.
func (s *Store) SetRealtimeState(c models.ConnectionState) {
	s.mu.Lock()
	changed := s.realtime != c
	s.realtime = c
	s.mu.Unlock()

	if changed {
		s.publish(RealtimeStateChanged)
	}
}

// RealtimeState returns the current realtime channel state.
func (s *Store) RealtimeState() models.ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.realtime
}

// Notify queues a user-facing notification and logs it. History is capped;
// the oldest entries fall off first.
func (s *Store) Notify(level models.NotificationLevel, message string) {
	n := models.Notification{Level: level, Message: message, At: time.Now()}

	s.mu.Lock()
	s.notifications = append(s.notifications, n)
	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info().Str("level", string(level)).Str("message", message).Msg("notification")
	}
	s.publish(NotificationPushed)
}

// Notifications returns a copy of the retained notification history, oldest
// first.
func (s *Store) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// LatestNotification returns the most recent notification and true, or the
// zero value and false when none exists.
func (s *Store) LatestNotification() (models.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.notifications) == 0 {
		return models.Notification{}, false
	}
	return s.notifications[len(s.notifications)-1], true
}

// SignalAuthExpired announces an unrecoverable auth failure. The UI maps
// this to a forced return to the login screen.
func (s *Store) SignalAuthExpired() {
	s.publish(AuthExpired)
}
