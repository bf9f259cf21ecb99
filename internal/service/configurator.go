package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/internal/state"
	"github.com/sparkyweld/sparky-client/internal/store"
	"github.com/sparkyweld/sparky-client/models"
)

// ErrNoActiveSession is returned by conversation operations that require a
// started workflow.
var ErrNoActiveSession = errors.New("no active session")

type configuratorService struct {
	gateway  Gateway
	appState *state.Store
	local    *store.ClientStorages
	logger   *logger.Logger
}

// NewConfiguratorService constructs the [ConfiguratorService].
func NewConfiguratorService(gateway Gateway, appState *state.Store, local *store.ClientStorages, log *logger.Logger) ConfiguratorService {
	return &configuratorService{gateway: gateway, appState: appState, local: local, logger: log}
}

// StartConversation implements [ConfiguratorService]. Setting the session in
// the state store is what triggers the realtime auto-connect.
func (c *configuratorService) StartConversation(ctx context.Context) (models.Session, error) {
	var resp models.StartWorkflowResponse
	if err := c.gateway.Post(ctx, "/api/orchestrator/workflows", nil, &resp); err != nil {
		return models.Session{}, fmt.Errorf("start workflow: %w", err)
	}
	if resp.SessionID == "" {
		return models.Session{}, errors.New("orchestrator returned no session id")
	}

	session := models.Session{ID: resp.SessionID, CreatedAt: time.Now()}
	c.appState.SetSession(session)

	if err := c.local.Sessions.Save(ctx, store.LocalSession{
		SessionID: session.ID,
		Tokens:    c.appState.Tokens(),
	}); err != nil {
		c.logger.Warn().Err(err).Msg("persist session failed")
	}

	c.logger.Info().Str("session_id", session.ID).Msg("conversation started")
	return session, nil
}

// SendMessage implements [ConfiguratorService].
func (c *configuratorService) SendMessage(ctx context.Context, content string) (models.ChatMessage, error) {
	sessionID := c.appState.SessionID()
	if sessionID == "" {
		return models.ChatMessage{}, ErrNoActiveSession
	}

	msg := models.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      "user",
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := c.gateway.Post(ctx, "/api/sparky/chat", msg, nil); err != nil {
		return models.ChatMessage{}, fmt.Errorf("send chat message: %w", err)
	}
	return msg, nil
}

// Recommendations implements [ConfiguratorService].
func (c *configuratorService) Recommendations(ctx context.Context) ([]models.Recommendation, error) {
	sessionID := c.appState.SessionID()
	if sessionID == "" {
		return nil, ErrNoActiveSession
	}

	var update models.RecommendationUpdate
	path := fmt.Sprintf("/api/orchestrator/sessions/%s/recommendations", sessionID)
	if err := c.gateway.Get(ctx, path, &update); err != nil {
		return nil, fmt.Errorf("fetch recommendations: %w", err)
	}
	return update.Recommendations, nil
}

// Reset implements [ConfiguratorService]. Clearing the session in the state
// store also disconnects the realtime channel via its store subscription.
func (c *configuratorService) Reset(ctx context.Context) error {
	c.appState.ClearSession()

	if err := c.local.Sessions.Save(ctx, store.LocalSession{
		SessionID: "",
		Tokens:    c.appState.Tokens(),
	}); err != nil {
		return fmt.Errorf("persist session reset: %w", err)
	}
	return nil
}
