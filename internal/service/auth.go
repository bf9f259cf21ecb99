package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/internal/state"
	"github.com/sparkyweld/sparky-client/internal/store"
	"github.com/sparkyweld/sparky-client/models"
)

type authService struct {
	gateway  Gateway
	appState *state.Store
	local    *store.ClientStorages
	logger   *logger.Logger
}

// NewAuthService constructs the [AuthService].
func NewAuthService(gateway Gateway, appState *state.Store, local *store.ClientStorages, log *logger.Logger) AuthService {
	return &authService{gateway: gateway, appState: appState, local: local, logger: log}
}

// Login implements [AuthService].
func (a *authService) Login(ctx context.Context, login, password string) (models.User, error) {
	var resp models.LoginResponse
	err := a.gateway.Post(ctx, "/api/auth/login", models.LoginRequest{Login: login, Password: password}, &resp)
	if err != nil {
		return models.User{}, fmt.Errorf("login: %w", err)
	}
	if resp.Tokens.AccessToken == "" {
		return models.User{}, errors.New("login response carried no access token")
	}

	a.appState.SetTokens(resp.Tokens)

	if err := a.persist(ctx); err != nil {
		// Persistence failure does not invalidate the login itself.
		a.logger.Warn().Err(err).Msg("persist session after login failed")
	}

	return resp.User, nil
}

// Logout implements [AuthService]. The backend call is best effort: local
// state is wiped regardless.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.gateway.Post(ctx, "/api/auth/logout", nil, nil); err != nil {
		a.logger.Warn().Err(err).Msg("backend logout failed")
	}

	a.appState.ClearCredentials()
	a.appState.ClearSession()

	if err := a.local.Sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	return nil
}

// RestoreSession implements [AuthService]. Persisted tokens whose refresh
// token has itself expired are treated as absent.
func (a *authService) RestoreSession(ctx context.Context) (bool, error) {
	s, err := a.local.Sessions.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrLocalSessionNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load persisted session: %w", err)
	}
	if s.Tokens.Empty() {
		return false, nil
	}

	if exp, err := models.TokenExpiry(s.Tokens.RefreshToken); err == nil && exp.Before(time.Now()) {
		a.logger.Debug().Msg("persisted refresh token expired, ignoring")
		return false, nil
	}

	a.appState.SetTokens(s.Tokens)
	if s.SessionID != "" {
		a.appState.SetSession(models.Session{ID: s.SessionID, CreatedAt: s.SavedAt})
	}

	if sub, err := models.TokenSubject(s.Tokens.AccessToken); err == nil {
		a.logger.Info().Str("account", sub).Msg("session restored")
	} else {
		a.logger.Info().Msg("session restored")
	}

	return true, nil
}

// persist writes the current state-store session and tokens into the local
// cache. Shared by auth and configurator flows.
func (a *authService) persist(ctx context.Context) error {
	return a.local.Sessions.Save(ctx, store.LocalSession{
		SessionID: a.appState.SessionID(),
		Tokens:    a.appState.Tokens(),
	})
}
