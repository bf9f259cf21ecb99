package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/internal/realtime"
	"github.com/sparkyweld/sparky-client/internal/service"
	"github.com/sparkyweld/sparky-client/internal/state"
	"github.com/sparkyweld/sparky-client/models"
)

func newTestMainLoop(t *testing.T) mainLoopModel {
	t.Helper()
	appState := state.NewStore(logger.Nop())
	rt := realtime.NewManager(realtime.Config{URL: "ws://localhost:1", Enabled: false}, appState, logger.Nop())
	t.Cleanup(rt.Close)

	return newMainLoopModel(context.Background(), &service.ClientServices{}, appState, rt, models.User{Login: "welder"})
}

func typeKeys(t *testing.T, m mainLoopModel, keys string) mainLoopModel {
	t.Helper()
	for _, r := range keys {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		var ok bool
		m, ok = updated.(mainLoopModel)
		require.True(t, ok)
	}
	return m
}

// ── Typing indicator ─────────────────────────────────────────────────────────

func TestChatInput_TypingTracksEmptyTransitions(t *testing.T) {
	m := newTestMainLoop(t)
	require.False(t, m.typingActive)

	m = typeKeys(t, m, "mig")
	assert.True(t, m.typingActive)

	// Deleting back to an empty input ends the composing state.
	for i := 0; i < 3; i++ {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
		m = updated.(mainLoopModel)
	}
	assert.False(t, m.typingActive)
}

func TestChatInput_TypingClearedOnSend(t *testing.T) {
	m := newTestMainLoop(t)

	m = typeKeys(t, m, "tig torch for 2mm steel")
	require.True(t, m.typingActive)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(mainLoopModel)

	assert.False(t, m.typingActive)
	// No session yet: the turn is queued behind a start-conversation command.
	assert.True(t, m.starting)
	assert.Equal(t, "tig torch for 2mm steel", m.pendingMessage)
	assert.NotNil(t, cmd)
}
