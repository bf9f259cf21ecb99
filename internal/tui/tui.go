package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/internal/realtime"
	"github.com/sparkyweld/sparky-client/internal/service"
	"github.com/sparkyweld/sparky-client/internal/state"
	"github.com/sparkyweld/sparky-client/models"
)

// ErrUserQuit is returned when the user leaves the program instead of
// completing a flow.
var ErrUserQuit = errors.New("user quit")

// TUI runs the terminal frontend: the login flow and the main loop with the
// chat, catalog, quotes, and dashboard tabs.
type TUI struct {
	services  *service.ClientServices
	appState  *state.Store
	realtime  *realtime.Manager
	buildInfo models.AppBuildInfo
}

func New(services *service.ClientServices, appState *state.Store, rt *realtime.Manager, buildInfo models.AppBuildInfo, _ *logger.Logger) (*TUI, error) {
	return &TUI{
		services:  services,
		appState:  appState,
		realtime:  rt,
		buildInfo: buildInfo,
	}, nil
}

// LoginFlow runs the menu and login pages until the user authenticates or
// quits. Returns [ErrUserQuit] when the user leaves without signing in.
func (t *TUI) LoginFlow(ctx context.Context) (models.User, error) {
	pages := map[string]tea.Model{
		"menu":  NewMenuModel(),
		"login": NewLoginModel(ctx, t.services.Auth),
	}

	root := NewRootModel(pages, "menu", t.buildInfo)
	finalModel, runErr := tea.NewProgram(root, tea.WithAltScreen()).Run()
	if runErr != nil {
		return models.User{}, runErr
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return models.User{}, tea.ErrProgramKilled
	}
	if result.quitByUser || result.resultUser.Login == "" {
		return models.User{}, ErrUserQuit
	}

	return result.resultUser, nil
}

// MainLoop runs the authenticated part of the UI. Realtime events and state
// store changes are forwarded into the Bubble Tea program while it runs.
// Returns logout=true when the user logged out or the session expired and
// the login flow should run again.
func (t *TUI) MainLoop(ctx context.Context, user models.User) (logout bool, err error) {
	model := newMainLoopModel(ctx, t.services, t.appState, t.realtime, user)
	program := tea.NewProgram(model, tea.WithAltScreen())

	unsubs := []func(){
		t.realtime.OnConnectionStatus(func(s models.ConnectionState) {
			// After a (re)connect, ask the orchestrator to replay the current
			// workflow status so the chat pane catches up on anything missed
			// while the channel was down.
			if s == models.ConnConnected {
				t.realtime.RequestWorkflowStatus()
			}
		}),
		t.realtime.OnChatMessage(func(msg models.ChatMessage) {
			program.Send(chatReceivedMsg(msg))
		}),
		t.realtime.OnWorkflowStatus(func(update models.WorkflowStatusUpdate) {
			program.Send(workflowStatusMsg(update))
		}),
		t.realtime.OnAgentExecution(func(update models.AgentExecutionUpdate) {
			program.Send(agentExecutionMsg(update))
		}),
		t.realtime.OnTyping(func(update models.TypingUpdate) {
			program.Send(typingMsg(update))
		}),
		t.realtime.OnRecommendation(func(update models.RecommendationUpdate) {
			program.Send(recommendationsMsg(update))
		}),
		t.realtime.OnError(func(rtErr models.RealtimeError) {
			program.Send(realtimeErrMsg(rtErr))
		}),
		t.appState.Subscribe(func(c state.Change) {
			switch c {
			case state.AuthExpired:
				program.Send(authExpiredMsg{})
			case state.RealtimeStateChanged:
				program.Send(realtimeStateMsg(t.appState.RealtimeState()))
			case state.ConnectivityChanged:
				program.Send(connectivityChangedMsg{})
			case state.NotificationPushed:
				if n, ok := t.appState.LatestNotification(); ok {
					program.Send(notificationMsg(n))
				}
			}
		}),
	}
	defer func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}()

	finalModel, runErr := program.Run()
	if runErr != nil {
		return false, runErr
	}

	result, ok := finalModel.(mainLoopModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	if result.sessionExpired {
		return true, nil
	}
	return result.logout, nil
}
