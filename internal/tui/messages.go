package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sparkyweld/sparky-client/models"
)

// NavigateTo switches the root router to another page. Payload, when set, is
// delivered to the target page after the switch.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

// LoginResult finishes the login flow. Handled by [RootModel].
type LoginResult struct {
	User models.User
	Err  error
}

// Messages produced by async commands of the main loop.

type conversationStartedMsg struct {
	session models.Session
	err     error
}

type chatSentMsg struct {
	message models.ChatMessage
	err     error
}

type resetDoneMsg struct {
	err error
}

type productsLoadedMsg struct {
	products []models.Product
	err      error
}

type availabilityLoadedMsg struct {
	items []models.InventoryStatus
	err   error
}

type quotesLoadedMsg struct {
	quotes []models.Quote
	err    error
}

type quoteCreatedMsg struct {
	quote models.Quote
	err   error
}

type quoteAcceptedMsg struct {
	quote models.Quote
	err   error
}

type quoteExportedMsg struct {
	err error
}

type healthLoadedMsg struct {
	health models.SystemHealth
	err    error
}

type dashboardTickMsg struct{}

type copiedMsg struct{}

// Messages pushed from outside the Bubble Tea loop (realtime channel and
// state store subscriptions) via program.Send.

type chatReceivedMsg models.ChatMessage

type workflowStatusMsg models.WorkflowStatusUpdate

type agentExecutionMsg models.AgentExecutionUpdate

type typingMsg models.TypingUpdate

type recommendationsMsg models.RecommendationUpdate

type realtimeErrMsg models.RealtimeError

type realtimeStateMsg models.ConnectionState

type notificationMsg models.Notification

type connectivityChangedMsg struct{}

type authExpiredMsg struct{}
