package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sparkyweld/sparky-client/internal/realtime"
	"github.com/sparkyweld/sparky-client/internal/service"
	"github.com/sparkyweld/sparky-client/internal/state"
	"github.com/sparkyweld/sparky-client/models"
)

type mainTab int

const (
	tabChat mainTab = iota
	tabCatalog
	tabQuotes
	tabDashboard
)

var tabTitles = []string{"Chat", "Catalog", "Quotes", "Dashboard"}

const dashboardRefresh = 5 * time.Second

// categoryFilters cycles through "all" plus every catalog category.
var categoryFilters = []models.ProductCategory{
	"",
	models.CategoryMIGWelder,
	models.CategoryTIGWelder,
	models.CategoryStickWelder,
	models.CategoryMultiProcess,
	models.CategoryWireFeeder,
	models.CategoryAccessory,
	models.CategoryConsumable,
}

type mainLoopModel struct {
	ctx      context.Context
	services *service.ClientServices
	appState *state.Store
	realtime *realtime.Manager
	user     models.User

	tab    mainTab
	status string
	errMsg string

	rtState models.ConnectionState
	rtErr   *models.RealtimeError

	// chat
	chatInput       textinput.Model
	chatLog         []models.ChatMessage
	pendingMessage  string
	starting        bool
	sending         bool
	typingActive    bool
	assistantTyping bool
	workflow        *models.WorkflowStatusUpdate
	agents          []models.AgentExecutionUpdate
	recs            []models.Recommendation

	// catalog
	products        []models.Product
	prodIdx         int
	prodDetail      bool
	availability    []models.InventoryStatus
	loadingProducts bool
	categoryIdx     int

	// quotes
	quotes        []models.Quote
	quoteIdx      int
	quoteDetail   bool
	loadingQuotes bool
	namingQuote   bool
	customerInput textinput.Model
	creatingQuote bool

	// dashboard
	health       models.SystemHealth
	healthLoaded bool

	logout         bool
	sessionExpired bool
}

func newMainLoopModel(ctx context.Context, services *service.ClientServices, appState *state.Store, rt *realtime.Manager, user models.User) mainLoopModel {
	chatInput := textinput.New()
	chatInput.Placeholder = "Describe what you need to weld..."
	chatInput.CharLimit = 500
	chatInput.Width = 60
	chatInput.Focus()

	customerInput := textinput.New()
	customerInput.Placeholder = "Customer name"
	customerInput.CharLimit = 120
	customerInput.Width = 40

	return mainLoopModel{
		ctx:             ctx,
		services:        services,
		appState:        appState,
		realtime:        rt,
		user:            user,
		chatInput:       chatInput,
		customerInput:   customerInput,
		rtState:         appState.RealtimeState(),
		loadingProducts: true,
		loadingQuotes:   true,
	}
}

func (m mainLoopModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.cmdLoadProducts(),
		m.cmdLoadQuotes(),
		m.cmdLoadHealth(),
		dashboardTick(),
	)
}

func dashboardTick() tea.Cmd {
	return tea.Tick(dashboardRefresh, func(time.Time) tea.Msg {
		return dashboardTickMsg{}
	})
}

func (m mainLoopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case conversationStartedMsg:
		m.starting = false
		if msg.err != nil {
			m.errMsg = humanizeRequestError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.status = "Conversation started"
		m.chatLog = nil
		m.workflow = nil
		m.agents = nil
		m.recs = nil
		if m.pendingMessage != "" {
			content := m.pendingMessage
			m.pendingMessage = ""
			m.sending = true
			return m, m.cmdSendChat(content)
		}
		return m, nil

	case chatSentMsg:
		m.sending = false
		if msg.err != nil {
			m.errMsg = humanizeRequestError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.chatLog = append(m.chatLog, msg.message)
		return m, nil

	case resetDoneMsg:
		if msg.err != nil {
			m.errMsg = humanizeRequestError(msg.err)
			return m, nil
		}
		m.status = "Conversation reset"
		m.errMsg = ""
		m.chatLog = nil
		m.workflow = nil
		m.agents = nil
		m.recs = nil
		m.rtErr = nil
		return m, nil

	case productsLoadedMsg:
		m.loadingProducts = false
		if msg.err != nil {
			m.errMsg = humanizeRequestError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.products = msg.products
		m.clampProductIdx()
		return m, nil

	case availabilityLoadedMsg:
		if msg.err != nil {
			m.errMsg = humanizeRequestError(msg.err)
			return m, nil
		}
		m.availability = msg.items
		return m, nil

	case quotesLoadedMsg:
		m.loadingQuotes = false
		if msg.err != nil {
			m.errMsg = humanizeRequestError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.quotes = msg.quotes
		m.clampQuoteIdx()
		return m, nil

	case quoteCreatedMsg:
		m.creatingQuote = false
		if msg.err != nil {
			m.errMsg = humanizeRequestError(msg.err)
			return m, nil
		}
		m.status = "Quote " + msg.quote.Number + " created"
		m.errMsg = ""
		m.loadingQuotes = true
		return m, m.cmdLoadQuotes()

	case quoteAcceptedMsg:
		if msg.err != nil {
			m.errMsg = humanizeRequestError(msg.err)
			return m, nil
		}
		m.status = "Quote " + msg.quote.Number + " accepted"
		m.errMsg = ""
		m.loadingQuotes = true
		return m, m.cmdLoadQuotes()

	case quoteExportedMsg:
		if msg.err != nil {
			m.errMsg = humanizeRequestError(msg.err)
			return m, nil
		}
		m.status = "Quote exported"
		m.errMsg = ""
		return m, nil

	case healthLoadedMsg:
		if msg.err != nil {
			m.errMsg = humanizeRequestError(msg.err)
			return m, nil
		}
		m.health = msg.health
		m.healthLoaded = true
		return m, nil

	case dashboardTickMsg:
		// Re-arm; the view reads the latest polled metrics on render.
		return m, dashboardTick()

	case copiedMsg:
		m.status = "Copied"
		return m, nil

	case workflowStatusMsg:
		w := models.WorkflowStatusUpdate(msg)
		m.workflow = &w
		return m, nil

	case agentExecutionMsg:
		m.upsertAgent(models.AgentExecutionUpdate(msg))
		return m, nil

	case typingMsg:
		m.assistantTyping = msg.IsTyping
		return m, nil

	case recommendationsMsg:
		m.recs = msg.Recommendations
		return m, nil

	case realtimeErrMsg:
		e := models.RealtimeError(msg)
		m.rtErr = &e
		return m, nil

	case realtimeStateMsg:
		m.rtState = models.ConnectionState(msg)
		if m.rtState == models.ConnConnected {
			m.rtErr = nil
		}
		return m, nil

	case notificationMsg:
		if msg.Level == models.NotifyError {
			m.errMsg = msg.Message
		} else {
			m.status = msg.Message
		}
		return m, nil

	case authExpiredMsg:
		m.sessionExpired = true
		return m, tea.Quit

	case connectivityChangedMsg:
		// The header reads connectivity from the store on render; the
		// message only forces a repaint.
		return m, nil

	case chatReceivedMsg:
		m.chatLog = append(m.chatLog, models.ChatMessage(msg))
		m.assistantTyping = false
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+l":
		m.logout = true
		return m, tea.Quit
	case "tab":
		if !m.namingQuote {
			m.tab = (m.tab + 1) % mainTab(len(tabTitles))
			m.errMsg = ""
			return m, nil
		}
	case "shift+tab":
		if !m.namingQuote {
			m.tab = (m.tab - 1 + mainTab(len(tabTitles))) % mainTab(len(tabTitles))
			m.errMsg = ""
			return m, nil
		}
	}

	switch m.tab {
	case tabChat:
		return m.updateChat(keyMsg)
	case tabCatalog:
		return m.updateCatalog(keyMsg)
	case tabQuotes:
		return m.updateQuotes(keyMsg)
	case tabDashboard:
		return m.updateDashboard(keyMsg)
	}

	return m, nil
}

// ── Chat tab ─────────────────────────────────────────────────────────────────

func (m mainLoopModel) updateChat(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "ctrl+n":
		if m.starting {
			return m, nil
		}
		m.starting = true
		m.status = "Starting conversation..."
		return m, m.cmdStartConversation()
	case "ctrl+r":
		if m.appState.SessionID() == "" {
			m.status = "No active conversation"
			return m, nil
		}
		return m, m.cmdReset()
	case "ctrl+x":
		m.realtime.CancelWorkflow()
		m.status = "Cancel requested"
		return m, nil
	case "enter":
		if m.sending || m.starting {
			return m, nil
		}
		content := strings.TrimSpace(m.chatInput.Value())
		if content == "" {
			return m, nil
		}
		m.chatInput.Reset()
		if m.typingActive {
			m.typingActive = false
			m.realtime.SendTypingIndicator(false)
		}
		m.errMsg = ""
		if m.appState.SessionID() == "" {
			// No session yet: open one first, then send the queued turn.
			m.pendingMessage = content
			m.starting = true
			m.status = "Starting conversation..."
			return m, m.cmdStartConversation()
		}
		m.sending = true
		return m, m.cmdSendChat(content)
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(keyMsg)

	// Tell the backend when the user starts or stops composing. Only the
	// empty/non-empty transitions are sent, not every keystroke.
	if typing := m.chatInput.Value() != ""; typing != m.typingActive {
		m.typingActive = typing
		m.realtime.SendTypingIndicator(typing)
	}
	return m, cmd
}

// ── Catalog tab ──────────────────────────────────────────────────────────────

func (m mainLoopModel) updateCatalog(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prodDetail {
		switch keyMsg.String() {
		case "esc":
			m.prodDetail = false
			m.availability = nil
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.prodIdx > 0 {
			m.prodIdx--
		}
	case "down", "j":
		if m.prodIdx < len(m.products)-1 {
			m.prodIdx++
		}
	case "f":
		m.categoryIdx = (m.categoryIdx + 1) % len(categoryFilters)
		m.loadingProducts = true
		return m, m.cmdLoadProducts()
	case "r":
		m.loadingProducts = true
		return m, m.cmdLoadProducts()
	case "enter":
		product, ok := m.currentProduct()
		if !ok {
			m.status = "No products"
			return m, nil
		}
		m.prodDetail = true
		m.availability = nil
		return m, m.cmdLoadAvailability(product.ID)
	}

	return m, nil
}

// ── Quotes tab ───────────────────────────────────────────────────────────────

func (m mainLoopModel) updateQuotes(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.namingQuote {
		switch keyMsg.String() {
		case "esc":
			m.namingQuote = false
			m.customerInput.Reset()
			return m, nil
		case "enter":
			if m.creatingQuote {
				return m, nil
			}
			customer := strings.TrimSpace(m.customerInput.Value())
			m.namingQuote = false
			m.customerInput.Reset()
			m.creatingQuote = true
			m.status = "Creating quote..."
			return m, m.cmdCreateQuote(customer)
		}

		var cmd tea.Cmd
		m.customerInput, cmd = m.customerInput.Update(keyMsg)
		return m, cmd
	}

	if m.quoteDetail {
		quote, ok := m.currentQuote()
		if !ok {
			m.quoteDetail = false
			return m, nil
		}

		switch keyMsg.String() {
		case "esc":
			m.quoteDetail = false
		case "a":
			return m, m.cmdAcceptQuote(quote.ID)
		case "x":
			return m, m.cmdExportQuote(quote.ID)
		case "c":
			if err := clipboard.WriteAll(quote.Number); err != nil {
				m.errMsg = fmt.Sprintf("Copy failed: %v", err)
				return m, nil
			}
			return m, func() tea.Msg { return copiedMsg{} }
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.quoteIdx > 0 {
			m.quoteIdx--
		}
	case "down", "j":
		if m.quoteIdx < len(m.quotes)-1 {
			m.quoteIdx++
		}
	case "r":
		m.loadingQuotes = true
		return m, m.cmdLoadQuotes()
	case "n":
		if m.appState.SessionID() == "" {
			m.status = "Start a conversation first"
			return m, nil
		}
		if len(m.recs) == 0 {
			m.status = "No recommendations to price yet"
			return m, nil
		}
		m.namingQuote = true
		m.customerInput.Focus()
		return m, textinput.Blink
	case "enter":
		if _, ok := m.currentQuote(); !ok {
			m.status = "No quotes"
			return m, nil
		}
		m.quoteDetail = true
	case "a":
		quote, ok := m.currentQuote()
		if !ok {
			m.status = "No quotes"
			return m, nil
		}
		return m, m.cmdAcceptQuote(quote.ID)
	case "c":
		quote, ok := m.currentQuote()
		if !ok {
			m.status = "No quotes"
			return m, nil
		}
		if err := clipboard.WriteAll(quote.Number); err != nil {
			m.errMsg = fmt.Sprintf("Copy failed: %v", err)
			return m, nil
		}
		return m, func() tea.Msg { return copiedMsg{} }
	}

	return m, nil
}

// ── Dashboard tab ────────────────────────────────────────────────────────────

func (m mainLoopModel) updateDashboard(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "r":
		return m, m.cmdLoadHealth()
	}
	return m, nil
}

// ── Commands ─────────────────────────────────────────────────────────────────

func (m mainLoopModel) cmdStartConversation() tea.Cmd {
	ctx := m.ctx
	svc := m.services.Configurator

	return func() tea.Msg {
		session, err := svc.StartConversation(ctx)
		return conversationStartedMsg{session: session, err: err}
	}
}

func (m mainLoopModel) cmdSendChat(content string) tea.Cmd {
	ctx := m.ctx
	svc := m.services.Configurator

	return func() tea.Msg {
		message, err := svc.SendMessage(ctx, content)
		return chatSentMsg{message: message, err: err}
	}
}

func (m mainLoopModel) cmdReset() tea.Cmd {
	ctx := m.ctx
	svc := m.services.Configurator

	return func() tea.Msg {
		return resetDoneMsg{err: svc.Reset(ctx)}
	}
}

func (m mainLoopModel) cmdLoadProducts() tea.Cmd {
	ctx := m.ctx
	svc := m.services.Catalog
	category := categoryFilters[m.categoryIdx]

	return func() tea.Msg {
		products, err := svc.ListProducts(ctx, category)
		return productsLoadedMsg{products: products, err: err}
	}
}

func (m mainLoopModel) cmdLoadAvailability(productID int64) tea.Cmd {
	ctx := m.ctx
	svc := m.services.Catalog

	return func() tea.Msg {
		items, err := svc.Availability(ctx, productID)
		return availabilityLoadedMsg{items: items, err: err}
	}
}

func (m mainLoopModel) cmdLoadQuotes() tea.Cmd {
	ctx := m.ctx
	svc := m.services.Quotes

	return func() tea.Msg {
		quotes, err := svc.List(ctx)
		return quotesLoadedMsg{quotes: quotes, err: err}
	}
}

func (m mainLoopModel) cmdCreateQuote(customerName string) tea.Cmd {
	ctx := m.ctx
	svc := m.services.Quotes

	return func() tea.Msg {
		quote, err := svc.CreateFromSession(ctx, customerName)
		return quoteCreatedMsg{quote: quote, err: err}
	}
}

func (m mainLoopModel) cmdAcceptQuote(id int64) tea.Cmd {
	ctx := m.ctx
	svc := m.services.Quotes

	return func() tea.Msg {
		quote, err := svc.Accept(ctx, id)
		return quoteAcceptedMsg{quote: quote, err: err}
	}
}

func (m mainLoopModel) cmdExportQuote(id int64) tea.Cmd {
	ctx := m.ctx
	svc := m.services.Quotes

	return func() tea.Msg {
		return quoteExportedMsg{err: svc.Export(ctx, id, "")}
	}
}

func (m mainLoopModel) cmdLoadHealth() tea.Cmd {
	ctx := m.ctx
	svc := m.services.System

	return func() tea.Msg {
		health, err := svc.Health(ctx)
		return healthLoadedMsg{health: health, err: err}
	}
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (m *mainLoopModel) upsertAgent(update models.AgentExecutionUpdate) {
	for i, a := range m.agents {
		if a.AgentName == update.AgentName {
			m.agents[i] = update
			return
		}
	}
	m.agents = append(m.agents, update)
}

func (m *mainLoopModel) clampProductIdx() {
	if m.prodIdx >= len(m.products) {
		m.prodIdx = len(m.products) - 1
	}
	if m.prodIdx < 0 {
		m.prodIdx = 0
	}
}

func (m *mainLoopModel) clampQuoteIdx() {
	if m.quoteIdx >= len(m.quotes) {
		m.quoteIdx = len(m.quotes) - 1
	}
	if m.quoteIdx < 0 {
		m.quoteIdx = 0
	}
}

func (m mainLoopModel) currentProduct() (models.Product, bool) {
	if len(m.products) == 0 || m.prodIdx < 0 || m.prodIdx >= len(m.products) {
		return models.Product{}, false
	}
	return m.products[m.prodIdx], true
}

func (m mainLoopModel) currentQuote() (models.Quote, bool) {
	if len(m.quotes) == 0 || m.quoteIdx < 0 || m.quoteIdx >= len(m.quotes) {
		return models.Quote{}, false
	}
	return m.quotes[m.quoteIdx], true
}

// ── View ─────────────────────────────────────────────────────────────────────

func (m mainLoopModel) View() string {
	switch m.tab {
	case tabChat:
		return m.viewChat()
	case tabCatalog:
		return m.viewCatalog()
	case tabQuotes:
		return m.viewQuotes()
	case tabDashboard:
		return m.viewDashboard()
	}
	return renderPage("SPARKY", "", "")
}

func (m mainLoopModel) header() string {
	var b strings.Builder

	for i, title := range tabTitles {
		if mainTab(i) == m.tab {
			b.WriteString("[" + title + "]")
		} else {
			b.WriteString(" " + title + " ")
		}
		if i < len(tabTitles)-1 {
			b.WriteString(" ")
		}
	}

	b.WriteString("   ")
	b.WriteString(connectionBadge(m.appState.Connectivity(), m.rtState))
	if m.user.Login != "" {
		b.WriteString(" │ " + m.user.Login)
	}
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render("Error: "+m.errMsg) + "\n")
	}
	if m.status != "" {
		b.WriteString("Status: " + m.status + "\n")
	}

	return b.String()
}

func connectionBadge(backend models.Connectivity, rt models.ConnectionState) string {
	api := "api:offline"
	if backend == models.BackendConnected {
		api = "api:online"
	}

	ws := "live:" + string(rt)
	if rt == "" {
		ws = "live:" + string(models.ConnDisconnected)
	}

	return api + " │ " + ws
}

func (m mainLoopModel) viewChat() string {
	out := m.header() + "\n"

	if m.appState.SessionID() == "" {
		out += "No active conversation. Type a message or press ctrl+n to start.\n"
	} else {
		out += "Session: " + m.appState.SessionID() + "\n"
	}

	if m.workflow != nil {
		out += fmt.Sprintf("Workflow: %s", m.workflow.Phase)
		if m.workflow.TotalSteps > 0 {
			out += fmt.Sprintf(" (%d/%d)", m.workflow.Step, m.workflow.TotalSteps)
		}
		if m.workflow.Detail != "" {
			out += " — " + m.workflow.Detail
		}
		out += "\n"
	}

	for _, a := range m.agents {
		out += fmt.Sprintf("  agent %-22s %s", a.AgentName, a.Status)
		if a.Detail != "" {
			out += " — " + fitText(a.Detail, 40)
		}
		out += "\n"
	}

	if m.rtErr != nil {
		out += "\nRealtime: " + m.rtErr.Message + "\n"
		for _, s := range m.rtErr.Recovery {
			out += "  · " + s + "\n"
		}
	}

	out += "\n"
	if len(m.chatLog) == 0 {
		out += "(no messages)\n"
	}
	for _, msg := range m.chatLog {
		who := "you"
		if msg.Role == "assistant" {
			who = "sparky"
		}
		out += fmt.Sprintf("%-7s│ %s\n", who, msg.Content)
	}
	if m.assistantTyping {
		out += "sparky is typing...\n"
	}

	if len(m.recs) > 0 {
		out += "\n[ RECOMMENDATIONS ]\n"
		for i, r := range m.recs {
			out += fmt.Sprintf("%d. %s (score %.2f)", i+1, r.Name, r.Score)
			if r.TotalCents > 0 {
				out += " — " + formatCents(r.TotalCents)
			}
			out += "\n"
			if r.Reason != "" {
				out += "   " + fitText(r.Reason, 60) + "\n"
			}
		}
	}

	out += "\n> [" + m.chatInput.View() + "]"
	if m.sending {
		out += "  (sending...)"
	}

	return renderPage(
		"SPARKY CONFIGURATOR",
		strings.TrimRight(out, "\n"),
		"enter: send │ ctrl+n: new │ ctrl+r: reset │ ctrl+x: cancel │ tab: next tab │ ctrl+l: log out",
	)
}

func (m mainLoopModel) viewCatalog() string {
	out := m.header() + "\n"

	if m.prodDetail {
		product, ok := m.currentProduct()
		if !ok {
			return renderPage("PRODUCT", "Product not found", "esc: back")
		}

		out = "[ PRODUCT ]\n"
		out += "SKU        : " + product.SKU + "\n"
		out += "Name       : " + product.Name + "\n"
		out += "Category   : " + string(product.Category) + "\n"
		out += "Price      : " + formatCents(product.PriceCents) + "\n"
		if product.AmperageMax > 0 {
			out += fmt.Sprintf("Output     : %d-%d A\n", product.AmperageMin, product.AmperageMax)
		}
		if product.DutyCyclePct > 0 {
			out += fmt.Sprintf("Duty cycle : %d%%\n", product.DutyCyclePct)
		}
		if product.Description != "" {
			out += "\n" + product.Description + "\n"
		}

		out += "\n[ AVAILABILITY ]\n"
		if len(m.availability) == 0 {
			out += "(loading...)\n"
		}
		for _, inv := range m.availability {
			out += fmt.Sprintf("%-16s │ %d in stock", inv.Warehouse, inv.Available)
			if inv.LeadDays > 0 {
				out += fmt.Sprintf(" │ lead %dd", inv.LeadDays)
			}
			out += "\n"
		}

		return renderPage("PRODUCT: "+product.Name, strings.TrimRight(out, "\n"), "esc: back")
	}

	if m.loadingProducts {
		out += "Loading catalog...\n"
		return renderPage("CATALOG", strings.TrimRight(out, "\n"), "f: filter │ r: reload │ tab: next tab")
	}

	filter := "all"
	if categoryFilters[m.categoryIdx] != "" {
		filter = string(categoryFilters[m.categoryIdx])
	}
	out += "Filter: " + filter + "\n\n"

	if len(m.products) == 0 {
		out += "No products\n"
	} else {
		out += "  SKU          │ Name                     │ Price\n"
		out += "──────────────┼──────────────────────────┼────────────\n"
		for i, p := range m.products {
			cursor := " "
			if i == m.prodIdx {
				cursor = ">"
			}
			out += fmt.Sprintf("%s %-12s │ %-24s │ %s\n",
				cursor, fitText(p.SKU, 12), fitText(p.Name, 24), formatCents(p.PriceCents))
		}
	}

	return renderPage(
		"CATALOG",
		strings.TrimRight(out, "\n"),
		"enter: open │ f: filter │ r: reload │ ↑/↓: navigate │ tab: next tab",
	)
}

func (m mainLoopModel) viewQuotes() string {
	out := m.header() + "\n"

	if m.namingQuote {
		out = "Customer  : [ " + m.customerInput.View() + " ]\n"
		if m.creatingQuote {
			out += "\nCreating...\n"
		}
		return renderPage("NEW QUOTE", strings.TrimRight(out, "\n"), "enter: create │ esc: cancel")
	}

	if m.quoteDetail {
		quote, ok := m.currentQuote()
		if !ok {
			return renderPage("QUOTE", "Quote not found", "esc: back")
		}

		out = "[ QUOTE ]\n"
		out += "Number    : " + quote.Number + "\n"
		out += "Customer  : " + valueOrDash(quote.CustomerName) + "\n"
		out += "Status    : " + string(quote.Status) + "\n"
		out += "Total     : " + formatCents(quote.TotalCents) + "\n\n"

		out += "[ LINES ]\n"
		if len(quote.Lines) == 0 {
			out += "(empty)\n"
		}
		for _, line := range quote.Lines {
			out += fmt.Sprintf("%-12s │ %-28s │ x%d │ %s\n",
				fitText(line.SKU, 12), fitText(line.Description, 28), line.Quantity, formatCents(line.UnitCents))
		}

		return renderPage(
			"QUOTE: "+quote.Number,
			strings.TrimRight(out, "\n"),
			"a: accept │ x: export │ c: copy number │ esc: back",
		)
	}

	if m.loadingQuotes {
		out += "Loading quotes...\n"
		return renderPage("QUOTES", strings.TrimRight(out, "\n"), "n: new │ r: reload │ tab: next tab")
	}

	if len(m.quotes) == 0 {
		out += "No quotes\n"
	} else {
		out += "  Number       │ Customer             │ Status   │ Total\n"
		out += "───────────────┼──────────────────────┼──────────┼────────────\n"
		for i, q := range m.quotes {
			cursor := " "
			if i == m.quoteIdx {
				cursor = ">"
			}
			out += fmt.Sprintf("%s %-12s │ %-20s │ %-8s │ %s\n",
				cursor, fitText(q.Number, 12), fitText(valueOrDash(q.CustomerName), 20),
				string(q.Status), formatCents(q.TotalCents))
		}
	}

	return renderPage(
		"QUOTES",
		strings.TrimRight(out, "\n"),
		"enter: open │ n: new │ a: accept │ c: copy │ r: reload │ ↑/↓: navigate │ tab: next tab",
	)
}

func (m mainLoopModel) viewDashboard() string {
	out := m.header() + "\n"

	out += "[ HEALTH ]\n"
	if !m.healthLoaded {
		out += "(loading...)\n"
	} else {
		out += "Overall: " + m.health.Status + "\n"
		for _, s := range m.health.Services {
			out += fmt.Sprintf("  %-20s %s", s.Name, s.Status)
			if s.Message != "" {
				out += " — " + fitText(s.Message, 40)
			}
			out += "\n"
		}
	}

	out += "\n[ METRICS ]\n"
	if metrics, ok := m.services.Metrics.Latest(); ok {
		out += fmt.Sprintf("Active sessions   : %d\n", metrics.ActiveSessions)
		out += fmt.Sprintf("Running workflows : %d\n", metrics.RunningWorkflows)
		out += fmt.Sprintf("Quotes today      : %d\n", metrics.QuotesToday)
		out += fmt.Sprintf("Avg response      : %.0f ms\n", metrics.AvgResponseMs)
		out += "Collected         : " + metrics.CollectedAt.Format("15:04:05") + "\n"
	} else {
		out += "(no samples yet)\n"
	}

	return renderPage(
		"DASHBOARD",
		strings.TrimRight(out, "\n"),
		"r: refresh │ tab: next tab │ ctrl+l: log out",
	)
}
