// Package ui is the ResearchMate page shell: a Bubble Tea program that
// places the upload widget and active document next to the chat.
package ui

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"researchmate/pkg/agentapi"
	"researchmate/pkg/chat"
	"researchmate/pkg/ui/components/chatpanel"
	"researchmate/pkg/ui/components/contextpanel"
	"researchmate/pkg/ui/components/header"
	"researchmate/pkg/ui/components/statusbar"
	"researchmate/pkg/ui/components/uploadpanel"
	"researchmate/pkg/upload"
	"researchmate/pkg/workspace"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
)

const (
	defaultPingInterval  = 30 * time.Second
	defaultStatusTimeout = 4 * time.Second
)

type focusTarget int

const (
	focusUpload focusTarget = iota
	focusChat
)

// Pinger checks that the backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) (agentapi.PingResponse, error)
}

// Deps are the state objects the shell displays. Session, Uploader and
// Workspace are required.
type Deps struct {
	Session   *chat.Session
	Uploader  *upload.Uploader
	Workspace *workspace.Workspace
	Pinger    Pinger
	Backend   string
	Logger    *slog.Logger

	PingInterval  time.Duration
	StatusTimeout time.Duration
}

type chatReplyMsg struct {
	reply chat.Message
}

type uploadDoneMsg struct {
	status upload.Status
	err    error
}

type pingMsg struct {
	err error
}

type pingTickMsg struct{}

type clearStatusMsg struct {
	seq int
}

// Model represents the Bubble Tea application state
type Model struct {
	ctx       context.Context
	session   *chat.Session
	uploader  *upload.Uploader
	workspace *workspace.Workspace
	pinger    Pinger
	logger    *slog.Logger

	layout       *LayoutManager
	chatPanel    *chatpanel.Panel
	uploadPanel  *uploadpanel.Panel
	contextPanel *contextpanel.Panel
	statusBar    *statusbar.StatusBarView

	focus         focusTarget
	docGeneration uint64
	statusSeq     int
	pingInterval  time.Duration
	statusTimeout time.Duration
	ready         bool
}

// NewModel creates the shell. ctx bounds every backend call started from
// the UI.
func NewModel(ctx context.Context, deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := Model{
		ctx:           ctx,
		session:       deps.Session,
		uploader:      deps.Uploader,
		workspace:     deps.Workspace,
		pinger:        deps.Pinger,
		logger:        logger,
		layout:        NewLayoutManager(),
		chatPanel:     chatpanel.New(),
		uploadPanel:   uploadpanel.New(deps.Uploader.Accept()),
		contextPanel:  contextpanel.New(),
		statusBar:     statusbar.NewStatusBarView(),
		pingInterval:  deps.PingInterval,
		statusTimeout: deps.StatusTimeout,
	}
	if m.pingInterval <= 0 {
		m.pingInterval = defaultPingInterval
	}
	if m.statusTimeout <= 0 {
		m.statusTimeout = defaultStatusTimeout
	}

	m.statusBar.SetBackend(deps.Backend)
	m.uploadPanel.Focus()
	m.contextPanel.SetFocused(true)
	m.syncChat()
	m.syncDocument()
	m.resize()
	return m
}

// Init initializes the model (Bubble Tea lifecycle method)
func (m Model) Init() tea.Cmd {
	return m.ping()
}

func (m Model) ping() tea.Cmd {
	if m.pinger == nil {
		return nil
	}
	return func() tea.Msg {
		_, err := m.pinger.Ping(m.ctx)
		return pingMsg{err: err}
	}
}

func (m Model) schedulePing() tea.Cmd {
	return tea.Tick(m.pingInterval, func(time.Time) tea.Msg {
		return pingTickMsg{}
	})
}

// Update handles messages and updates model state (Bubble Tea lifecycle method)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.SetSize(msg.Width, msg.Height)
		m.resize()
		m.ready = true
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.PasteMsg:
		return m, m.routeToFocused(msg)

	case chatpanel.SubmitMsg:
		return m.submit(msg.Text)

	case uploadpanel.SelectMsg:
		return m.selectFile(msg.Path)

	case chatReplyMsg:
		m.syncChat()
		if msg.reply.Failed {
			return m, m.flash("The backend could not answer, try again")
		}
		m.statusBar.SetMessage(m.busyMessage())
		return m, nil

	case uploadDoneMsg:
		return m.finishUpload(msg)

	case pingMsg:
		if msg.err != nil {
			m.logger.Warn("backend_ping_failed", "error", msg.err, "kind", agentapi.Kind(msg.err))
			m.statusBar.SetConnection(statusbar.ConnOffline)
		} else {
			m.statusBar.SetConnection(statusbar.ConnOnline)
		}
		return m, m.schedulePing()

	case pingTickMsg:
		return m, m.ping()

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusBar.SetMessage(m.busyMessage())
		}
		return m, nil

	case spinner.TickMsg:
		return m, tea.Batch(m.chatPanel.Update(msg), m.uploadPanel.Update(msg))
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.logger.Info("ui_quit")
		return m, tea.Quit

	case "tab", "shift+tab":
		return m, m.toggleFocus()

	case "ctrl+y":
		reply, ok := m.session.LastReply()
		if !ok {
			return m, m.flash("Nothing to copy yet")
		}
		return m, tea.Batch(chatpanel.Copy(reply.Content), m.flash("Copied last reply to clipboard"))

	case "ctrl+r":
		if err := m.session.Reset(); err != nil {
			return m, m.flash("Wait for the current answer before clearing the conversation")
		}
		m.syncChat()
		return m, m.flash("Conversation cleared")
	}

	return m, m.routeToFocused(msg)
}

func (m Model) routeToFocused(msg tea.Msg) tea.Cmd {
	if m.focus == focusChat {
		return m.chatPanel.Update(msg)
	}
	return m.uploadPanel.Update(msg)
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusUpload {
		m.focus = focusChat
		m.uploadPanel.Blur()
		m.contextPanel.SetFocused(false)
		return m.chatPanel.Focus()
	}
	m.focus = focusUpload
	m.chatPanel.Blur()
	m.contextPanel.SetFocused(true)
	return m.uploadPanel.Focus()
}

func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	pending, err := m.session.Begin(text)
	switch {
	case errors.Is(err, chat.ErrAwaitingResponse):
		return m, m.flash("Still waiting for the previous answer")
	case err != nil:
		return m, nil
	}

	m.syncChat()
	m.statusBar.SetMessage(chatpanel.ThinkingLabel)

	session, ctx := m.session, m.ctx
	complete := func() tea.Msg {
		return chatReplyMsg{reply: session.Complete(ctx, pending)}
	}
	return m, tea.Batch(complete, m.chatPanel.SpinnerTick)
}

func (m Model) selectFile(path string) (tea.Model, tea.Cmd) {
	pending, err := m.uploader.Begin(path)
	switch {
	case errors.Is(err, upload.ErrUploadInProgress):
		return m, m.flash("An upload is already in progress")
	case err != nil:
		return m, nil
	}

	m.uploadPanel.SetStatus(upload.StatusUploading, pending.Path())
	m.statusBar.SetMessage(uploadpanel.LabelUploading + " " + pending.Name())

	uploader, ctx := m.uploader, m.ctx
	complete := func() tea.Msg {
		status := uploader.Complete(ctx, pending)
		return uploadDoneMsg{status: status, err: uploader.LastError()}
	}
	return m, tea.Batch(complete, m.uploadPanel.SpinnerTick)
}

func (m Model) finishUpload(msg uploadDoneMsg) (tea.Model, tea.Cmd) {
	detail := ""
	if msg.status == upload.StatusError {
		detail = failureReason(msg.err)
	}
	m.uploadPanel.SetStatus(msg.status, detail)
	m.syncDocument()

	if msg.status == upload.StatusSuccess {
		m.uploadPanel.SetValue("")
		doc, _ := m.workspace.Active()
		return m, m.flash(uploadpanel.LabelSuccess + ": " + doc.Filename)
	}
	return m, m.flash(uploadpanel.LabelError)
}

// failureReason is a short user-facing cause for a failed upload.
func failureReason(err error) string {
	if err == nil {
		return ""
	}
	var se *agentapi.StatusError
	if errors.As(err, &se) {
		if se.Detail != "" {
			return se.Detail
		}
		return "server returned " + strconv.Itoa(se.StatusCode)
	}
	switch agentapi.Kind(err) {
	case "transport":
		return "backend unreachable"
	case "malformed":
		return "unexpected server response"
	}
	return "could not read file"
}

// flash shows a transient status bar message.
func (m *Model) flash(text string) tea.Cmd {
	m.statusSeq++
	seq := m.statusSeq
	m.statusBar.SetMessage(text)
	return tea.Tick(m.statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// busyMessage is what the status bar falls back to after a flash expires.
func (m Model) busyMessage() string {
	switch {
	case m.session.Awaiting():
		return chatpanel.ThinkingLabel
	case m.uploader.Status() == upload.StatusUploading:
		return uploadpanel.LabelUploading
	}
	return ""
}

func (m Model) syncChat() {
	m.chatPanel.SetMessages(m.session.Messages(), m.session.Awaiting())
}

func (m *Model) syncDocument() {
	gen := m.workspace.Generation()
	if gen == m.docGeneration {
		return
	}
	m.docGeneration = gen
	if doc, ok := m.workspace.Active(); ok {
		m.contextPanel.SetDocument(doc)
	} else {
		m.contextPanel.ClearDocument()
	}
}

func (m Model) resize() {
	width, _ := m.layout.GetDimensions()
	bodyHeight := m.layout.BodyHeight()

	m.statusBar.SetWidth(width)
	m.contextPanel.SetSize(m.layout.LeftWidth(), bodyHeight)
	m.uploadPanel.SetWidth(m.contextPanel.ContentWidth())
	m.chatPanel.SetSize(m.layout.RightWidth(), bodyHeight)
}

// View renders the UI (Bubble Tea lifecycle method)
func (m Model) View() tea.View {
	if !m.ready {
		return tea.NewView("Initializing...")
	}

	width, _ := m.layout.GetDimensions()
	content := m.layout.RenderLayout(
		header.Render(width),
		m.contextPanel.View(m.uploadPanel.View()),
		m.chatPanel.View(),
		m.statusBar.Render(),
	)

	v := tea.NewView(content)
	v.AltScreen = true
	v.WindowTitle = "ResearchMate AI"
	return v
}
