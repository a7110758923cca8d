package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	aiservice "github.com/nhle/inbox-assistant/internal/ai"
	"github.com/nhle/inbox-assistant/internal/engine"
	"github.com/nhle/inbox-assistant/internal/keys"
	"github.com/nhle/inbox-assistant/internal/model"
	"github.com/nhle/inbox-assistant/internal/theme"
)

// ResponseMsg carries the interpreter's answer for one request.
type ResponseMsg struct {
	Intent string
	Text   string
	Draft  *model.DraftEmail
	Err    error
}

// DraftCreatedMsg signals the parent that a draft was produced and should
// be added to the session's draft list.
type DraftCreatedMsg struct {
	Draft model.DraftEmail
}

// displayMessage represents a message rendered in the conversation viewport.
type displayMessage struct {
	Role    string
	Intent  string
	Content string
}

// Model is the chat view: a conversation viewport over the request
// interpreter with a textarea for free-text prompts. The view owns the
// session history; the interpreter itself is stateless.
type Model struct {
	interpreter *engine.Interpreter
	history     *aiservice.ConversationContext
	input       textarea.Model
	viewport    viewport.Model
	messages    []displayMessage
	busy        bool
	keys        *keys.KeyMap
	width       int
	height      int
}

// New creates the chat view model.
func New(interpreter *engine.Interpreter, k *keys.KeyMap, width, height int) Model {
	ta := textarea.New()
	ta.Placeholder = "How can I help with your emails today?"
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.SetWidth(width - 4)
	ta.SetHeight(3)
	ta.CharLimit = 2000
	ta.Focus()

	vpHeight := height - 8 // space for input area + borders
	if vpHeight < 4 {
		vpHeight = 4
	}

	vp := viewport.New(width-4, vpHeight)
	vp.Style = lipgloss.NewStyle()

	return Model{
		interpreter: interpreter,
		history:     aiservice.NewConversationContext(),
		input:       ta,
		viewport:    vp,
		messages:    make([]displayMessage, 0),
		keys:        k,
		width:       width,
		height:      height,
	}
}

// Init returns the initial command for the chat view.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the chat view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ResponseMsg:
		return m.handleResponse(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	// Delegate to textarea and viewport
	var cmds []tea.Cmd

	var taCmd tea.Cmd
	m.input, taCmd = m.input.Update(msg)
	if taCmd != nil {
		cmds = append(cmds, taCmd)
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	if vpCmd != nil {
		cmds = append(cmds, vpCmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input for the chat view.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		m.Reset()
		return m, nil

	case "enter":
		if m.busy {
			return m, nil
		}

		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}

		m.input.Reset()
		m.messages = append(m.messages, displayMessage{
			Role:    "You",
			Content: text,
		})

		// Snapshot the prior turns before recording this one; the
		// prompt reaches the collaborator inside the instruction, not
		// as a duplicate history entry.
		priorTurns := m.history.GetMessages()
		m.history.AddMessage(aiservice.RoleUser, text)
		m.busy = true
		m.refreshViewport()

		return m, m.sendPrompt(text, priorTurns)
	}

	// Let textarea handle other keys
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleResponse processes the interpreter's answer.
func (m Model) handleResponse(msg ResponseMsg) (Model, tea.Cmd) {
	m.busy = false

	text := msg.Text
	if msg.Err != nil {
		text = "Error: " + msg.Err.Error()
	}

	m.messages = append(m.messages, displayMessage{
		Role:    "Assistant",
		Intent:  msg.Intent,
		Content: text,
	})
	m.history.AddMessage(aiservice.RoleAssistant, text)
	m.refreshViewport()

	if msg.Draft != nil {
		draft := *msg.Draft
		return m, func() tea.Msg {
			return DraftCreatedMsg{Draft: draft}
		}
	}

	return m, nil
}

// sendPrompt returns a command that runs the prompt through the request
// interpreter, carrying the session's prior turns for the collaborator.
func (m Model) sendPrompt(text string, history []aiservice.Message) tea.Cmd {
	interpreter := m.interpreter
	return func() tea.Msg {
		resp, err := interpreter.Handle(context.Background(), text, history)
		if err != nil {
			return ResponseMsg{Err: err}
		}
		return ResponseMsg{
			Intent: string(resp.Intent),
			Text:   resp.Text,
			Draft:  resp.Draft,
		}
	}
}

// refreshViewport re-renders the conversation content and scrolls to bottom.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

// renderConversation builds the conversation display string.
func (m Model) renderConversation() string {
	if len(m.messages) == 0 {
		return lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("Ask me to draft an email, summarize your inbox, " +
				"categorize your mail, or find a message.")
	}

	var sections []string

	roleStyle := lipgloss.NewStyle().Bold(true)
	userStyle := roleStyle.Foreground(theme.ColorBlue)
	assistantStyle := roleStyle.Foreground(theme.ColorGreen)
	contentStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	for _, msg := range m.messages {
		var label string
		switch msg.Role {
		case "You":
			label = userStyle.Render("You:")
		case "Assistant":
			label = assistantStyle.Render("Assistant:")
			if msg.Intent != "" {
				label += theme.IntentStyle(msg.Intent).Render(msg.Intent)
			}
		default:
			label = roleStyle.Render(msg.Role + ":")
		}

		sections = append(sections, label)
		sections = append(sections, contentStyle.Render(msg.Content))
		sections = append(sections, "")
	}

	if m.busy {
		thinkingStyle := lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true)
		sections = append(sections, thinkingStyle.Render("..."))
	}

	return strings.Join(sections, "\n")
}

// View renders the chat view.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Email Assistant")

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(
		strings.Repeat("─", min(m.width-6, 80)),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.viewport.View(),
		separator,
		m.input.View(),
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the chat view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(width - 4)

	vpHeight := height - 8
	if vpHeight < 4 {
		vpHeight = 4
	}
	m.viewport.Width = width - 4
	m.viewport.Height = vpHeight
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Reset clears the conversation and the session history.
func (m *Model) Reset() {
	m.messages = m.messages[:0]
	m.busy = false
	m.input.Reset()
	m.history.Reset()
	m.refreshViewport()
}

// SetInterpreter swaps the request interpreter, e.g. after the provider
// configuration changed.
func (m *Model) SetInterpreter(i *engine.Interpreter) {
	m.interpreter = i
}
