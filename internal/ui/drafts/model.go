package drafts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inbox-assistant/internal/keys"
	"github.com/nhle/inbox-assistant/internal/model"
	"github.com/nhle/inbox-assistant/internal/theme"
)

// DeleteDraftMsg asks the parent to remove a draft from the session list.
type DeleteDraftMsg struct {
	Index int
}

// SendDraftMsg asks the parent to send a draft through the mailbox store.
type SendDraftMsg struct {
	Index int
}

// Model is the draft list view over the session-held drafts. The drafts
// belong to the application session, not to this view and not to the
// engine; the parent pushes updates via SetDrafts.
type Model struct {
	drafts      []model.DraftEmail
	selectedIdx int
	expanded    bool
	viewport    viewport.Model
	keys        *keys.KeyMap
	statusMsg   string
	width       int
	height      int
}

// New creates the draft list view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width-4, height-8)

	return Model{
		drafts:   make([]model.DraftEmail, 0),
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetDrafts replaces the displayed draft list.
func (m *Model) SetDrafts(drafts []model.DraftEmail) {
	m.drafts = drafts
	if m.selectedIdx >= len(drafts) {
		m.selectedIdx = len(drafts) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
	if m.expanded && len(drafts) > 0 {
		m.viewport.SetContent(m.drafts[m.selectedIdx].Body)
	}
}

// SetStatus sets a transient status line shown under the list.
func (m *Model) SetStatus(msg string) {
	m.statusMsg = msg
}

// Update handles messages for the draft list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "esc":
		if m.expanded {
			m.expanded = false
			return m, nil
		}

	case "j", "down":
		if !m.expanded && len(m.drafts) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.drafts)
		}

	case "k", "up":
		if !m.expanded && len(m.drafts) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.drafts) - 1
			}
		}

	case "enter":
		if len(m.drafts) > 0 {
			m.expanded = true
			m.viewport.SetContent(m.drafts[m.selectedIdx].Body)
			m.viewport.GotoTop()
		}

	case "d":
		if len(m.drafts) > 0 {
			idx := m.selectedIdx
			m.expanded = false
			m.statusMsg = ""
			return m, func() tea.Msg { return DeleteDraftMsg{Index: idx} }
		}

	case "s":
		if len(m.drafts) > 0 {
			idx := m.selectedIdx
			return m, func() tea.Msg { return SendDraftMsg{Index: idx} }
		}
	}

	if m.expanded {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the draft list or the expanded draft body.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	if len(m.drafts) == 0 {
		empty := theme.HelpStyle.Render(
			"No draft emails yet. Ask the assistant to create one for you!",
		)
		content := lipgloss.JoinVertical(
			lipgloss.Left,
			titleStyle.Render("Draft Emails"),
			empty,
		)
		return theme.PanelStyle.Width(m.width - 4).Render(content)
	}

	if m.expanded {
		draft := m.drafts[m.selectedIdx]
		header := titleStyle.Render(
			fmt.Sprintf("Draft %d to %s", m.selectedIdx+1, draft.Recipient),
		)
		content := lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			m.viewport.View(),
		)
		return theme.PanelStyle.Width(m.width - 4).Render(content)
	}

	var lines []string
	lines = append(lines, titleStyle.Render("Draft Emails"))

	for i, draft := range m.drafts {
		line := fmt.Sprintf("%d. %s - %s (%s)",
			i+1, draft.Subject, draft.Recipient,
			draft.CreatedAt.Format("Jan 2 15:04"),
		)
		if i == m.selectedIdx {
			lines = append(lines, theme.SelectedItemStyle.Render(line))
		} else {
			lines = append(lines, theme.ListItemStyle.Render(line))
		}
	}

	if m.statusMsg != "" {
		lines = append(lines, "", theme.HelpStyle.Render(m.statusMsg))
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(strings.Join(lines, "\n"))
}

// SetSize updates the draft view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 4
	m.viewport.Height = height - 8
}
