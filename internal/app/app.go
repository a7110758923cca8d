package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	aiservice "github.com/nhle/inbox-assistant/internal/ai"
	"github.com/nhle/inbox-assistant/internal/credential"
	"github.com/nhle/inbox-assistant/internal/engine"
	"github.com/nhle/inbox-assistant/internal/keys"
	"github.com/nhle/inbox-assistant/internal/mailbox"
	"github.com/nhle/inbox-assistant/internal/model"
	"github.com/nhle/inbox-assistant/internal/ui"
	chatview "github.com/nhle/inbox-assistant/internal/ui/chat"
	draftsview "github.com/nhle/inbox-assistant/internal/ui/drafts"
	helpview "github.com/nhle/inbox-assistant/internal/ui/help"
	settingsview "github.com/nhle/inbox-assistant/internal/ui/settings"
)

// draftSentMsg carries the result of sending a draft through the store.
type draftSentMsg struct {
	index   int
	message string
	err     error
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewChat ViewState = iota
	ViewDrafts
	ViewSettings
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and the session draft list.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        *mailbox.SQLiteStore
	cfg          *model.AppConfig
	configPath   string
	keys         *keys.KeyMap
	chatView     chatview.Model
	draftsView   draftsview.Model
	settingsView settingsview.Model
	helpView     helpview.Model
	drafts       []model.DraftEmail
	hasGenerator bool
	ready        bool
}

// New creates the root application model wired to the given mailbox store
// and configuration.
func New(s *mailbox.SQLiteStore, cfg *model.AppConfig, configPath string) Model {
	k := keys.DefaultKeyMap()
	generator := loadGenerator(cfg)
	interpreter := newInterpreter(s, generator, cfg)

	return Model{
		currentView:  ViewChat,
		store:        s,
		cfg:          cfg,
		configPath:   configPath,
		keys:         k,
		chatView:     chatview.New(interpreter, k, 80, 24),
		draftsView:   draftsview.New(k, 80, 24),
		settingsView: settingsview.New(cfg, configPath, k, 80, 24),
		helpView:     helpview.New(k, 80, 24),
		hasGenerator: generator != nil,
	}
}

// loadGenerator builds the configured AI generator, reading the API key
// from the environment first and falling back to the system keyring.
// Returns nil when no provider is configured or no key is available;
// the interpreter then runs in template mode.
func loadGenerator(cfg *model.AppConfig) aiservice.Generator {
	provider := cfg.AI.Provider
	if provider == "" || provider == model.ProviderNone {
		return nil
	}

	envVar := "ANTHROPIC_API_KEY"
	if provider == model.ProviderGroq {
		envVar = "GROQ_API_KEY"
	}

	apiKey := os.Getenv(envVar)
	if apiKey == "" {
		var err error
		apiKey, err = credential.Get(settingsview.CredentialKey(provider))
		if err != nil || apiKey == "" {
			return nil
		}
	}

	switch provider {
	case model.ProviderGroq:
		return aiservice.NewGroq(apiKey, cfg.AI.Model, cfg.AI.MaxTokens)
	default:
		return aiservice.NewAnthropic(apiKey, cfg.AI.Model, cfg.AI.MaxTokens)
	}
}

// newInterpreter builds a request interpreter from the configuration.
func newInterpreter(s *mailbox.SQLiteStore, g aiservice.Generator, cfg *model.AppConfig) *engine.Interpreter {
	return engine.New(s, g, engine.Config{
		Timeout:   time.Duration(cfg.AI.TimeoutSec) * time.Second,
		ListLimit: cfg.Mailbox.ListLimit,
	})
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return m.chatView.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.chatView.SetSize(contentWidth, contentHeight)
		m.draftsView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case chatview.DraftCreatedMsg:
		m.drafts = append(m.drafts, msg.Draft)
		return m, nil

	case draftsview.DeleteDraftMsg:
		if msg.Index >= 0 && msg.Index < len(m.drafts) {
			m.drafts = append(m.drafts[:msg.Index], m.drafts[msg.Index+1:]...)
			m.draftsView.SetDrafts(m.drafts)
			m.draftsView.SetStatus("Draft deleted")
		}
		return m, nil

	case draftsview.SendDraftMsg:
		if msg.Index < 0 || msg.Index >= len(m.drafts) {
			return m, nil
		}
		return m, m.sendDraft(msg.Index, m.drafts[msg.Index])

	case draftSentMsg:
		if msg.err != nil {
			m.draftsView.SetStatus(fmt.Sprintf("Error sending draft: %v", msg.err))
			return m, nil
		}
		if msg.index >= 0 && msg.index < len(m.drafts) {
			m.drafts = append(m.drafts[:msg.index], m.drafts[msg.index+1:]...)
		}
		m.draftsView.SetDrafts(m.drafts)
		m.draftsView.SetStatus(msg.message)
		return m, nil

	case settingsview.SettingsSavedMsg:
		// Rebuild the interpreter against the new provider configuration.
		generator := loadGenerator(msg.Config)
		m.hasGenerator = generator != nil
		m.chatView.SetInterpreter(newInterpreter(m.store, generator, msg.Config))
		m.currentView = ViewChat
		return m, m.chatView.Focus()

	case settingsview.SettingsDoneMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		// Global keys that work regardless of current view. Plain letters
		// stay with the chat input; only control chords switch views.
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "ctrl+a":
			if m.currentView != ViewChat {
				m.previousView = m.currentView
				m.currentView = ViewChat
				return m, m.chatView.Focus()
			}

		case "ctrl+d":
			if m.currentView != ViewDrafts {
				m.previousView = m.currentView
				m.currentView = ViewDrafts
				m.draftsView.SetDrafts(m.drafts)
				return m, nil
			}

		case "ctrl+s":
			if m.currentView != ViewSettings {
				m.previousView = m.currentView
				m.currentView = ViewSettings
				return m, m.settingsView.Init()
			}

		case "ctrl+h":
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case "esc":
			if m.currentView == ViewDrafts || m.currentView == ViewHelp {
				m.currentView = ViewChat
				return m, m.chatView.Focus()
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewChat:
		m.chatView, cmd = m.chatView.Update(msg)
	case ViewDrafts:
		m.draftsView, cmd = m.draftsView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// sendDraft returns a command that connects to the store and sends the
// given draft.
func (m Model) sendDraft(index int, draft model.DraftEmail) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		if err := s.Connect(ctx); err != nil {
			return draftSentMsg{index: index, err: err}
		}
		result, err := s.Send(ctx, draft.Recipient, draft.Subject, draft.Body, nil, nil)
		if err != nil {
			return draftSentMsg{index: index, err: err}
		}
		return draftSentMsg{index: index, message: result.Message}
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "Inbox Assistant"
	if len(m.drafts) > 0 {
		headerTitle = fmt.Sprintf("Inbox Assistant [%d draft(s)]", len(m.drafts))
	}
	header := m.layout.RenderHeader(headerTitle, m.providerStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewChat:
		return m.chatView.View()
	case ViewDrafts:
		return m.draftsView.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// providerStatus returns a short string describing the generator in use.
func (m Model) providerStatus() string {
	if !m.hasGenerator {
		return "templates"
	}
	switch m.cfg.AI.Provider {
	case model.ProviderGroq:
		return "groq"
	case model.ProviderAnthropic:
		return "anthropic"
	default:
		return "templates"
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewDrafts:
		return "j/k navigate | enter open | s send | d delete | esc back"
	case ViewSettings:
		return "enter submit | esc cancel"
	case ViewHelp:
		return "ctrl+h close help | esc back"
	default:
		return "enter send | ctrl+r reset | ctrl+d drafts | ctrl+s settings | ctrl+h help | ctrl+c quit"
	}
}
