package settings

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inbox-assistant/internal/credential"
	"github.com/nhle/inbox-assistant/internal/keys"
	"github.com/nhle/inbox-assistant/internal/model"
	"github.com/nhle/inbox-assistant/internal/theme"
)

// CredentialKey names the keyring entry for the given provider.
func CredentialKey(provider string) string {
	return provider + "-api-key"
}

// SettingsSavedMsg signals the parent that the configuration changed and
// the interpreter should be rebuilt.
type SettingsSavedMsg struct {
	Config *model.AppConfig
}

// SettingsDoneMsg signals the settings view should close.
type SettingsDoneMsg struct{}

// Model is the settings view: a huh form over the collaborator provider,
// model name, and API key. The key is stored in the system keyring, never
// in the config file.
type Model struct {
	cfg        *model.AppConfig
	configPath string
	form       *huh.Form
	keys       *keys.KeyMap
	statusMsg  string

	// Form field values (huh binds to these)
	formProvider string
	formModel    string
	formAPIKey   string

	width  int
	height int
}

// New creates the settings view model.
func New(cfg *model.AppConfig, configPath string, k *keys.KeyMap, width, height int) Model {
	return Model{
		cfg:        cfg,
		configPath: configPath,
		keys:       k,
		width:      width,
		height:     height,
	}
}

// Init builds a fresh form from the current configuration.
func (m *Model) Init() tea.Cmd {
	m.formProvider = m.cfg.AI.Provider
	m.formModel = m.cfg.AI.Model
	m.formAPIKey = ""
	m.statusMsg = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// buildForm constructs the provider configuration form.
func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("AI Provider").
				Description("Generator used for drafts, summaries, and search narration").
				Options(
					huh.NewOption("None - template responses only", model.ProviderNone),
					huh.NewOption("Anthropic - Claude", model.ProviderAnthropic),
					huh.NewOption("Groq - Llama 3 (free tier)", model.ProviderGroq),
				).
				Value(&m.formProvider),
			huh.NewInput().
				Title("Model").
				Description("Leave empty for the provider default").
				Value(&m.formModel),
			huh.NewInput().
				Title("API Key").
				Description("Stored in the system keyring; leave empty to keep the current key").
				EchoMode(huh.EchoModePassword).
				Value(&m.formAPIKey),
		),
	).WithWidth(m.formWidth())
}

// Update handles messages for the settings view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if sizeMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = sizeMsg.Width
		m.height = sizeMsg.Height
	}

	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.save()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return SettingsDoneMsg{} }
	}

	return m, cmd
}

// save persists the configuration and the credential, then notifies the
// parent.
func (m Model) save() (Model, tea.Cmd) {
	m.cfg.AI.Provider = m.formProvider
	m.cfg.AI.Model = m.formModel

	if m.formAPIKey != "" && m.formProvider != model.ProviderNone {
		key := CredentialKey(m.formProvider)
		if err := credential.Set(key, m.formAPIKey); err != nil {
			m.statusMsg = fmt.Sprintf("Error saving credential: %v", err)
			m.form = nil
			return m, nil
		}
	}

	if err := model.SaveConfig(m.configPath, m.cfg); err != nil {
		m.statusMsg = fmt.Sprintf("Error saving config: %v", err)
		m.form = nil
		return m, nil
	}

	cfg := m.cfg
	m.form = nil
	m.statusMsg = "Settings saved"
	return m, func() tea.Msg { return SettingsSavedMsg{Config: cfg} }
}

// View renders the settings form.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Settings")

	body := ""
	switch {
	case m.form != nil:
		body = m.form.View()
	case m.statusMsg != "":
		body = theme.HelpStyle.Render(m.statusMsg + " (press esc to go back)")
	default:
		body = theme.HelpStyle.Render("Press esc to go back")
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, body)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// formWidth returns a usable width for the form.
func (m Model) formWidth() int {
	w := m.width - 8
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

// SetSize updates the settings view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
