package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/fluentdeco/internal/config"
	"github.com/1broseidon/fluentdeco/internal/ipc"
)

// statusMsg carries a fresh host status, or nil when no host answered.
type statusMsg struct {
	status *ipc.StatusData
}

// model is the root bubbletea model for the TUI.
type model struct {
	configPath string
	result     *config.LoadResult
	loadErr    error
	client     *ipc.Client
	logger     *slog.Logger

	// Tab navigation
	activeTab Tab

	// Sub-models
	generalTab    GeneralTab
	shadowTab     ShadowTab
	exceptionsTab ExceptionsTab

	// Save overlay
	originalConfig *config.Config
	saveOverlay    SaveOverlay

	// Host state; nil when no host is running
	status *ipc.StatusData

	// Terminal dimensions
	width  int
	height int
}

func newModel(configPath string, client *ipc.Client, logger *slog.Logger) model {
	if logger == nil {
		logger = slog.Default()
	}
	m := model{
		configPath: configPath,
		client:     client,
		logger:     logger,
		activeTab:  TabGeneral,
	}

	m.loadConfig()

	var cfg *config.Config
	if m.result != nil {
		cfg = m.result.Config
		m.originalConfig = cloneConfig(cfg)
	}

	if client != nil {
		if st, err := client.GetStatus(); err == nil {
			m.status = st
		}
	}

	m.generalTab = NewGeneralTab(cfg)
	m.shadowTab = NewShadowTab(cfg)
	m.exceptionsTab = NewExceptionsTab(cfg)

	return m
}

func (m *model) loadConfig() {
	if m.configPath == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			m.loadErr = err
			return
		}
		m.configPath = path
	}
	res, err := config.LoadFromPath(m.configPath)
	if err != nil {
		m.loadErr = err
		return
	}
	m.result = res
}

// notifyCmd asks a running host to reload, then reports its status.
func (m model) notifyCmd() tea.Cmd {
	client, logger := m.client, m.logger
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		client.NotifyReload(logger)
		st, err := client.GetStatus()
		if err != nil {
			return statusMsg{}
		}
		return statusMsg{status: st}
	}
}

func (m *model) resizeTabs() {
	sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.generalTab, _ = m.generalTab.Update(sub)
	m.shadowTab, _ = m.shadowTab.Update(sub)
	m.exceptionsTab, _ = m.exceptionsTab.Update(sub)
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	return max(m.height-4, 1)
}

// capturing reports whether the active tab owns the keyboard.
func (m model) capturing() bool {
	switch m.activeTab {
	case TabGeneral:
		return m.generalTab.editing
	case TabShadow:
		return m.shadowTab.editing
	case TabExceptions:
		return m.exceptionsTab.editing
	}
	return false
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if st, ok := msg.(statusMsg); ok {
		m.status = st.status
		return m, nil
	}

	// Save overlay captures all input when active
	if m.saveOverlay.Active() {
		var cmd tea.Cmd
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			prevPhase := m.saveOverlay.phase
			m.saveOverlay, cmd = m.saveOverlay.Update(msg, m.result.Config, m.configPath, m.notifyCmd())
			if prevPhase == savePreview && m.saveOverlay.SaveSucceeded() {
				m.originalConfig = cloneConfig(m.result.Config)
			}
		case tea.WindowSizeMsg:
			m.width = msg.Width
			m.height = msg.Height
			m.resizeTabs()
		}
		return m, cmd
	}

	// ctrl+s opens the save overlay from any context, including forms
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+s" {
		if m.result != nil && m.result.Config != nil {
			m.saveOverlay.Show(m.originalConfig, m.result.Config, m.result.Files)
		}
		return m, nil
	}

	if m.capturing() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case tea.WindowSizeMsg:
			m.width = msg.Width
			m.height = msg.Height
			m.resizeTabs()
			return m, nil
		}
		return m.delegate(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabGeneral
			return m, nil
		case "2":
			m.activeTab = TabShadow
			return m, nil
		case "3":
			m.activeTab = TabExceptions
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeTabs()
		return m, nil
	}

	return m.delegate(msg)
}

// delegate forwards msg to the active tab's sub-model.
func (m model) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case TabGeneral:
		m.generalTab, cmd = m.generalTab.Update(msg)
	case TabShadow:
		m.shadowTab, cmd = m.shadowTab.Update(msg)
	case TabExceptions:
		m.exceptionsTab, cmd = m.exceptionsTab.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := max(m.height-usedHeight, 1)

	var content string
	switch {
	case m.saveOverlay.Active():
		content = m.saveOverlay.View(m.width, contentHeight)
	case m.loadErr != nil:
		content = lipgloss.NewStyle().
			Width(m.width).
			Height(contentHeight).
			Padding(1, 2).
			Foreground(lipgloss.Color("196")).
			Render("Failed to load " + m.configPath + ":\n\n" + m.loadErr.Error())
	default:
		switch m.activeTab {
		case TabGeneral:
			content = m.generalTab.View()
		case TabShadow:
			content = m.shadowTab.View()
		case TabExceptions:
			content = m.exceptionsTab.View()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
