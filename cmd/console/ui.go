package main

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/wolf-agent/pkg/decision"
	"github.com/jwebster45206/wolf-agent/pkg/game"
)

const PlaceHolderText = "speaker: text, or /help for commands..."

// selectableRoles is the role menu shown at startup.
var selectableRoles = []game.Role{
	game.RoleVillager,
	game.RoleSeer,
	game.RoleWitch,
	game.RoleGuard,
	game.RoleHunter,
	game.RoleWolf,
	game.RoleWolfKing,
}

// ConsoleUI is the BubbleTea model that drives a game session against
// the agent API: the operator relays table events in, and reads the
// agent's trust state and decisions out.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	session      *game.Context
	logViewport  viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// transcript lines rendered in the log panel
	lines []string

	// Role selection state
	showRoleModal bool
	selectedRole  int

	// Quit confirmation state
	showQuitModal bool
}

type sessionCreatedMsg struct {
	session *game.Context
	err     error
}

type sessionMsg struct {
	session *game.Context
	err     error
}

type eventResultMsg struct {
	line string
	err  error
}

type decideResultMsg struct {
	action string
	result *decision.Result
	err    error
}

type speechResultMsg struct {
	speech string
	err    error
}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	agentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	operatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	suspiciousStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:        cfg,
		client:        client,
		textarea:      ta,
		logViewport:   logVp,
		metaViewport:  metaVp,
		ready:         false,
		showRoleModal: true,
		selectedRole:  0,
	}
}

// writeLogContent rebuilds the log panel for the current width.
func (m *ConsoleUI) writeLogContent() {
	logWidth := m.logViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render("WOLF AGENT") + "\n\n")
	content.WriteString("Relay table events below; the agent tracks trust and decides.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(logWidth-6, 10))) + "\n\n")

	for _, line := range m.lines {
		content.WriteString(wordwrap.String(line, max(logWidth-2, 20)))
		content.WriteString("\n\n")
	}

	if m.loading {
		content.WriteString(loadingStyle.Render("...") + "\n")
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

// writeMetadata renders the session panel: round, phase, resources and
// the trust table sorted most suspicious first.
func writeMetadata(gc *game.Context) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SESSION") + "\n\n")

	content.WriteString("Session ID:\n")
	content.WriteString(gc.ID.String()[:8] + "...\n\n")

	content.WriteString(fmt.Sprintf("Playing %s as %s\n", gc.Role, gc.SelfID))
	content.WriteString(fmt.Sprintf("Round %d (%s)\n", gc.Round, gc.Phase()))
	content.WriteString(fmt.Sprintf("Alive: %d\n\n", gc.AliveCount()))

	content.WriteString("Trust (low = suspicious):\n")
	ids := gc.AliveIDs()
	sort.Slice(ids, func(i, j int) bool {
		return gc.Entity(ids[i]).Trust < gc.Entity(ids[j]).Trust
	})
	for _, id := range ids {
		if id == gc.SelfID {
			continue
		}
		e := gc.Entity(id)
		line := fmt.Sprintf("• %s: %.0f", id, e.Trust)
		if e.Verified != game.AlignmentUnknown {
			line += fmt.Sprintf(" [%s]", e.Verified)
		}
		if e.Trust < 25 {
			line = suspiciousStyle.Render(line)
		}
		content.WriteString(line + "\n")
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• speaker: text\n")
	content.WriteString("• /vote A B\n")
	content.WriteString("• /round [n]\n")
	content.WriteString("• /out A\n")
	content.WriteString("• /verify A ally|hostile\n")
	content.WriteString("• /decide action\n")
	content.WriteString("• /speech [stance]\n")
	content.WriteString("• /copy, /help, Ctrl+C\n")

	return content.String()
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showRoleModal {
		return m.updateRoleModal(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.writeLogContent()
		if m.session != nil {
			m.metaViewport.SetContent(writeMetadata(m.session))
		}
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}
			return m.handleSpeechInput(input)
		}

	case eventResultMsg:
		m.loading = false
		if msg.err != nil {
			m.lines = append(m.lines, errorStyle.Render("Error: "+msg.err.Error()))
		} else {
			m.lines = append(m.lines, operatorStyle.Render(msg.line))
		}
		m.writeLogContent()
		return m, m.refreshSession()

	case decideResultMsg:
		m.loading = false
		if msg.err != nil {
			m.lines = append(m.lines, errorStyle.Render("Error: "+msg.err.Error()))
		} else if msg.result.Target != "" {
			m.lines = append(m.lines, agentStyle.Render(fmt.Sprintf(
				"Agent %s: %s (%s, confidence %.2f)",
				msg.action, msg.result.Target, msg.result.Reason, msg.result.Confidence)))
		} else {
			m.lines = append(m.lines, agentStyle.Render(fmt.Sprintf(
				"Agent abstains from %s: %s", msg.action, msg.result.Reason)))
		}
		m.writeLogContent()
		return m, m.refreshSession()

	case speechResultMsg:
		m.loading = false
		if msg.err != nil {
			m.lines = append(m.lines, errorStyle.Render("Error: "+msg.err.Error()))
		} else {
			m.lines = append(m.lines, agentStyle.Render("Agent says: ")+msg.speech)
		}
		m.writeLogContent()

	case sessionMsg:
		if msg.err == nil && msg.session != nil {
			m.session = msg.session
			m.metaViewport.SetContent(writeMetadata(m.session))
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) resize() {
	logWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - logWidth - 6

	m.logViewport.Width = logWidth - 2
	m.logViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(logWidth - 4)
}

// handleSpeechInput relays a "speaker: text" line as a speech event.
func (m ConsoleUI) handleSpeechInput(input string) (tea.Model, tea.Cmd) {
	idx := strings.Index(input, ":")
	if idx <= 0 {
		m.lines = append(m.lines, errorStyle.Render(`Expected "speaker: text"`))
		m.writeLogContent()
		return m, nil
	}
	speaker := strings.TrimSpace(input[:idx])
	text := strings.TrimSpace(input[idx+1:])

	m.loading = true
	m.writeLogContent()
	return m, m.sendEvent(EventRequest{Type: "speech", Actor: speaker, Text: text},
		fmt.Sprintf("%s: %s", speaker, text))
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "/help":
		m.lines = append(m.lines, titleStyle.Render("Commands:")+`
• speaker: text    relay a table speech
• /vote A B        A voted for B
• /round [n]       start the next (or given) round
• /out A           A was eliminated
• /verify A ally|hostile   oracle result for A
• /decide action   vote, kill, save, poison, shoot, guard, check
• /speech [stance] ask the agent to speak
• /copy            copy session ID to clipboard`)
		m.writeLogContent()

	case "/vote":
		if len(fields) != 3 {
			return m.commandError("Usage: /vote voter target")
		}
		m.loading = true
		m.writeLogContent()
		return m, m.sendEvent(EventRequest{Type: "vote", Actor: fields[1], Target: fields[2]},
			fmt.Sprintf("%s voted for %s", fields[1], fields[2]))

	case "/round":
		round := 0
		if len(fields) > 1 {
			fmt.Sscanf(fields[1], "%d", &round)
		}
		m.loading = true
		m.writeLogContent()
		return m, m.sendEvent(EventRequest{Type: "round", Round: round}, "— new round —")

	case "/out":
		if len(fields) != 2 {
			return m.commandError("Usage: /out target")
		}
		m.loading = true
		m.writeLogContent()
		return m, m.sendEvent(EventRequest{Type: "elimination", Target: fields[1]},
			fmt.Sprintf("%s was eliminated", fields[1]))

	case "/verify":
		if len(fields) != 3 {
			return m.commandError("Usage: /verify target ally|hostile")
		}
		m.loading = true
		m.writeLogContent()
		return m, m.sendEvent(EventRequest{Type: "verification", Target: fields[1], Alignment: fields[2]},
			fmt.Sprintf("%s verified as %s", fields[1], fields[2]))

	case "/decide":
		if len(fields) != 2 {
			return m.commandError("Usage: /decide action")
		}
		m.loading = true
		m.writeLogContent()
		action := strings.ToLower(fields[1])
		return m, func() tea.Msg {
			result, err := postDecide(m.client, m.config.APIBaseURL, m.session.ID, action)
			return decideResultMsg{action: action, result: result, err: err}
		}

	case "/speech":
		stance := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))
		m.loading = true
		m.writeLogContent()
		return m, func() tea.Msg {
			speech, err := postSpeech(m.client, m.config.APIBaseURL, m.session.ID, stance)
			return speechResultMsg{speech: speech, err: err}
		}

	case "/copy":
		if err := clipboard.WriteAll(m.session.ID.String()); err != nil {
			return m.commandError("Clipboard unavailable: " + err.Error())
		}
		m.lines = append(m.lines, promptStyle.Render("Session ID copied to clipboard"))
		m.writeLogContent()

	default:
		return m.commandError("Unknown command. Try /help.")
	}

	return m, nil
}

func (m ConsoleUI) commandError(text string) (tea.Model, tea.Cmd) {
	m.lines = append(m.lines, errorStyle.Render(text))
	m.writeLogContent()
	return m, nil
}

func (m ConsoleUI) sendEvent(event EventRequest, line string) tea.Cmd {
	return func() tea.Msg {
		_, err := postEvent(m.client, m.config.APIBaseURL, m.session.ID, event)
		return eventResultMsg{line: line, err: err}
	}
}

func (m ConsoleUI) refreshSession() tea.Cmd {
	return func() tea.Msg {
		gc, err := getSession(m.client, m.config.APIBaseURL, m.session.ID)
		return sessionMsg{gc, err}
	}
}

func (m ConsoleUI) createSessionForRole(role game.Role) tea.Cmd {
	return func() tea.Msg {
		gc, err := createSession(m.client, m.config.APIBaseURL, CreateSessionRequest{
			SelfID:  m.config.SelfID,
			Role:    string(role),
			Players: m.config.Players,
		})
		return sessionCreatedMsg{gc, err}
	}
}

func (m ConsoleUI) updateRoleModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case sessionCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.session = msg.session
			m.showRoleModal = false
			if m.width > 0 && m.height > 0 {
				m.resize()
			}
			m.writeLogContent()
			m.metaViewport.SetContent(writeMetadata(m.session))
			m.textarea.Focus()
			m.ready = true
		}
		return m, textarea.Blink

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.selectedRole > 0 {
				m.selectedRole--
			}
		case tea.KeyDown:
			if m.selectedRole < len(selectableRoles)-1 {
				m.selectedRole++
			}
		case tea.KeyEnter:
			if !m.loading {
				m.loading = true
				return m, m.createSessionForRole(selectableRoles[m.selectedRole])
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Leave the session? The agent's state stays on the server.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderRoleModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to create session: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else if m.loading {
		content.WriteString(modalTitleStyle.Render("Creating Session..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Dealing the agent in..."))
	} else {
		content.WriteString(modalTitleStyle.Render("Select the Agent's Role"))
		content.WriteString("\n\n")

		for i, role := range selectableRoles {
			if i == m.selectedRole {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", role)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", role)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showRoleModal {
		return m.renderRoleModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(logWidth-4, 10))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
