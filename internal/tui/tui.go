// Package tui is the Bubble Tea front end for interactive play. The engine
// runs on its own goroutine and talks to the model through a Bridge.
package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

const sidebarWidth = 30

// TUIModel represents the Bubble Tea model for a blackjack session
type TUIModel struct {
	bridge *Bridge
	player string
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	input       textinput.Model

	// State
	gameLog  []string
	snapshot game.Snapshot
	prompt   string // empty while the engine is not asking
	quitting bool
	err      error

	// Dimensions
	width  int
	height int
}

// NewTUIModel creates a model for the named player
func NewTUIModel(bridge *Bridge, player string, logger *log.Logger) *TUIModel {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "h, s, d, p or a wager"
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(focusColor).Bold(true)
	ti.Prompt = "> "

	return &TUIModel{
		bridge:      bridge,
		player:      player,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
	}
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.bridge.listen())
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case promptMsg:
		m.prompt = msg.text
		return m, tea.Batch(m.input.Focus(), m.bridge.listen())

	case eventMsg:
		m.handleEvent(msg.event)
		return m, m.bridge.listen()

	case doneMsg:
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if isQuit(line) {
				return m, m.quit()
			}
			m.submit(line)
			return m, nil
		case "pgup":
			m.logViewport.HalfPageUp()
		case "pgdown":
			m.logViewport.HalfPageDown()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func isQuit(line string) bool {
	switch strings.ToLower(line) {
	case "q", "quit", "exit":
		return true
	}
	return false
}

func (m *TUIModel) quit() tea.Cmd {
	m.quitting = true
	m.bridge.Quit()
	return tea.Quit
}

// submit hands a line to the engine if it is waiting for one.
func (m *TUIModel) submit(line string) {
	if m.prompt == "" {
		return
	}
	if !m.bridge.Submit(line) {
		m.logger.Warn("Dropped input, engine busy", "line", line)
		return
	}
	if line == "" {
		line = "(enter)"
	}
	m.AddLogEntry(InfoStyle.Render("> " + line))
	m.prompt = ""
}

func (m *TUIModel) handleEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.RoundStartEvent:
		m.snapshot = e.Snapshot
		m.AddLogEntry("")
		m.AddLogEntry(HeaderStyle.Render(fmt.Sprintf("Round %d", e.Snapshot.Round)))
		if p, ok := e.Snapshot.Player(m.player); ok {
			m.AddLogEntry(fmt.Sprintf("%s wagers %s", p.Name, money(p.Wager)))
		}

	case game.DealEvent:
		m.snapshot = e.Snapshot
		m.AddLogEntry("Dealer shows " + formatHand(e.Snapshot.Dealer.Hand, e.Snapshot.HoleDown))
		if p, ok := e.Snapshot.Player(m.player); ok {
			m.AddLogEntry(fmt.Sprintf("Dealt to %s: %s", p.Name, handWithTotal(p.Hand)))
		}

	case game.ActionEvent:
		m.snapshot = e.Snapshot
		m.AddLogEntry(m.formatAction(e))

	case game.DealerTurnEvent:
		m.snapshot = e.Snapshot
		m.AddLogEntry("Dealer reveals " + handWithTotal(e.Snapshot.Dealer.Hand))

	case game.SettleEvent:
		m.snapshot = e.Snapshot
		for _, r := range e.Results {
			if r.Actor != m.player {
				continue
			}
			m.AddLogEntry(formatResult(r))
		}
		if p, ok := e.Snapshot.Player(m.player); ok {
			m.AddLogEntry(WarningStyle.Render("Balance " + money(p.Balance)))
		}
	}
}

func (m *TUIModel) formatAction(e game.ActionEvent) string {
	if e.Actor == e.Snapshot.Dealer.Name {
		return fmt.Sprintf("Dealer %ss: %s", e.Action, handWithTotal(e.Snapshot.Dealer.Hand))
	}
	p, ok := e.Snapshot.Player(e.Actor)
	if !ok {
		return fmt.Sprintf("%s %ss", e.Actor, e.Action)
	}
	line := fmt.Sprintf("%s %ss: %s", p.Name, e.Action, handWithTotal(p.Hand))
	if len(p.SplitHand) > 0 {
		line += " | " + handWithTotal(p.SplitHand)
	}
	return line
}

func formatResult(r game.HandResult) string {
	label := fmt.Sprintf("%s %s", strings.ToUpper(r.Outcome.String()), signedMoney(r.Net))
	switch r.Outcome {
	case game.Win, game.Blackjack:
		label = SuccessStyle.Render(label)
	case game.Lose:
		label = ErrorStyle.Render(label)
	default:
		label = WarningStyle.Render(label)
	}
	return fmt.Sprintf("%s %s", formatHand(r.Hand, false), label)
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent) + 2
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(focusColor).
		Width(max(m.width-2, 1)).
		Render(actionContent)

	paneHeight := max(m.height-actionHeight-2, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(blurColor).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(m.renderSidebarPane())

	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.GotoBottom()

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(blurColor).
		Width(m.logViewport.Width).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane shows the table as of the last event
func (m *TUIModel) renderSidebarPane() string {
	var content strings.Builder
	s := m.snapshot

	content.WriteString(HandInfoStyle.Render(fmt.Sprintf("Round %d", s.Round)))
	content.WriteString("\n\n")

	content.WriteString("Dealer\n")
	content.WriteString("  " + formatHand(s.Dealer.Hand, s.HoleDown) + "\n\n")

	p, ok := s.Player(m.player)
	if !ok {
		return content.String()
	}
	content.WriteString(p.Name + "\n")
	content.WriteString("  " + handWithTotal(p.Hand) + "\n")
	if len(p.SplitHand) > 0 {
		content.WriteString("  " + handWithTotal(p.SplitHand) + "\n")
	}
	content.WriteString(fmt.Sprintf("  Status  %s\n", p.Status))
	content.WriteString(fmt.Sprintf("  Wager   %s", money(p.Wager)))
	if p.SplitWager > 0 {
		content.WriteString(" + " + money(p.SplitWager))
	}
	content.WriteString("\n")
	content.WriteString(WarningStyle.Render(fmt.Sprintf("  Balance %s", money(p.Balance))))
	return content.String()
}

// renderActionPane renders the prompt and input line
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	if m.prompt != "" {
		content.WriteString(PromptStyle.Render(m.prompt))
	} else {
		content.WriteString(HandInfoStyle.Render("Dealing..."))
	}
	content.WriteString("\n")
	content.WriteString(m.input.View())
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render("Enter to submit • PgUp/PgDn scroll • q or Ctrl+C to quit"))
	return content.String()
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
}

// Log returns a copy of the game log
func (m *TUIModel) Log() []string {
	return slices.Clone(m.gameLog)
}

// Err returns the error the engine stopped with, if any.
func (m *TUIModel) Err() error {
	return m.err
}

// formatHand renders cards with suit colours. hole adds a face down card.
func formatHand(cards deck.Hand, hole bool) string {
	formatted := make([]string, 0, len(cards)+1)
	for _, card := range cards {
		if card.IsRed() {
			formatted = append(formatted, RedCardStyle.Render(card.String()))
		} else {
			formatted = append(formatted, BlackCardStyle.Render(card.String()))
		}
	}
	if hole {
		formatted = append(formatted, HiddenCardStyle.Render("??"))
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func handWithTotal(h deck.Hand) string {
	if len(h) == 0 {
		return formatHand(h, false)
	}
	switch {
	case h.IsBust():
		return formatHand(h, false) + " bust"
	case h.HasBlackjack():
		return formatHand(h, false) + " blackjack"
	default:
		return fmt.Sprintf("%s %d", formatHand(h, false), h.Best())
	}
}

func money(v float64) string {
	if v < 0 {
		return "-$" + strconv.FormatFloat(-v, 'f', -1, 64)
	}
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}

func signedMoney(v float64) string {
	if v > 0 {
		return "+" + money(v)
	}
	return money(v)
}
