package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	coordinator "github.com/mlovric/duplex-core/core"
)

const meterWidth = 24

type uiTheme struct {
	title     lipgloss.Style
	label     lipgloss.Style
	phase     lipgloss.Style
	open      lipgloss.Style
	muted     lipgloss.Style
	assistant lipgloss.Style
	user      lipgloss.Style
	meterOn   lipgloss.Style
	meterOff  lipgloss.Style
	footer    lipgloss.Style
	errText   lipgloss.Style
}

func newTheme() uiTheme {
	return uiTheme{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		label:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		phase:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		open:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		muted:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		user:      lipgloss.NewStyle().Foreground(lipgloss.Color("228")),
		meterOn:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		meterOff:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		footer:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		errText:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

type sessionReadyMsg struct{}

type sessionErrMsg struct{ err error }

type snapshotMsg struct{ snapshot coordinator.Snapshot }

type activityMsg struct{ activity coordinator.SpeechActivity }

type turnEndedMsg struct{ ended coordinator.TurnEnded }

type transcriptMsg struct {
	speaker string
	text    string
	final   bool
}

type wireMsg struct{ eventType string }

type model struct {
	theme   uiTheme
	spinner spinner.Model
	history viewport.Model

	width  int
	height int
	ready  bool

	snapshot coordinator.Snapshot
	activity coordinator.SpeechActivity

	lines            []string
	pendingUser      string
	pendingAssistant string

	lastWire string
	err      error
}

func newModel() model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return model{
		theme:   newTheme(),
		spinner: s,
		history: viewport.New(80, 12),
		snapshot: coordinator.Snapshot{
			Turn:           coordinator.TurnPhaseIdle,
			CaptureEnabled: true,
		},
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.history.Width = msg.Width - 2
		m.history.Height = max(msg.Height-8, 3)
		m.refreshHistory()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionReadyMsg:
		m.ready = true
		return m, nil

	case sessionErrMsg:
		m.err = msg.err
		return m, nil

	case snapshotMsg:
		m.snapshot = msg.snapshot
		return m, nil

	case activityMsg:
		m.activity = msg.activity
		return m, nil

	case transcriptMsg:
		m.applyTranscript(msg)
		return m, nil

	case turnEndedMsg:
		if m.pendingAssistant != "" {
			m.pendingAssistant = ""
		}
		m.appendLine(m.theme.assistant.Render("assistant: ") + msg.ended.Transcript)
		return m, nil

	case wireMsg:
		m.lastWire = msg.eventType
		return m, nil
	}

	return m, nil
}

func (m *model) applyTranscript(msg transcriptMsg) {
	switch msg.speaker {
	case "user":
		if msg.final {
			m.pendingUser = ""
			m.appendLine(m.theme.user.Render("user: ") + msg.text)
			return
		}
		m.pendingUser = msg.text
	case "assistant":
		// Segments accumulate until the turn-ended line replaces them.
		m.pendingAssistant += msg.text
	}
}

func (m *model) appendLine(line string) {
	m.lines = append(m.lines, line)
	m.refreshHistory()
	m.history.GotoBottom()
}

func (m *model) refreshHistory() {
	width := m.history.Width
	if width <= 0 {
		width = 78
	}
	m.history.SetContent(wordwrap.String(strings.Join(m.lines, "\n"), width))
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.title.Render("duplexmon") + "\n\n")

	if !m.ready {
		b.WriteString(m.spinner.View() + " connecting to realtime session...\n")
	} else {
		b.WriteString(m.statusLine() + "\n")
		b.WriteString(m.meterLine() + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.history.View() + "\n")

	if m.pendingAssistant != "" {
		b.WriteString(m.theme.assistant.Render("assistant… ") + m.pendingAssistant + "\n")
	}
	if m.pendingUser != "" {
		b.WriteString(m.theme.user.Render("user… ") + m.pendingUser + "\n")
	}
	if m.err != nil {
		b.WriteString(m.theme.errText.Render("error: "+m.err.Error()) + "\n")
	}

	footer := "q: quit"
	if m.lastWire != "" {
		footer += "  |  last unhandled: " + m.lastWire
	}
	b.WriteString(m.theme.footer.Render(footer))

	return b.String()
}

func (m model) statusLine() string {
	capture := m.theme.open.Render("OPEN")
	if !m.snapshot.CaptureEnabled {
		capture = m.theme.muted.Render("MUTED")
	}

	turnID := m.snapshot.TurnID
	if turnID == "" {
		turnID = "-"
	}

	return fmt.Sprintf("%s %s   %s %s   %s %s   %s %.2f",
		m.theme.label.Render("phase:"), m.theme.phase.Render(string(m.snapshot.Turn)),
		m.theme.label.Render("turn:"), turnID,
		m.theme.label.Render("capture:"), capture,
		m.theme.label.Render("gain:"), m.snapshot.GainFloor,
	)
}

func (m model) meterLine() string {
	filled := int(m.activity.Level * meterWidth)
	if filled > meterWidth {
		filled = meterWidth
	}

	bar := m.theme.meterOn.Render(strings.Repeat("█", filled)) +
		m.theme.meterOff.Render(strings.Repeat("░", meterWidth-filled))

	speaking := " "
	if m.activity.IsSpeaking {
		speaking = m.theme.user.Render("speaking")
	}

	return fmt.Sprintf("%s %s %s", m.theme.label.Render("level:"), bar, speaking)
}
