package threshold

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	thresholddto "thresholdtimer/internal/modules/threshold/dto"
	"thresholdtimer/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type ThresholdPort interface {
	Start(ctx context.Context, bound float64, periodSeconds int) (thresholddto.StatusOutput, error)
	Stop(ctx context.Context) (thresholddto.StatusOutput, error)
	Status(ctx context.Context) thresholddto.StatusOutput
}

// ─── messages ────────────────────────────────────────────────────────────────

// StatusMsg carries a monitor status, either pushed by the status stream or
// returned from a start/stop request.
type StatusMsg struct {
	Status thresholddto.StatusOutput
	Err    error
	// Pushed marks a value read from the status stream.
	Pushed bool
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    ThresholdPort
	status  thresholddto.StatusOutput
	spinner spinner.Model
	err     error
	width   int
	height  int
}

func New(port ThresholdPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Pulse
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, spinner: sp}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.status = msg.Status
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Toggle starts monitoring with the stored settings, or stops a live session.
func (m Model) Toggle() tea.Cmd {
	if m.status.Running {
		return m.stopCmd()
	}
	return m.Start(0, 0)
}

// Start begins monitoring. Zero arguments fall back to the stored settings.
func (m Model) Start(bound float64, periodSeconds int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Start(context.Background(), bound, periodSeconds)
		return StatusMsg{Status: out, Err: err}
	}
}

func (m Model) Stop() tea.Cmd { return m.stopCmd() }

func (m Model) Running() bool { return m.status.Running }

func (m Model) Alerting() bool { return m.status.Alerting }

func (m Model) View() string {
	s := m.status

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Heart rate") + "\n")

	switch {
	case s.HasReading:
		reading := fmt.Sprintf("%.0f bpm", s.LastReading)
		if s.Running && s.Bound > s.LastReading {
			sb.WriteString(theme.Reading.Inherit(theme.Alarm).Render(reading) + "\n")
		} else {
			sb.WriteString(theme.Reading.Render(reading) + "\n")
		}
	case s.Running:
		sb.WriteString(theme.Reading.Render(m.spinner.View()+" waiting for readings") + "\n")
	default:
		sb.WriteString(theme.Reading.Render("-- bpm") + "\n")
	}

	switch {
	case s.Alerting:
		sb.WriteString(theme.Alarm.Render("● ALERTING") + "\n")
	case s.Running:
		sb.WriteString(theme.Good.Render("● monitoring") + "\n")
	default:
		sb.WriteString(theme.Muted.Render("○ idle") + "\n")
	}

	if s.Running {
		sb.WriteString("\n")
		sb.WriteString(theme.Muted.Render("alert below ") + fmt.Sprintf("%.0f bpm", s.Bound) + "\n")
		sb.WriteString(theme.Muted.Render("every       ") + s.AlertPeriod.String() + "\n")
		sb.WriteString(theme.Muted.Render("alerts      ") + fmt.Sprintf("%d", s.Alerts) + "\n")
		sb.WriteString(theme.Muted.Render("since       ") + s.StartedAt.Format("15:04:05") + "\n")
	}
	if m.err != nil {
		sb.WriteString("\n" + theme.Alarm.Render(m.err.Error()) + "\n")
	}

	action := "start"
	if s.Running {
		action = "stop"
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: "+action))

	pane := theme.Pane
	if s.Alerting {
		pane = theme.PaneAlert
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		pane.Width(min(m.width-4, 48)).Render(sb.String()))
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Status: m.port.Status(context.Background())}
	}
}

func (m Model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Stop(context.Background())
		return StatusMsg{Status: out, Err: err}
	}
}
