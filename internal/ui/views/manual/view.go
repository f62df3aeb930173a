package manual

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	countdowndto "thresholdtimer/internal/modules/countdown/dto"
	presetdto "thresholdtimer/internal/modules/preset/dto"
	"thresholdtimer/internal/ui/components"
	"thresholdtimer/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type CountdownPort interface {
	Start(ctx context.Context, seconds int, label string) (countdowndto.StatusOutput, error)
	StartPreset(ctx context.Context, presetID string) (countdowndto.StatusOutput, error)
	SelectPreset(ctx context.Context, presetID string) (countdowndto.StatusOutput, error)
	Stop(ctx context.Context) (countdowndto.StatusOutput, error)
	Status(ctx context.Context) countdowndto.StatusOutput
}

type PresetPort interface {
	List(ctx context.Context) ([]presetdto.PresetOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type PresetsLoadedMsg struct {
	Presets []presetdto.PresetOutput
	Err     error
}

// StatusMsg carries a countdown status from the status stream, a refresh, or
// a start/stop request.
type StatusMsg struct {
	Status countdowndto.StatusOutput
	Err    error
	// Pushed marks a value read from the status stream.
	Pushed bool
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	countdown CountdownPort
	presets   PresetPort
	list      list.Model
	status    countdowndto.StatusOutput
	// done holds the completion banner until the next start or selection.
	done    bool
	err     error
	loading bool
	width   int
	height  int
}

func New(countdown CountdownPort, presets PresetPort) Model {
	return Model{
		countdown: countdown,
		presets:   presets,
		list:      components.NewPresetList("Presets"),
		loading:   true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.statusCmd())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width*4/10, m.height)

	case PresetsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		cmds = append(cmds, m.list.SetItems(components.PresetItems(msg.Presets)))
		m.selectMatching()

	case StatusMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.status = msg.Status
			switch {
			case msg.Status.Completed:
				m.done = true
			case msg.Status.Running:
				m.done = false
			}
		}
		return m, nil
	}

	if !m.loading {
		prev := m.list.Index()
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prev {
			if p, ok := components.SelectedPreset(m.list); ok {
				m.done = false
				cmds = append(cmds, m.selectCmd(p.ID))
			}
		}
	}
	return m, tea.Batch(cmds...)
}

// Toggle starts the highlighted preset, or stops a running countdown.
func (m Model) Toggle() tea.Cmd {
	if m.status.Running {
		return m.Stop()
	}
	p, ok := components.SelectedPreset(m.list)
	if !ok {
		return m.Start(int(m.status.Configured.Seconds()), "")
	}
	return func() tea.Msg {
		out, err := m.countdown.StartPreset(context.Background(), p.ID)
		return StatusMsg{Status: out, Err: err}
	}
}

// Start runs an ad-hoc countdown that is not backed by a preset.
func (m Model) Start(seconds int, label string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.countdown.Start(context.Background(), seconds, label)
		return StatusMsg{Status: out, Err: err}
	}
}

func (m Model) Stop() tea.Cmd {
	return func() tea.Msg {
		out, err := m.countdown.Stop(context.Background())
		return StatusMsg{Status: out, Err: err}
	}
}

// Reload refetches the preset list.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		presets, err := m.presets.List(context.Background())
		return PresetsLoadedMsg{Presets: presets, Err: err}
	}
}

func (m Model) Running() bool { return m.status.Running }

func (m Model) Remaining() string { return components.FormatClock(m.status.Remaining) }

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) View() string {
	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	if m.loading {
		listPane = lipgloss.NewStyle().Width(listW).Height(m.height).Render(theme.Muted.Render("Loading presets…"))
	}

	detailPane := theme.Pane.
		Width(max(detailW-6, 10)).
		Height(max(m.height-4, 1)).
		Render(m.renderTimer())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) renderTimer() string {
	s := m.status
	var sb strings.Builder

	title := "Timer"
	if s.Label != "" {
		title = s.Label
	}
	sb.WriteString(theme.Title.Render(title) + "\n")

	switch {
	case m.done && !s.Running:
		sb.WriteString(theme.Reading.Inherit(theme.Good).Render("Done!") + "\n")
	case s.Running:
		sb.WriteString(theme.Reading.Inherit(theme.Hot).Render(components.FormatClock(s.Remaining)) + "\n")
	default:
		sb.WriteString(theme.Reading.Render(components.FormatClock(s.Remaining)) + "\n")
	}

	if s.Running {
		sb.WriteString(theme.Muted.Render("ends at ") + s.EndTime.Format("15:04:05") + "\n")
	}
	if m.err != nil {
		sb.WriteString("\n" + theme.Alarm.Render(m.err.Error()) + "\n")
	}

	action := "start"
	if s.Running {
		action = "stop"
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: "+action+"  ↑/↓: preset  /: filter"))
	return sb.String()
}

// selectMatching moves the cursor to the preset the countdown has selected.
func (m *Model) selectMatching() {
	if m.status.PresetID == "" {
		return
	}
	for i, item := range m.list.Items() {
		if p, ok := item.(components.PresetItem); ok && p.Preset.ID == m.status.PresetID {
			m.list.Select(i)
			return
		}
	}
}

func (m Model) selectCmd(id string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.countdown.SelectPreset(context.Background(), id)
		return StatusMsg{Status: out, Err: err}
	}
}

func (m Model) statusCmd() tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Status: m.countdown.Status(context.Background())}
	}
}
