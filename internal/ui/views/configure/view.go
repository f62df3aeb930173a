package configure

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	presetdto "thresholdtimer/internal/modules/preset/dto"
	settingsdto "thresholdtimer/internal/modules/settings/dto"
	"thresholdtimer/internal/ui/components"
	"thresholdtimer/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type SettingsPort interface {
	Threshold(ctx context.Context) (settingsdto.ThresholdOutput, error)
	SaveThreshold(ctx context.Context, bound float64, periodSeconds int) (settingsdto.ThresholdOutput, error)
}

type PresetPort interface {
	List(ctx context.Context) ([]presetdto.PresetOutput, error)
	Add(ctx context.Context, label string, seconds int) (presetdto.PresetOutput, error)
	Remove(ctx context.Context, id string) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type SettingsLoadedMsg struct {
	Settings settingsdto.ThresholdOutput
	Err      error
}

type SettingsSavedMsg struct {
	Settings settingsdto.ThresholdOutput
	Err      error
}

// PresetsChangedMsg follows any preset list load or edit. The app forwards it
// so the manual tab picks up the new list.
type PresetsChangedMsg struct {
	Presets []presetdto.PresetOutput
	Err     error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	settingsPort SettingsPort
	presetPort   PresetPort

	saved  settingsdto.ThresholdOutput
	bound  float64
	period int
	list   list.Model
	err    error
	notice string
	width  int
	height int
}

func New(settings SettingsPort, presets PresetPort) Model {
	return Model{
		settingsPort: settings,
		presetPort:   presets,
		list:         components.NewPresetList("Presets"),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSettingsCmd(), m.loadPresetsCmd())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width/2, m.height)

	case SettingsLoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.saved = msg.Settings
			m.bound, m.period = msg.Settings.Bound, msg.Settings.AlertPeriodSeconds
		}
		return m, nil

	case SettingsSavedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.saved = msg.Settings
			m.bound, m.period = msg.Settings.Bound, msg.Settings.AlertPeriodSeconds
			m.notice = "settings saved"
		}
		return m, nil

	case PresetsChangedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			cmds = append(cmds, m.list.SetItems(components.PresetItems(msg.Presets)))
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch msg.String() {
		case "+", "=":
			m.bound++
			m.notice = ""
			return m, nil
		case "-":
			m.bound--
			m.notice = ""
			return m, nil
		case "]":
			m.period++
			m.notice = ""
			return m, nil
		case "[":
			m.period--
			m.notice = ""
			return m, nil
		case "s":
			return m, m.SaveThreshold(m.bound, m.period)
		case "x", "delete":
			return m, m.RemoveSelected()
		}
	}

	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	return m, tea.Batch(cmds...)
}

// SaveThreshold validates and persists the threshold settings. A rejected
// value leaves the stored settings unchanged.
func (m Model) SaveThreshold(bound float64, periodSeconds int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.settingsPort.SaveThreshold(context.Background(), bound, periodSeconds)
		return SettingsSavedMsg{Settings: out, Err: err}
	}
}

// Bound and Period return the draft values, which may not be saved yet.
func (m Model) Bound() float64 { return m.bound }

func (m Model) Period() int { return m.period }

func (m Model) AddPreset(label string, seconds int) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.presetPort.Add(context.Background(), label, seconds); err != nil {
			return PresetsChangedMsg{Err: err}
		}
		return m.listPresets()
	}
}

// RemoveSelected deletes the highlighted preset.
func (m Model) RemoveSelected() tea.Cmd {
	p, ok := components.SelectedPreset(m.list)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		if err := m.presetPort.Remove(context.Background(), p.ID); err != nil {
			return PresetsChangedMsg{Err: err}
		}
		return m.listPresets()
	}
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) View() string {
	leftW := m.width / 2
	rightW := m.width - leftW

	listPane := lipgloss.NewStyle().Width(leftW).Height(m.height).Render(m.list.View())
	settingsPane := theme.Pane.
		Width(max(rightW-6, 10)).
		Height(max(m.height-4, 1)).
		Render(m.renderSettings())
	return lipgloss.JoinHorizontal(lipgloss.Top, settingsPane, listPane)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) renderSettings() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Threshold") + "\n\n")
	sb.WriteString(m.field("alert below", fmt.Sprintf("%.0f bpm", m.bound), m.bound != m.saved.Bound) + "\n")
	sb.WriteString(m.field("repeat every", fmt.Sprintf("%d s", m.period), m.period != m.saved.AlertPeriodSeconds) + "\n")

	switch {
	case m.err != nil:
		sb.WriteString("\n" + theme.Alarm.Render(m.err.Error()) + "\n")
	case m.notice != "":
		sb.WriteString("\n" + theme.Good.Render(m.notice) + "\n")
	}

	sb.WriteString("\n" + theme.Muted.Render("+/-: bound  [/]: period  s: save"))
	sb.WriteString("\n" + theme.Muted.Render("x: delete preset  :preset:add <seconds> [label]"))
	return sb.String()
}

func (m Model) field(label, value string, dirty bool) string {
	rendered := value
	if dirty {
		rendered = theme.Hot.Render(value + " *")
	}
	return theme.Muted.Render(fmt.Sprintf("%-13s", label)) + rendered
}

func (m Model) listPresets() tea.Msg {
	presets, err := m.presetPort.List(context.Background())
	return PresetsChangedMsg{Presets: presets, Err: err}
}

func (m Model) loadSettingsCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.settingsPort.Threshold(context.Background())
		return SettingsLoadedMsg{Settings: out, Err: err}
	}
}

func (m Model) loadPresetsCmd() tea.Cmd {
	return m.listPresets
}
