package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	countdowndto "thresholdtimer/internal/modules/countdown/dto"
	presetdto "thresholdtimer/internal/modules/preset/dto"
	settingsdto "thresholdtimer/internal/modules/settings/dto"
	thresholddto "thresholdtimer/internal/modules/threshold/dto"
	"thresholdtimer/internal/ui/components"
	"thresholdtimer/internal/ui/theme"
	configureview "thresholdtimer/internal/ui/views/configure"
	manualview "thresholdtimer/internal/ui/views/manual"
	thresholdview "thresholdtimer/internal/ui/views/threshold"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the surface this orchestration layer needs. Sub-view ports are
// defined in their own packages and are narrower.

type ThresholdPort interface {
	Start(ctx context.Context, bound float64, periodSeconds int) (thresholddto.StatusOutput, error)
	Stop(ctx context.Context) (thresholddto.StatusOutput, error)
	Status(ctx context.Context) thresholddto.StatusOutput
	Subscribe() (<-chan thresholddto.StatusOutput, func())
}

type CountdownPort interface {
	Start(ctx context.Context, seconds int, label string) (countdowndto.StatusOutput, error)
	StartPreset(ctx context.Context, presetID string) (countdowndto.StatusOutput, error)
	SelectPreset(ctx context.Context, presetID string) (countdowndto.StatusOutput, error)
	Stop(ctx context.Context) (countdowndto.StatusOutput, error)
	Refresh(ctx context.Context) countdowndto.StatusOutput
	Status(ctx context.Context) countdowndto.StatusOutput
	Subscribe() (<-chan countdowndto.StatusOutput, func())
}

type PresetPort interface {
	List(ctx context.Context) ([]presetdto.PresetOutput, error)
	Add(ctx context.Context, label string, seconds int) (presetdto.PresetOutput, error)
	Remove(ctx context.Context, id string) error
}

type SettingsPort interface {
	Threshold(ctx context.Context) (settingsdto.ThresholdOutput, error)
	SaveThreshold(ctx context.Context, bound float64, periodSeconds int) (settingsdto.ThresholdOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabThreshold tabID = iota
	tabManual
	tabConfigure
	tabCount
)

var tabLabels = [tabCount]string{
	"Threshold", "Manual", "Configure",
}

// refreshEvery paces the foreground countdown refresh while the TUI is open.
const refreshEvery = 500 * time.Millisecond

// ─── async messages ───────────────────────────────────────────────────────────

type refreshTickMsg time.Time

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Toggle  key.Binding
	Select  key.Binding
	Bound   key.Binding
	Period  key.Binding
	Save    key.Binding
	Delete  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Toggle:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start/stop")),
		Select:  key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "preset")),
		Bound:   key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "bound")),
		Period:  key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "period")),
		Save:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save settings")),
		Delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete preset")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Toggle, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Toggle, k.Select},
		{k.Bound, k.Period, k.Save, k.Delete},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the status
// streams, the global help overlay, and the command palette. Business logic
// lives behind the ports; rendering is delegated to sub-views.
type Model struct {
	countdown CountdownPort

	thresholdUpdates <-chan thresholddto.StatusOutput
	countdownUpdates <-chan countdowndto.StatusOutput

	// sub-views (one per tab)
	thresholdView thresholdview.Model
	manualView    manualview.Model
	configureView configureview.Model

	// global UI state
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

// NewModel subscribes to both status streams. The streams close when the
// engines are disposed.
func NewModel(threshold ThresholdPort, countdown CountdownPort, presets PresetPort, settings SettingsPort) Model {
	thresholdUpdates, _ := threshold.Subscribe()
	countdownUpdates, _ := countdown.Subscribe()
	return Model{
		countdown:        countdown,
		thresholdUpdates: thresholdUpdates,
		countdownUpdates: countdownUpdates,
		thresholdView:    thresholdview.New(threshold),
		manualView:       manualview.New(countdown, presets),
		configureView:    configureview.New(settings, presets),
		activeTab:        tabThreshold,
		keys:             defaultKeys(),
		help:             help.New(),
		palette:          components.NewPalette(),
		status:           "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.thresholdView.Init(),
		m.manualView.Init(),
		m.configureView.Init(),
		waitThreshold(m.thresholdUpdates),
		waitCountdown(m.countdownUpdates),
		refreshTick(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Background results are routed to their view whichever tab is active.
	switch msg := msg.(type) {
	case thresholdview.StatusMsg:
		if msg.Err != nil {
			m.status = "threshold: " + msg.Err.Error()
		}
		var cmd tea.Cmd
		m.thresholdView, cmd = m.thresholdView.Update(msg)
		if msg.Pushed {
			cmd = tea.Batch(cmd, waitThreshold(m.thresholdUpdates))
		}
		return m, cmd

	case manualview.StatusMsg:
		if msg.Err != nil {
			m.status = "countdown: " + msg.Err.Error()
		} else if msg.Status.Completed {
			m.status = "countdown complete"
		}
		var cmd tea.Cmd
		m.manualView, cmd = m.manualView.Update(msg)
		if msg.Pushed {
			cmd = tea.Batch(cmd, waitCountdown(m.countdownUpdates))
		}
		return m, cmd

	case manualview.PresetsLoadedMsg:
		var cmd tea.Cmd
		m.manualView, cmd = m.manualView.Update(msg)
		return m, cmd

	case configureview.SettingsLoadedMsg, configureview.SettingsSavedMsg:
		if saved, ok := msg.(configureview.SettingsSavedMsg); ok && saved.Err != nil {
			m.status = "settings: " + saved.Err.Error()
		}
		var cmd tea.Cmd
		m.configureView, cmd = m.configureView.Update(msg)
		return m, cmd

	case configureview.PresetsChangedMsg:
		if msg.Err != nil {
			m.status = "presets: " + msg.Err.Error()
		}
		var cmd tea.Cmd
		m.configureView, cmd = m.configureView.Update(msg)
		cmds = append(cmds, cmd)
		if msg.Err == nil {
			m.manualView, cmd = m.manualView.Update(manualview.PresetsLoadedMsg{Presets: msg.Presets})
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case refreshTickMsg:
		return m, tea.Batch(m.refreshCmd(), refreshTick())

	// The spinner keeps ticking while its tab is hidden.
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.thresholdView, cmd = m.thresholdView.Update(msg)
		return m, cmd
	}

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "enter":
			switch m.activeTab {
			case tabThreshold:
				return m, m.thresholdView.Toggle()
			case tabManual:
				return m, m.manualView.Toggle()
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabThreshold:
		m.thresholdView, tabCmd = m.thresholdView.Update(msg)
	case tabManual:
		m.manualView, tabCmd = m.manualView.Update(msg)
	case tabConfigure:
		m.configureView, tabCmd = m.configureView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabThreshold:
		return m.thresholdView.View()
	case tabManual:
		return m.manualView.View()
	case tabConfigure:
		return m.configureView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "thresholdtimer  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.manualView.Running() {
		left = theme.Hot.Render("◷ "+m.manualView.Remaining()) + "  " + left
	}
	switch {
	case m.thresholdView.Alerting():
		left = theme.Alarm.Render("● alerting") + "  " + left
	case m.thresholdView.Running():
		left = theme.Good.Render("● monitoring") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "threshold:start":
		var bound float64
		var period int
		if len(parts) >= 2 {
			v, err := strconv.ParseFloat(parts[1], 64)
			if err != nil {
				m.status = "invalid bound"
				return m, nil
			}
			bound = v
		}
		if len(parts) >= 3 {
			v, err := strconv.Atoi(parts[2])
			if err != nil {
				m.status = "invalid period"
				return m, nil
			}
			period = v
		}
		m.activeTab = tabThreshold
		return m, m.thresholdView.Start(bound, period)

	case "threshold:stop":
		return m, m.thresholdView.Stop()

	case "countdown:start":
		if len(parts) < 2 {
			m.status = "usage: countdown:start <seconds> [label]"
			return m, nil
		}
		seconds, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid seconds"
			return m, nil
		}
		m.activeTab = tabManual
		return m, m.manualView.Start(seconds, restAfter(input, 2))

	case "countdown:stop":
		return m, m.manualView.Stop()

	case "preset:add":
		if len(parts) < 2 {
			m.status = "usage: preset:add <seconds> [label]"
			return m, nil
		}
		seconds, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid seconds"
			return m, nil
		}
		m.status = fmt.Sprintf("adding %s preset", components.FormatClock(time.Duration(seconds)*time.Second))
		return m, m.configureView.AddPreset(restAfter(input, 2), seconds)

	case "preset:remove":
		m.activeTab = tabConfigure
		return m, m.configureView.RemoveSelected()

	case "settings:bound":
		if len(parts) < 2 {
			m.status = "usage: settings:bound <bpm>"
			return m, nil
		}
		bound, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			m.status = "invalid bound"
			return m, nil
		}
		return m, m.configureView.SaveThreshold(bound, m.configureView.Period())

	case "settings:period":
		if len(parts) < 2 {
			m.status = "usage: settings:period <seconds>"
			return m, nil
		}
		period, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid period"
			return m, nil
		}
		return m, m.configureView.SaveThreshold(m.configureView.Bound(), period)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabManual:
		return m.manualView.Filtering()
	case tabConfigure:
		return m.configureView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.thresholdView, _ = m.thresholdView.Update(sz)
	m.manualView, _ = m.manualView.Update(sz)
	m.configureView, _ = m.configureView.Update(sz)
}

// restAfter returns the input with its first n fields removed, preserving the
// spacing inside the remainder.
func restAfter(input string, n int) string {
	rest := strings.TrimSpace(input)
	for i := 0; i < n && rest != ""; i++ {
		if j := strings.IndexAny(rest, " \t"); j >= 0 {
			rest = strings.TrimSpace(rest[j:])
		} else {
			rest = ""
		}
	}
	return rest
}

// ─── async commands ───────────────────────────────────────────────────────────

func refreshTick() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg { return refreshTickMsg(t) })
}

// refreshCmd drives countdown completion while the TUI is in the foreground.
func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return manualview.StatusMsg{Status: m.countdown.Refresh(context.Background())}
	}
}

func waitThreshold(ch <-chan thresholddto.StatusOutput) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-ch
		if !ok {
			return nil
		}
		return thresholdview.StatusMsg{Status: status, Pushed: true}
	}
}

func waitCountdown(ch <-chan countdowndto.StatusOutput) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-ch
		if !ok {
			return nil
		}
		return manualview.StatusMsg{Status: status, Pushed: true}
	}
}
