package components

import (
	"github.com/charmbracelet/bubbles/list"

	presetdto "thresholdtimer/internal/modules/preset/dto"
	"thresholdtimer/internal/ui/theme"
)

// PresetItem adapts a preset to bubbles/list.
type PresetItem struct{ Preset presetdto.PresetOutput }

func (i PresetItem) Title() string       { return i.Preset.Label }
func (i PresetItem) Description() string { return FormatClock(i.Preset.Duration) }
func (i PresetItem) FilterValue() string { return i.Preset.Label }

// NewPresetList builds the preset picker shared by the manual and configure
// tabs.
func NewPresetList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = title
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return l
}

// PresetItems converts presets to list items in order.
func PresetItems(presets []presetdto.PresetOutput) []list.Item {
	items := make([]list.Item, len(presets))
	for i, p := range presets {
		items[i] = PresetItem{Preset: p}
	}
	return items
}

// SelectedPreset returns the highlighted preset, if any.
func SelectedPreset(l list.Model) (presetdto.PresetOutput, bool) {
	if item, ok := l.SelectedItem().(PresetItem); ok {
		return item.Preset, true
	}
	return presetdto.PresetOutput{}, false
}
