package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestHintsMatchCommandWord(t *testing.T) {
	t.Parallel()
	if got := Hints("countdown:st", 5); len(got) != 2 {
		t.Fatalf("expected start and stop hints, got %v", got)
	}
	if got := Hints("preset:add 90 Tea", 5); len(got) != 1 || got[0] != "preset:add <seconds> [label]" {
		t.Fatalf("arguments must not affect matching, got %v", got)
	}
	if got := Hints("", 3); len(got) != 3 {
		t.Fatalf("expected limit to apply, got %v", got)
	}
}

func TestPaletteTabCompletesAndEnterSubmits(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	for _, r := range "settings:b" {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	for _, r := range "85" {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.Visible() {
		t.Fatalf("palette must close on enter")
	}
	msg, ok := cmd().(PaletteSubmitMsg)
	if !ok || msg.Input != "settings:bound 85" {
		t.Fatalf("unexpected submit %#v", msg)
	}
}
