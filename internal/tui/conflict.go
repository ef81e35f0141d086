package tui

import (
	"fmt"
	"strings"

	"github.com/ggowrisankar/weight-tracker/internal/service"
	"github.com/ggowrisankar/weight-tracker/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var conflictChoices = []struct {
	choice service.Choice
	label  string
}{
	{service.ChoiceLocal, "Keep the data on this device"},
	{service.ChoiceServer, "Keep the data on the server"},
	{service.ChoiceMerge, "Merge both (this device wins per day)"},
	{service.ChoiceCleanSlate, "Start over with no data"},
}

// conflictModel asks which copy of the data survives a login. The cursor
// starts on merge, so a bare enter merges.
type conflictModel struct {
	local  models.Summary
	server models.Summary
	reply  chan<- service.Choice
	idx    int
}

func newConflictModel(msg conflictMsg) *conflictModel {
	return &conflictModel{
		local:  msg.local,
		server: msg.server,
		reply:  msg.reply,
		idx:    int(service.ChoiceMerge) - 1,
	}
}

// Update reports whether the prompt was answered.
func (m *conflictModel) Update(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(conflictChoices)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.enter):
		m.answer(conflictChoices[m.idx].choice)
		return true
	case key.Matches(msg, keys.esc):
		m.answer(service.ChoiceMerge)
		return true
	default:
		switch s := msg.String(); s {
		case "1", "2", "3", "4":
			m.answer(service.ParseChoice(s))
			return true
		}
	}
	return false
}

func (m *conflictModel) answer(choice service.Choice) {
	select {
	case m.reply <- choice:
	default:
	}
}

func (m *conflictModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Your data differs between this device and the server"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "This device: %s\n", m.local)
	fmt.Fprintf(&b, "Server:      %s\n\n", m.server)

	for i, c := range conflictChoices {
		line := fmt.Sprintf("%d. %s", c.choice, c.label)
		if i == m.idx {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("1-4 or ↑/↓ + enter: choose • esc: merge"))
	return overlayBoxStyle.Render(b.String())
}
