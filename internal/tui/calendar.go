package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/app"
	"github.com/ggowrisankar/weight-tracker/internal/service"
	"github.com/ggowrisankar/weight-tracker/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const cellWidth = 8

var weekdays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// calendarModel shows one month and edits the day under the cursor. Only
// today is editable unless freeEdit is set.
type calendarModel struct {
	ctx      context.Context
	editor   service.WeightEditor
	now      func() time.Time
	freeEdit bool

	cursor  int
	editing bool
	input   textinput.Model
	// committing counts commits still running. Month switches wait for them.
	committing int

	loading    bool
	saveStatus service.SaveStatus
	status     string
	errMsg     string
}

func newCalendarModel(ctx context.Context, editor service.WeightEditor, freeEdit bool, now func() time.Time) calendarModel {
	input := textinput.New()
	input.Placeholder = "kg"
	input.CharLimit = 6
	input.Width = cellWidth - 2
	input.Prompt = ""
	input.Cursor.SetMode(cursor.CursorStatic)

	m := calendarModel{
		ctx:      ctx,
		editor:   editor,
		now:      now,
		freeEdit: freeEdit,
		input:    input,
		cursor:   1,
	}
	m.placeCursor(editor.Month())
	return m
}

// load switches to ref. The editor flushes pending saves of the month being
// left before reading the new one.
func (m calendarModel) load(ref models.MonthRef) (calendarModel, tea.Cmd) {
	m.loading = true
	m.editing = false
	m.input.Blur()
	m.errMsg = ""
	return m, m.cmdLoadMonth(ref)
}

func (m calendarModel) isEditing() bool {
	return m.editing
}

func (m calendarModel) Update(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case monthLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
		}
		m.placeCursor(msg.ref)
		return m, nil
	case committedMsg:
		return m.onCommitted(msg)
	case saveStatusMsg:
		m.saveStatus = msg.status
		return m, nil
	case copiedMsg:
		if msg.err != nil {
			m.errMsg = "Copy to clipboard failed"
			return m, nil
		}
		m.status = "Month summary copied"
		return m, cmdClearStatus()
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m calendarModel) updateBrowsing(msg tea.KeyMsg) (calendarModel, tea.Cmd) {
	ref := m.editor.Month()
	days := service.DaysIn(ref)

	switch {
	case key.Matches(msg, keys.left):
		if m.cursor > 1 {
			m.cursor--
		}
	case key.Matches(msg, keys.right):
		if m.cursor < days {
			m.cursor++
		}
	case key.Matches(msg, keys.up):
		if m.cursor-7 >= 1 {
			m.cursor -= 7
		}
	case key.Matches(msg, keys.down):
		if m.cursor+7 <= days {
			m.cursor += 7
		}
	case key.Matches(msg, keys.prevMonth), key.Matches(msg, keys.nextMonth), key.Matches(msg, keys.today):
		if m.committing > 0 {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.prevMonth):
			return m.load(ref.Prev())
		case key.Matches(msg, keys.nextMonth):
			return m.load(ref.Next())
		}
		return m.load(service.CurrentMonth(m.now()))
	case key.Matches(msg, keys.enter):
		if !service.Editable(ref, m.cursor, m.now(), m.freeEdit) {
			m.status = "Only today's weight can be edited"
			return m, cmdClearStatus()
		}
		m.editing = true
		m.errMsg = ""
		m.input.SetValue(m.dayText(m.cursor))
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, keys.copy):
		return m, cmdCopyToClipboard(monthSummary(m.editor.Calendar(m.now())))
	}
	return m, nil
}

// updateEditing feeds keys to the input. enter commits and keeps the field
// open on a rejected value; esc commits and closes it either way.
func (m calendarModel) updateEditing(msg tea.KeyMsg) (calendarModel, tea.Cmd) {
	day := strconv.Itoa(m.cursor)

	switch {
	case key.Matches(msg, keys.enter), key.Matches(msg, keys.tab):
		m.committing++
		return m, m.cmdCommit(m.editor.Month(), m.cursor, m.input.Value())
	case key.Matches(msg, keys.esc):
		m.editing = false
		m.input.Blur()
		m.committing++
		return m, m.cmdCommit(m.editor.Month(), m.cursor, m.input.Value())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.editor.SetDraft(day, m.input.Value())
	return m, cmd
}

func (m calendarModel) onCommitted(msg committedMsg) (calendarModel, tea.Cmd) {
	if m.committing > 0 {
		m.committing--
	}
	if msg.err != nil {
		if errors.Is(msg.err, service.ErrOwnerChanged) {
			return m.load(m.editor.Month())
		}
		m.errMsg = humanizeError(msg.err)
		return m, nil
	}
	if msg.result.Accepted && m.editing && msg.day == m.cursor {
		m.editing = false
		m.input.Blur()
	}
	return m, nil
}

// placeCursor puts the cursor on today when ref is the current month and
// keeps it inside the month otherwise.
func (m *calendarModel) placeCursor(ref models.MonthRef) {
	now := m.now()
	if service.CurrentMonth(now) == ref {
		m.cursor = now.Day()
		return
	}
	if days := service.DaysIn(ref); m.cursor > days {
		m.cursor = days
	}
	if m.cursor < 1 {
		m.cursor = 1
	}
}

// dayText is what a cell shows: the draft when there is one, the committed
// weight otherwise.
func (m calendarModel) dayText(day int) string {
	d := strconv.Itoa(day)
	if draft, ok := m.editor.Drafts()[d]; ok {
		return draft
	}
	if w, ok := m.editor.Weights()[d]; ok {
		return strconv.FormatFloat(w, 'f', -1, 64)
	}
	return ""
}

func (m calendarModel) cmdLoadMonth(ref models.MonthRef) tea.Cmd {
	ctx := m.ctx
	editor := m.editor
	return func() tea.Msg {
		return monthLoadedMsg{ref: ref, err: editor.Load(ctx, ref)}
	}
}

func (m calendarModel) cmdCommit(ref models.MonthRef, day int, raw string) tea.Cmd {
	ctx := m.ctx
	editor := m.editor
	return func() tea.Msg {
		result, err := editor.Commit(ctx, ref, strconv.Itoa(day), raw)
		return committedMsg{day: day, result: result, err: err}
	}
}

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return copiedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m calendarModel) View(user string) string {
	now := m.now()
	cal := m.editor.Calendar(now)
	ref := cal.Ref
	errs := m.editor.Errors()

	var b strings.Builder

	title := time.Date(ref.Year, time.Month(ref.Month), 1, 0, 0, 0, 0, time.Local).Format("January 2006")
	b.WriteString(titleStyle.Render(title))
	b.WriteString("   ")
	b.WriteString(fitText(user, 32))
	if label := saveStatusLabel(m.saveStatus); label != "" {
		b.WriteString("  • ")
		b.WriteString(label)
	}
	b.WriteString("\n\n")

	for _, wd := range weekdays {
		b.WriteString(pad(wd))
	}
	b.WriteString(averageStyle.Render("Average"))
	b.WriteString("\n")

	if m.loading {
		b.WriteString("\nLoading...\n")
	} else {
		for _, week := range cal.Weeks {
			var days, weights strings.Builder
			for _, d := range week.Days {
				days.WriteString(m.dayCell(ref, d, now))
				weights.WriteString(m.weightCell(d, errs))
			}
			avg := "-"
			if week.HasAverage {
				avg = fmt.Sprintf("%.1f", week.Average)
			}
			b.WriteString(days.String())
			b.WriteString("\n")
			b.WriteString(weights.String())
			b.WriteString(averageStyle.Render(avg))
			b.WriteString("\n")
		}
	}

	if cal.MonthEnded && cal.HasMonthlyAverage {
		fmt.Fprintf(&b, "\n%s\n", averageStyle.Render(fmt.Sprintf("Monthly Average: %.1f", cal.MonthlyAverage)))
	}

	for _, day := range sortedDays(errs) {
		fmt.Fprintf(&b, "\n%s", errorStyle.Render(fmt.Sprintf("Day %s: %s", day, errs[day])))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}

	hotKeys := "←↑↓→: move • enter: edit • [ ]: month • t: today • c: copy • L: log in/out • v: version • q: quit"
	if m.editing {
		hotKeys = "enter: save • esc: leave field"
	}
	return renderPage("WEIGHT TRACKER", b.String(), hotKeys)
}

func (m calendarModel) dayCell(ref models.MonthRef, d service.CalendarDay, now time.Time) string {
	if d.Day == 0 {
		return pad("")
	}
	label := pad(strconv.Itoa(d.Day))
	switch {
	case d.Day == m.cursor:
		return cursorStyle.Render(label)
	case d.Today:
		return todayStyle.Render(label)
	case !service.Editable(ref, d.Day, now, m.freeEdit):
		return lockedStyle.Render(label)
	default:
		return label
	}
}

func (m calendarModel) weightCell(d service.CalendarDay, errs map[string]string) string {
	if d.Day == 0 {
		return pad("")
	}
	if m.editing && d.Day == m.cursor {
		return pad("[" + m.input.View() + "]")
	}
	text := m.dayText(d.Day)
	if text == "" {
		text = "·"
	}
	if _, bad := errs[strconv.Itoa(d.Day)]; bad {
		return errorStyle.Render(pad(text + "!"))
	}
	return pad(text)
}

func saveStatusLabel(s service.SaveStatus) string {
	switch s {
	case service.SaveSaving:
		return savingStyle.Render(app.MsgSaving)
	case service.SaveSaved:
		return savedStyle.Render(app.MsgSaved)
	case service.SaveError:
		return saveFailStyle.Render(app.MsgSaveFailed)
	default:
		return ""
	}
}

// monthSummary is the plain-text report copied with "c".
func monthSummary(cal service.Calendar) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Weight %s\n", cal.Ref.Key())

	for i, week := range cal.Weeks {
		first, last := 0, 0
		for _, d := range week.Days {
			if d.Day == 0 {
				continue
			}
			if first == 0 {
				first = d.Day
			}
			last = d.Day
		}
		avg := "-"
		if week.HasAverage {
			avg = fmt.Sprintf("%.1f kg", week.Average)
		}
		fmt.Fprintf(&b, "Week %d (%d-%d): %s\n", i+1, first, last, avg)
	}

	switch {
	case !cal.HasMonthlyAverage:
		b.WriteString("Monthly Average: -")
	case cal.MonthEnded:
		fmt.Fprintf(&b, "Monthly Average: %.1f kg", cal.MonthlyAverage)
	default:
		fmt.Fprintf(&b, "Monthly Average so far: %.1f kg", cal.MonthlyAverage)
	}
	return b.String()
}

func sortedDays(m map[string]string) []string {
	month := make(models.MonthMap, len(m))
	for day := range m {
		month[day] = 0
	}
	return month.Days()
}

func pad(s string) string {
	if n := lipgloss.Width(s); n < cellWidth {
		return s + strings.Repeat(" ", cellWidth-n)
	}
	return s
}
