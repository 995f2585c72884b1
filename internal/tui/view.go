package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/tcheck/internal/model"
	"github.com/Tiliavir/tcheck/internal/tasks"
	"github.com/Tiliavir/tcheck/internal/timecalc"
	"github.com/Tiliavir/tcheck/internal/week"
)

// View renders the week, the detail panel of the selected interval and the
// unregistered list, or the task list while it is open.
func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.renderTitle())
	b.WriteString("\n")

	if a.mode == modeTasks {
		b.WriteString(a.renderTasks())
		b.WriteString("\n")
		b.WriteString(renderHelp(a.popupKeys.Up, a.popupKeys.Assign, a.popupKeys.ToggleURL, a.popupKeys.Close))
		return appStyle.Render(b.String())
	}

	w := a.tracker.Week()
	for _, wd := range week.Weekdays {
		b.WriteString(a.renderDay(w, wd))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if detail := a.renderDetail(w); detail != "" {
		b.WriteString(panelStyle.Render(detail))
		b.WriteString("\n")
	}
	b.WriteString(a.renderUnregistered(w))
	b.WriteString("\n")

	if a.mode == modeEditing {
		b.WriteString(inputLabelStyle.Render("Message: "))
		b.WriteString(a.input.View())
		b.WriteString("\n")
		b.WriteString(renderHelp(a.inputKeys.Submit, a.inputKeys.Cancel))
	} else {
		k := a.keys
		b.WriteString(renderHelp(k.Append, k.Split, k.Delete, k.Message, k.ShiftBack, k.ShiftNextBack,
			k.Left, k.Up, k.CycleWeek, k.Register, k.Reload, k.Tasks, k.Quit))
	}
	return appStyle.Render(b.String())
}

func (a *App) renderTitle() string {
	w := a.tracker.Week()
	starts, idx := a.tracker.WeekStarts()
	friday := w.Date(week.Friday)
	title := fmt.Sprintf("%s  %s – %s", timecalc.ISOWeekLabel(w.Start), w.Start.Format("02.01."), friday.Format("02.01.2006"))
	if len(starts) > 0 {
		title += fmt.Sprintf("  [%d/%d]", idx+1, len(starts))
	}
	return titleStyle.Render(title)
}

func (a *App) renderDay(w *week.Week, wd week.Weekday) string {
	selDay, selIdx := w.Selected()
	active := wd == selDay

	label := fmt.Sprintf("%s %s", wd, w.Date(wd).Format("02.01."))
	var b strings.Builder
	if active {
		b.WriteString(dayLabelActiveStyle.Render(label))
	} else {
		b.WriteString(dayLabelStyle.Render(label))
	}

	day := w.Day(wd)
	total := 0
	for i, c := range day {
		b.WriteString(a.renderCheckpoint(c, active && i == selIdx))
		if i < len(day)-1 {
			minutes := timecalc.DurationMinutes(c.Time, day[i+1].Time)
			total += minutes
			b.WriteString(durationStyle.Render(fmt.Sprintf(" ─%s─ ", timecalc.HumanDuration(minutes))))
		}
	}
	if total > 0 {
		b.WriteString(labelStyle.Render(fmt.Sprintf("   Σ %s", timecalc.HumanDuration(total))))
	}
	return b.String()
}

func (a *App) renderCheckpoint(c model.Checkpoint, selected bool) string {
	text := c.Time.Format("15:04")
	if c.Registered {
		text += "✓"
	}
	if selected {
		return selectedStyle.Render(text)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(a.opts.Catalogue.Color(c))).Render(text)
}

func (a *App) renderDetail(w *week.Week) string {
	sel, ok := w.SelectedCheckpoint()
	if !ok {
		return ""
	}
	lines := []string{
		labelStyle.Render(" Started: ") + fmt.Sprintf("%s (%s)", sel.Time.Format("15:04"), sel.RoundedTime().Format("15:04")),
	}
	if next, ok := w.NextCheckpoint(); ok {
		lines = append(lines, labelStyle.Render("Finished: ")+fmt.Sprintf("%s (%s)", next.Time.Format("15:04"), next.RoundedTime().Format("15:04")))
	}
	lines = append(lines, labelStyle.Render(" Comment: ")+messageStyle.Render(sel.MessageString()))

	project := sel.ProjectString()
	if project != "" {
		if label := a.opts.Catalogue.Label(project); label != project {
			project += " " + labelStyle.Render("("+label+")")
		}
	}
	lines = append(lines, labelStyle.Render(" Project: ")+labelStyle.Render(a.opts.TaskURLPrefix)+project)
	return strings.Join(lines, "\n")
}

func (a *App) renderUnregistered(w *week.Week) string {
	list := w.Unregistered()
	if len(list) == 0 {
		return labelStyle.Render("All intervals registered.")
	}
	total := 0
	var lines []string
	for _, u := range list {
		total += u.Minutes
		wd, err := week.FromTime(u.Checkpoint.Time.Weekday())
		day := u.Checkpoint.Time.Format("Mon")
		if err == nil {
			day = wd.String()
		}
		lines = append(lines, fmt.Sprintf("  %s %s %s %s %s",
			day,
			u.Checkpoint.Time.Format("15:04"),
			durationStyle.Render(fmt.Sprintf("%6s", timecalc.HumanDuration(u.Minutes))),
			a.opts.Catalogue.Label(u.Checkpoint.ProjectString()),
			messageStyle.Render(u.Checkpoint.MessageString())))
	}
	header := labelStyle.Render(fmt.Sprintf("Unregistered (%d, %s):", len(list), timecalc.HumanDuration(total)))
	return header + "\n" + strings.Join(lines, "\n")
}

func (a *App) renderTasks() string {
	list := a.tracker.Tasks()
	if len(list) == 0 {
		return popupStyle.Render("No tasks.")
	}
	var lines []string
	for i, t := range list {
		line := fmt.Sprintf("%s - %s", strconv.Itoa(t.ID), t.Name)
		switch {
		case t.Spent != nil && t.Total != nil:
			line += " [" + messageStyle.Render(*t.Spent) + " / " + linkStyle.Render(*t.Total) + "]"
		case t.Spent != nil:
			line += " [" + messageStyle.Render(*t.Spent) + "]"
		}
		if i == a.taskCursor {
			line = selectedStyle.Render("▶ ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
		if a.showTaskURL {
			if u := tasks.URL(a.opts.TaskURLPrefix, t.ID); u != "" {
				lines = append(lines, "    "+linkStyle.Render(u))
			}
		}
	}
	return popupStyle.Render("Select Task\n" + strings.Join(lines, "\n"))
}

func renderHelp(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, helpKeyStyle.Render(h.Key)+" "+helpTextStyle.Render(h.Desc))
	}
	return strings.Join(parts, helpTextStyle.Render(" • "))
}
