package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harrisonrobin/taskweb/pkg/taskwarrior"
	"github.com/harrisonrobin/taskweb/pkg/view"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

type column struct {
	title string
	value func(taskwarrior.Task) string
}

var listColumns = []column{
	{"ID", func(t taskwarrior.Task) string {
		if t.ID == 0 {
			return "-"
		}
		return strconv.Itoa(t.ID)
	}},
	{"Pri", func(t taskwarrior.Task) string { return view.FormatPriority(t.Priority) }},
	{"Project", func(t taskwarrior.Task) string { return t.Project }},
	{"Status", func(t taskwarrior.Task) string { return t.Status }},
	{"Due", func(t taskwarrior.Task) string {
		if !t.Due.IsSet() {
			return ""
		}
		return t.Due.Local().Format("2006-01-02")
	}},
	{"Urg", func(t taskwarrior.Task) string { return fmt.Sprintf("%.1f", t.Urgency) }},
	{"Description", func(t taskwarrior.Task) string { return t.Description }},
}

// renderTable lays tasks out in aligned columns, colouring the priority.
func renderTable(tasks []taskwarrior.Task) string {
	widths := make([]int, len(listColumns))
	for i, c := range listColumns {
		widths[i] = lipgloss.Width(c.title)
		for _, t := range tasks {
			if w := lipgloss.Width(c.value(t)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	row := make([]string, len(listColumns))
	for i, c := range listColumns {
		row[i] = cellStyle.Width(widths[i] + 2).Render(headerStyle.Render(c.title))
	}
	b.WriteString(strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, row...), " "))
	b.WriteString("\n")

	for _, t := range tasks {
		for i, c := range listColumns {
			style := cellStyle.Width(widths[i] + 2)
			if c.title == "Pri" {
				p := view.FormatPriority(t.Priority)
				style = style.Foreground(lipgloss.Color(view.PriorityColor(p)))
			}
			row[i] = style.Render(c.value(t))
		}
		b.WriteString(strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, row...), " "))
		b.WriteString("\n")
	}
	return b.String()
}
