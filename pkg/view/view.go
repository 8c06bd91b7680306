// Package view holds presentation rules shared by the web page and the CLI:
// priority labels and colours, list filters and the project picker.
package view

import (
	"sort"
	"strings"

	"github.com/harrisonrobin/taskweb/pkg/taskwarrior"
)

// All disables a filter dimension.
const All = "All"

var priorityColors = map[string]string{
	taskwarrior.PriorityHigh:   "#FF4B4B",
	taskwarrior.PriorityMedium: "#FFA500",
	taskwarrior.PriorityLow:    "#00CC00",
	taskwarrior.None:           "#808080",
}

// FormatPriority upper-cases a priority and maps blanks to "None".
func FormatPriority(priority string) string {
	if priority == "" || priority == taskwarrior.None {
		return taskwarrior.None
	}
	return strings.ToUpper(priority)
}

// PriorityColor returns the hex colour for a formatted priority.
func PriorityColor(priority string) string {
	if c, ok := priorityColors[priority]; ok {
		return c
	}
	return priorityColors[taskwarrior.None]
}

var (
	StatusOptions   = []string{All, "Pending", "Completed"}
	PriorityOptions = []string{All, taskwarrior.PriorityHigh, taskwarrior.PriorityMedium, taskwarrior.PriorityLow, taskwarrior.None}
)

// Filter selects tasks by exact status, priority and project.
// Empty fields behave like All.
type Filter struct {
	Status   string
	Priority string
	Project  string
}

func active(v string) bool {
	return v != "" && v != All
}

// Match reports whether t passes every active dimension. Status is
// compared case-insensitively.
func (f Filter) Match(t taskwarrior.Task) bool {
	if active(f.Status) && t.Status != strings.ToLower(f.Status) {
		return false
	}
	if active(f.Priority) && t.Priority != f.Priority {
		return false
	}
	if active(f.Project) && t.Project != f.Project {
		return false
	}
	return true
}

// Apply returns the matching tasks in their original order. The result is
// never nil.
func (f Filter) Apply(tasks []taskwarrior.Task) []taskwarrior.Task {
	out := make([]taskwarrior.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// ProjectOptions lists "All", the distinct real projects sorted, and "None".
func ProjectOptions(tasks []taskwarrior.Task) []string {
	seen := make(map[string]bool)
	var projects []string
	for _, t := range tasks {
		if !t.HasProject() || seen[t.Project] {
			continue
		}
		seen[t.Project] = true
		projects = append(projects, t.Project)
	}
	sort.Strings(projects)

	opts := make([]string, 0, len(projects)+2)
	opts = append(opts, All)
	opts = append(opts, projects...)
	return append(opts, taskwarrior.None)
}
