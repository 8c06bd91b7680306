package google

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/taskweb/pkg/taskwarrior"
)

// TaskIDProperty is the private extended property tying an event to a task.
const TaskIDProperty = "taskwarrior_id"

const defaultDuration = 30 * time.Minute

// Calendar colour ids by priority: Tomato, Tangerine, Basil, Graphite.
var priorityColorIDs = map[string]string{
	taskwarrior.PriorityHigh:   "11",
	taskwarrior.PriorityMedium: "6",
	taskwarrior.PriorityLow:    "10",
}

const noPriorityColorID = "8"

// ConvertTaskToEvent turns a task with a due date into a calendar event
// starting at the due time.
func ConvertTaskToEvent(task taskwarrior.Task, now time.Time) (*calendar.Event, error) {
	if _, err := uuid.Parse(task.UUID); err != nil {
		return nil, fmt.Errorf("task %d has no valid uuid: %w", task.ID, err)
	}
	if !task.Due.IsSet() {
		return nil, fmt.Errorf("task %d has no due date", task.ID)
	}

	prefix := ""
	if task.Status == taskwarrior.COMPLETED {
		prefix = "✓"
	} else if task.Due.Before(now) {
		prefix = "!"
	}
	summary := task.Description
	if prefix != "" {
		summary = prefix + " " + task.Description
	}

	colorID, ok := priorityColorIDs[task.Priority]
	if !ok {
		colorID = noPriorityColorID
	}

	start := task.Due.Time
	end := start.Add(defaultDuration)

	var desc strings.Builder
	if len(task.Tags) > 0 {
		for _, tag := range task.Tags {
			fmt.Fprintf(&desc, "#%s ", tag)
		}
		desc.WriteString("\n\n")
	}
	fmt.Fprintf(&desc, "Status: %s\n", task.Status)
	if task.HasProject() {
		fmt.Fprintf(&desc, "Project: %s\n", task.Project)
	}
	if task.HasPriority() {
		fmt.Fprintf(&desc, "Priority: %s\n", task.Priority)
	}
	fmt.Fprintf(&desc, "Urgency: %.1f\n", task.Urgency)
	fmt.Fprintf(&desc, "UUID: %s\n", task.UUID)
	if len(task.Annotations) > 0 {
		desc.WriteString("\nNotes:\n")
		for _, ann := range task.Annotations {
			fmt.Fprintf(&desc, "‣ %s\n", ann.Description)
		}
	}

	return &calendar.Event{
		Summary:     summary,
		ColorId:     colorID,
		Description: desc.String(),
		Start:       &calendar.EventDateTime{DateTime: start.UTC().Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.UTC().Format(time.RFC3339)},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{TaskIDProperty: task.UUID},
		},
	}, nil
}

// EventNeedsUpdate returns a patch holding only the fields of target that
// differ from existing, or nil when they match.
func EventNeedsUpdate(existing, target *calendar.Event) (*calendar.Event, error) {
	patch := &calendar.Event{}
	needsUpdate := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		needsUpdate = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		needsUpdate = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		needsUpdate = true
	}

	sameStart, err := sameTime(existing.Start, target.Start)
	if err != nil {
		return nil, err
	}
	sameEnd, err := sameTime(existing.End, target.End)
	if err != nil {
		return nil, err
	}
	if !sameStart || !sameEnd {
		patch.Start = target.Start
		patch.End = target.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch, nil
	}
	return nil, nil
}

func sameTime(a, b *calendar.EventDateTime) (bool, error) {
	if a == nil || b == nil || a.DateTime == "" || b.DateTime == "" {
		return a != nil && b != nil && a.DateTime == b.DateTime, nil
	}
	ta, err := time.Parse(time.RFC3339, a.DateTime)
	if err != nil {
		return false, err
	}
	tb, err := time.Parse(time.RFC3339, b.DateTime)
	if err != nil {
		return false, err
	}
	return ta.Equal(tb), nil
}
