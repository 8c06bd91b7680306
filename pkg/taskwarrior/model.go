package taskwarrior

import (
	"fmt"
	"strings"
	"time"
)

const (
	PENDING   = "pending"
	COMPLETED = "completed"
	WAITING   = "waiting"
	DELETED   = "deleted"
	RECURRING = "recurring"
)

// None is the sentinel stored in Priority and Project when the tool
// reports no value.
const None = "None"

const (
	PriorityHigh   = "H"
	PriorityMedium = "M"
	PriorityLow    = "L"
)

type CustomTime struct {
	time.Time
}

const taskwarriorTimeLayout = "20060102T150405Z" // YYYYMMDDTHHMMSSZ, 'Z' indicates UTC

// UnmarshalJSON implements the json.Unmarshaler interface for CustomTime.
func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "0" || s == "null" {
		ct.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(taskwarriorTimeLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse Taskwarrior time string '%s': %w", s, err)
	}
	ct.Time = t
	return nil
}

// MarshalJSON implements the json.Marshaler interface for CustomTime.
func (ct CustomTime) MarshalJSON() ([]byte, error) {
	if ct.Time.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ct.Time.Format(taskwarriorTimeLayout) + `"`), nil
}

// IsSet reports whether a possibly nil timestamp carries a value.
func (ct *CustomTime) IsSet() bool {
	return ct != nil && !ct.Time.IsZero()
}

type Annotation struct {
	Description string      `json:"description"`
	Entry       *CustomTime `json:"entry,omitempty"`
}

// Task is one record of `task export`. Urgency is recomputed locally and
// never taken from the tool.
type Task struct {
	ID          int          `json:"id,omitempty"`
	UUID        string       `json:"uuid,omitempty"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	Project     string       `json:"project"`
	Due         *CustomTime  `json:"due,omitempty"`
	Scheduled   *CustomTime  `json:"scheduled,omitempty"`
	Start       *CustomTime  `json:"start,omitempty"`
	End         *CustomTime  `json:"end,omitempty"`
	Entry       *CustomTime  `json:"entry,omitempty"`
	Modified    *CustomTime  `json:"modified,omitempty"`
	Tags        []string     `json:"tags"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Urgency     float64      `json:"urgency"`
}

// HasProject reports whether the task belongs to a real project.
func (t Task) HasProject() bool {
	return isSet(t.Project)
}

// HasPriority reports whether the task carries a real priority.
func (t Task) HasPriority() bool {
	return isSet(t.Priority)
}

func isSet(s string) bool {
	return s != "" && s != None
}

// normalize fills in the defaults the tool leaves out of its export.
func (t *Task) normalize() {
	if t.Status == "" {
		t.Status = PENDING
	}
	if t.Priority == "" {
		t.Priority = None
	}
	if t.Project == "" {
		t.Project = None
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
}

// NormalizePriority upper-cases p and checks it against H, M and L.
// A blank priority, or the None sentinel, is valid and returned as "".
func NormalizePriority(p string) (string, bool) {
	p = strings.ToUpper(strings.TrimSpace(p))
	switch p {
	case "", strings.ToUpper(None):
		return "", true
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, true
	}
	return p, false
}
