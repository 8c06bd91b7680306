package taskwarrior

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/harrisonrobin/taskweb/pkg/taskrc"
)

const (
	DefaultBinary        = "task"
	DefaultListTimeout   = 30 * time.Second
	DefaultMutateTimeout = 10 * time.Second

	// noMatches is what the tool prints on stderr when a filter selects nothing.
	noMatches = "No matches."
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	Binary string
	// TaskRC and TaskData are exported to the child as TASKRC and TASKDATA.
	// When TaskRC is set and the file is missing, New writes a default one.
	TaskRC   string
	TaskData string

	ListTimeout   time.Duration
	MutateTimeout time.Duration

	Urgency UrgencyFunc
	Logger  *slog.Logger

	// Runner replaces the child process, mostly for tests. When set, the
	// binary is not looked up on PATH.
	Runner Runner
}

// Client translates task operations into invocations of the task binary.
// It keeps no state between calls.
type Client struct {
	runner        Runner
	listTimeout   time.Duration
	mutateTimeout time.Duration
	urgency       UrgencyFunc
	log           *slog.Logger
}

// New resolves the binary, bootstraps the settings file when needed and
// probes the tool's version. Any failure here is fatal for the caller.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	if opts.ListTimeout <= 0 {
		opts.ListTimeout = DefaultListTimeout
	}
	if opts.MutateTimeout <= 0 {
		opts.MutateTimeout = DefaultMutateTimeout
	}
	if opts.Urgency == nil {
		opts.Urgency = DefaultUrgency
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	runner := opts.Runner
	if runner == nil {
		path, err := exec.LookPath(opts.Binary)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrToolMissing, opts.Binary, err)
		}
		var env []string
		if opts.TaskRC != "" {
			env = append(env, "TASKRC="+opts.TaskRC)
		}
		if opts.TaskData != "" {
			env = append(env, "TASKDATA="+opts.TaskData)
		}
		runner = &ExecRunner{Binary: path, Env: env}
	}

	c := &Client{
		runner:        runner,
		listTimeout:   opts.ListTimeout,
		mutateTimeout: opts.MutateTimeout,
		urgency:       opts.Urgency,
		log:           opts.Logger,
	}

	if opts.TaskRC != "" {
		created, err := taskrc.Ensure(opts.TaskRC, opts.TaskData, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInitialization, err)
		}
		if created {
			c.log.Info("created default taskwarrior settings", "taskrc", opts.TaskRC, "data", opts.TaskData)
		}
	}

	version, err := c.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: version probe: %v", ErrInitialization, err)
	}
	c.log.Debug("taskwarrior reachable", "version", version)
	return c, nil
}

// NewClient wraps an existing runner without probing it.
func NewClient(runner Runner, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		runner:        runner,
		listTimeout:   DefaultListTimeout,
		mutateTimeout: DefaultMutateTimeout,
		urgency:       DefaultUrgency,
		log:           logger,
	}
}

// Version returns the tool's version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.run(ctx, c.mutateTimeout, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ListTasks exports the tasks matching filter. It never fails: timeouts and
// tool errors are logged and yield an empty collection.
func (c *Client) ListTasks(ctx context.Context, filter string) []Task {
	tasks, err := c.ExportTasks(ctx, filter)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			c.log.Warn("listing timed out, showing no tasks", "filter", filter, "timeout", c.listTimeout)
		} else {
			c.log.Warn("listing failed, showing no tasks", "filter", filter, "error", err)
		}
		return []Task{}
	}
	return tasks
}

// ExportTasks is ListTasks with the failure reported to the caller.
// The returned slice is never nil when err is nil.
func (c *Client) ExportTasks(ctx context.Context, filter string) ([]Task, error) {
	args := []string{"rc.hooks=0"}
	args = append(args, strings.Fields(filter)...)
	args = append(args, "export")

	out, err := c.run(ctx, c.listTimeout, args...)
	if err != nil {
		return nil, err
	}

	tasks, err := ParseTasks(bytes.NewReader(out))
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].normalize()
		tasks[i].Urgency = clampUrgency(c.urgency(tasks[i]))
	}
	return tasks, nil
}

// GetTask returns the task with the given working id.
func (c *Client) GetTask(ctx context.Context, id int) (Task, error) {
	if err := validateID(id); err != nil {
		return Task{}, err
	}
	tasks, err := c.ExportTasks(ctx, strconv.Itoa(id))
	if err != nil {
		return Task{}, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return Task{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// AddTask creates a pending task. Blank priority and project are left out
// of the command rather than sent empty.
func (c *Client) AddTask(ctx context.Context, description, priority, project string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return &ValidationError{Field: "description", Reason: "required"}
	}
	attrs, err := attributes(priority, project)
	if err != nil {
		return err
	}

	args := []string{"rc.confirmation=off", "add"}
	args = append(args, attrs...)
	args = append(args, "--", description)
	_, err = c.run(ctx, c.mutateTimeout, args...)
	return err
}

// CompleteTask marks the task done.
func (c *Client) CompleteTask(ctx context.Context, id int) error {
	if err := validateID(id); err != nil {
		return err
	}
	_, err := c.run(ctx, c.mutateTimeout, "rc.confirmation=off", strconv.Itoa(id), "done")
	return err
}

// DeleteTask marks the task deleted.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	if err := validateID(id); err != nil {
		return err
	}
	_, err := c.run(ctx, c.mutateTimeout, "rc.confirmation=off", strconv.Itoa(id), "delete")
	return err
}

// Modification lists the fields to change. Blank fields are left as they are.
type Modification struct {
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Project     string `json:"project,omitempty"`
}

func (m Modification) empty() bool {
	p, _ := NormalizePriority(m.Priority)
	return strings.TrimSpace(m.Description) == "" && p == "" && !isSet(strings.TrimSpace(m.Project))
}

// ModifyTask changes the given fields of a task.
func (c *Client) ModifyTask(ctx context.Context, id int, m Modification) error {
	if err := validateID(id); err != nil {
		return err
	}
	if m.empty() {
		return &ValidationError{Field: "modification", Reason: "nothing to modify"}
	}
	attrs, err := attributes(m.Priority, m.Project)
	if err != nil {
		return err
	}

	args := []string{"rc.confirmation=off", strconv.Itoa(id), "modify"}
	args = append(args, attrs...)
	if d := strings.TrimSpace(m.Description); d != "" {
		args = append(args, "--", d)
	}
	_, err = c.run(ctx, c.mutateTimeout, args...)
	return err
}

// ParseTasks decodes an export. It accepts both a JSON array and a stream
// of objects, one per line, as older versions and hooks emit.
func ParseTasks(r io.Reader) ([]Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read task json: %w", err)
	}
	data = bytes.TrimSpace(data)
	tasks := []Task{}
	if len(data) == 0 {
		return tasks, nil
	}

	if data[0] == '[' {
		if err := json.Unmarshal(data, &tasks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal taskwarrior output: %w", err)
		}
		if tasks == nil {
			tasks = []Task{}
		}
		return tasks, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	for {
		var task Task
		if err := decoder.Decode(&task); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode task json: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (c *Client) run(ctx context.Context, timeout time.Duration, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	stdout, stderr, err := c.runner.Run(ctx, args...)
	c.log.Debug("task", "args", args, "duration", time.Since(start), "error", err)
	if err == nil {
		return stdout, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w after %s: task %s", ErrTimeout, timeout, strings.Join(args, " "))
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if bytes.Contains(stderr, []byte(noMatches)) {
		return nil, nil
	}

	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return nil, &ToolError{Args: args, ExitCode: code, Stderr: string(stderr), Err: err}
}

func attributes(priority, project string) ([]string, error) {
	p, ok := NormalizePriority(priority)
	if !ok {
		return nil, &ValidationError{Field: "priority", Reason: fmt.Sprintf("%q is not one of H, M, L", priority)}
	}
	var attrs []string
	if p != "" {
		attrs = append(attrs, "priority:"+p)
	}
	if project = strings.TrimSpace(project); isSet(project) {
		attrs = append(attrs, "project:"+project)
	}
	return attrs, nil
}

func validateID(id int) error {
	if id <= 0 {
		return &ValidationError{Field: "id", Reason: "a positive task id is required"}
	}
	return nil
}
