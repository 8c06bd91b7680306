package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/taskweb/pkg/taskwarrior"
)

// mockTaskService implements TaskService for testing
type mockTaskService struct {
	tasks     []taskwarrior.Task
	exportErr error

	AddFunc      func(description, priority, project string) error
	CompleteFunc func(id int) error
	DeleteFunc   func(id int) error
	ModifyFunc   func(id int, m taskwarrior.Modification) error

	calls []string
}

func (m *mockTaskService) record(format string, args ...any) {
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
}

func (m *mockTaskService) ListTasks(ctx context.Context, filter string) []taskwarrior.Task {
	tasks, err := m.ExportTasks(ctx, filter)
	if err != nil {
		return []taskwarrior.Task{}
	}
	return tasks
}

func (m *mockTaskService) ExportTasks(_ context.Context, filter string) ([]taskwarrior.Task, error) {
	m.record("export %s", filter)
	if m.exportErr != nil {
		return nil, m.exportErr
	}
	out := append([]taskwarrior.Task{}, m.tasks...)
	return out, nil
}

func (m *mockTaskService) GetTask(_ context.Context, id int) (taskwarrior.Task, error) {
	m.record("get %d", id)
	for _, t := range m.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return taskwarrior.Task{}, taskwarrior.ErrNotFound
}

func (m *mockTaskService) AddTask(_ context.Context, description, priority, project string) error {
	m.record("add %s|%s|%s", description, priority, project)
	if m.AddFunc != nil {
		return m.AddFunc(description, priority, project)
	}
	return nil
}

func (m *mockTaskService) CompleteTask(_ context.Context, id int) error {
	m.record("done %d", id)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(id)
	}
	return nil
}

func (m *mockTaskService) DeleteTask(_ context.Context, id int) error {
	m.record("delete %d", id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id)
	}
	return nil
}

func (m *mockTaskService) ModifyTask(_ context.Context, id int, mod taskwarrior.Modification) error {
	m.record("modify %d %s|%s|%s", id, mod.Description, mod.Priority, mod.Project)
	if m.ModifyFunc != nil {
		return m.ModifyFunc(id, mod)
	}
	return nil
}

type mockSyncer struct {
	synced []string
	err    error
}

func (m *mockSyncer) SyncTask(_ context.Context, task taskwarrior.Task) (*calendar.Event, error) {
	m.synced = append(m.synced, task.UUID)
	return &calendar.Event{Id: "evt"}, m.err
}

func sampleTasks() []taskwarrior.Task {
	return []taskwarrior.Task{
		{ID: 1, UUID: "u1", Description: "Buy milk", Status: "pending", Priority: "H", Project: "Home", Tags: []string{}, Urgency: 7,
			Due: &taskwarrior.CustomTime{Time: time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)}},
		{ID: 2, UUID: "u2", Description: "File taxes", Status: "pending", Priority: "None", Project: "Work", Tags: []string{}},
		{ID: 0, UUID: "u3", Description: "Old <b>thing</b>", Status: "completed", Priority: "L", Project: "None", Tags: []string{}},
	}
}

func postForm(s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestIndex_RendersTasksAndOptions(t *testing.T) {
	svc := &mockTaskService{tasks: sampleTasks()}
	s := NewServer(svc, nil, nil)

	rec := get(s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "Buy milk")
	assert.Contains(t, body, "File taxes")
	assert.Contains(t, body, "Old &lt;b&gt;thing&lt;/b&gt;")
	assert.Contains(t, body, "[H]")
	assert.Contains(t, body, "#FF4B4B")
	assert.Contains(t, body, `<option value="Home">Home</option>`)
	assert.Contains(t, body, `action="/tasks/1/done"`)
	assert.NotContains(t, body, `action="/tasks/0/done"`)
	assert.NotContains(t, body, "/calendar")
	assert.Equal(t, []string{"export "}, svc.calls)
}

func TestIndex_AppliesFilters(t *testing.T) {
	s := NewServer(&mockTaskService{tasks: sampleTasks()}, nil, nil)

	body := get(s, "/?status=Pending&project=Work").Body.String()
	assert.Contains(t, body, "File taxes")
	assert.NotContains(t, body, "Buy milk")
	assert.Contains(t, body, `<option value="Work" selected>Work</option>`)

	body = get(s, "/?priority=M").Body.String()
	assert.Contains(t, body, "No tasks found matching the current filters.")
}

func TestIndex_ListingFailureShowsEmptyPage(t *testing.T) {
	s := NewServer(&mockTaskService{exportErr: taskwarrior.ErrTimeout}, nil, nil)

	rec := get(s, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No tasks found matching the current filters.")
}

func TestIndex_ShowsFlash(t *testing.T) {
	s := NewServer(&mockTaskService{}, nil, nil)
	body := get(s, "/?msg=Task+added+successfully%21&kind=success").Body.String()
	assert.Contains(t, body, `class="flash success"`)
	assert.Contains(t, body, "Task added successfully!")
}

func TestAdd(t *testing.T) {
	t.Run("empty description never reaches the service", func(t *testing.T) {
		svc := &mockTaskService{}
		s := NewServer(svc, nil, nil)

		rec := postForm(s, "/tasks", url.Values{"description": {"  "}, "priority": {"H"}})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "Description is required!", loc.Query().Get("msg"))
		assert.Equal(t, "error", loc.Query().Get("kind"))
		assert.Empty(t, svc.calls)
	})

	t.Run("success keeps filters", func(t *testing.T) {
		svc := &mockTaskService{}
		s := NewServer(svc, nil, nil)

		rec := postForm(s, "/tasks", url.Values{
			"description": {"Buy milk"}, "priority": {""}, "project": {""},
			"f_status": {"Pending"}, "f_priority": {"All"},
		})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "Task added successfully!", loc.Query().Get("msg"))
		assert.Equal(t, "Pending", loc.Query().Get("status"))
		assert.Empty(t, loc.Query().Get("priority"))
		assert.Equal(t, []string{"add Buy milk||"}, svc.calls)
	})

	t.Run("service failure", func(t *testing.T) {
		svc := &mockTaskService{AddFunc: func(string, string, string) error {
			return &taskwarrior.ToolError{ExitCode: 2, Stderr: "broken"}
		}}
		s := NewServer(svc, nil, nil)

		rec := postForm(s, "/tasks", url.Values{"description": {"x"}})
		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Contains(t, loc.Query().Get("msg"), "Error adding task:")
		assert.Contains(t, loc.Query().Get("msg"), "broken")
	})
}

func TestMutations(t *testing.T) {
	svc := &mockTaskService{tasks: sampleTasks()}
	s := NewServer(svc, nil, nil)

	assert.Equal(t, http.StatusSeeOther, postForm(s, "/tasks/1/done", nil).Code)
	assert.Equal(t, http.StatusSeeOther, postForm(s, "/tasks/2/delete", nil).Code)
	assert.Equal(t, http.StatusSeeOther, postForm(s, "/tasks/2/modify", url.Values{"project": {"Home"}}).Code)
	assert.Equal(t, http.StatusNotFound, postForm(s, "/tasks/abc/done", nil).Code)

	assert.Equal(t, []string{"done 1", "delete 2", "modify 2 ||Home"}, svc.calls)
}

func TestMutation_FailureFlash(t *testing.T) {
	svc := &mockTaskService{CompleteFunc: func(int) error { return taskwarrior.ErrTimeout }}
	s := NewServer(svc, nil, nil)

	rec := postForm(s, "/tasks/4/done", nil)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "error", loc.Query().Get("kind"))
	assert.Contains(t, loc.Query().Get("msg"), "could not complete task 4")
}

func TestCalendar(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		s := NewServer(&mockTaskService{tasks: sampleTasks()}, nil, nil)
		assert.Equal(t, http.StatusNotFound, postForm(s, "/tasks/1/calendar", nil).Code)
	})

	t.Run("enabled", func(t *testing.T) {
		syncer := &mockSyncer{}
		s := NewServer(&mockTaskService{tasks: sampleTasks()}, syncer, nil)

		assert.Contains(t, get(s, "/").Body.String(), `action="/tasks/1/calendar"`)

		rec := postForm(s, "/tasks/1/calendar", nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, []string{"u1"}, syncer.synced)

		rec = postForm(s, "/tasks/9/calendar", nil)
		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "error", loc.Query().Get("kind"))
	})

	t.Run("empty due date hides the button", func(t *testing.T) {
		tasks := sampleTasks()
		tasks[0].Due = &taskwarrior.CustomTime{}
		s := NewServer(&mockTaskService{tasks: tasks}, &mockSyncer{}, nil)

		body := get(s, "/").Body.String()
		assert.Contains(t, body, `action="/tasks/1/done"`)
		assert.NotContains(t, body, `action="/tasks/1/calendar"`)
	})

	t.Run("sync error", func(t *testing.T) {
		syncer := &mockSyncer{err: errors.New("quota")}
		s := NewServer(&mockTaskService{tasks: sampleTasks()}, syncer, nil)
		rec := postForm(s, "/tasks/1/calendar", nil)
		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Contains(t, loc.Query().Get("msg"), "quota")
	})
}
