package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/harrisonrobin/taskweb/pkg/taskwarrior"
	"github.com/harrisonrobin/taskweb/pkg/view"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

type pageData struct {
	Tasks           []taskwarrior.Task
	Filter          view.Filter
	StatusOptions   []string
	PriorityOptions []string
	ProjectOptions  []string
	AddPriorities   []string
	Flash           string
	FlashKind       string
	CalendarEnabled bool
}

func filterFromValues(v url.Values) view.Filter {
	get := func(k string) string {
		if s := v.Get(k); s != "" {
			return s
		}
		return view.All
	}
	return view.Filter{Status: get("status"), Priority: get("priority"), Project: get("project")}
}

// handleIndex handles GET /.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := filterFromValues(q)

	all := s.tasks.ListTasks(r.Context(), "")
	data := pageData{
		Tasks:           filter.Apply(all),
		Filter:          filter,
		StatusOptions:   view.StatusOptions,
		PriorityOptions: view.PriorityOptions,
		ProjectOptions:  view.ProjectOptions(all),
		AddPriorities:   []string{"", taskwarrior.PriorityHigh, taskwarrior.PriorityMedium, taskwarrior.PriorityLow},
		Flash:           q.Get("msg"),
		FlashKind:       q.Get("kind"),
		CalendarEnabled: s.calendar != nil,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		s.log.Error("render index", "error", err)
	}
}

// redirect sends the browser back to the page, keeping the filters the
// form carried and attaching a flash message.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, kind, msg string) {
	q := url.Values{}
	for _, k := range []string{"status", "priority", "project"} {
		if v := r.PostFormValue("f_" + k); v != "" && v != view.All {
			q.Set(k, v)
		}
	}
	q.Set("msg", msg)
	q.Set("kind", kind)
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

func taskID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["taskID"])
}

// handleAdd handles POST /tasks from the add form.
func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	description := strings.TrimSpace(r.PostFormValue("description"))
	if description == "" {
		s.redirect(w, r, flashError, "Description is required!")
		return
	}

	err := s.tasks.AddTask(r.Context(), description, r.PostFormValue("priority"), r.PostFormValue("project"))
	if err != nil {
		s.log.Warn("add task", "error", err)
		s.redirect(w, r, flashError, fmt.Sprintf("Error adding task: %v", err))
		return
	}
	s.redirect(w, r, flashSuccess, "Task added successfully!")
}

// handleComplete handles POST /tasks/{taskID}/done.
func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "complete", "Task %d completed.", func(id int) error {
		return s.tasks.CompleteTask(r.Context(), id)
	})
}

// handleDelete handles POST /tasks/{taskID}/delete.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "delete", "Task %d deleted.", func(id int) error {
		return s.tasks.DeleteTask(r.Context(), id)
	})
}

// handleModify handles POST /tasks/{taskID}/modify.
func (s *Server) handleModify(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "modify", "Task %d updated.", func(id int) error {
		return s.tasks.ModifyTask(r.Context(), id, taskwarrior.Modification{
			Description: r.PostFormValue("description"),
			Priority:    r.PostFormValue("priority"),
			Project:     r.PostFormValue("project"),
		})
	})
}

// handleCalendar handles POST /tasks/{taskID}/calendar.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if s.calendar == nil {
		http.NotFound(w, r)
		return
	}
	s.mutate(w, r, "sync", "Task %d sent to calendar.", func(id int) error {
		task, err := s.tasks.GetTask(r.Context(), id)
		if err != nil {
			return err
		}
		_, err = s.calendar.SyncTask(r.Context(), task)
		return err
	})
}

func (s *Server) mutate(w http.ResponseWriter, r *http.Request, verb, okFormat string, fn func(id int) error) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	id, err := taskID(r)
	if err != nil {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return
	}
	if err := fn(id); err != nil {
		s.log.Warn(verb+" task", "id", id, "error", err)
		s.redirect(w, r, flashError, fmt.Sprintf("Error: could not %s task %d: %v", verb, id, err))
		return
	}
	s.redirect(w, r, flashSuccess, fmt.Sprintf(okFormat, id))
}
