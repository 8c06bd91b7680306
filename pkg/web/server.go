// Package web serves the task page and a small JSON API on top of the
// Taskwarrior adapter.
package web

import (
	"context"
	"embed"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/taskweb/pkg/taskwarrior"
	"github.com/harrisonrobin/taskweb/pkg/view"
)

//go:embed templates/*.html
var templateFS embed.FS

// TaskService is the part of *taskwarrior.Client the handlers use.
type TaskService interface {
	ListTasks(ctx context.Context, filter string) []taskwarrior.Task
	ExportTasks(ctx context.Context, filter string) ([]taskwarrior.Task, error)
	GetTask(ctx context.Context, id int) (taskwarrior.Task, error)
	AddTask(ctx context.Context, description, priority, project string) error
	CompleteTask(ctx context.Context, id int) error
	DeleteTask(ctx context.Context, id int) error
	ModifyTask(ctx context.Context, id int, m taskwarrior.Modification) error
}

// CalendarSyncer pushes one task to a calendar. It is optional.
type CalendarSyncer interface {
	SyncTask(ctx context.Context, task taskwarrior.Task) (*calendar.Event, error)
}

// Server routes requests to the task service. It holds no per-user state.
type Server struct {
	tasks    TaskService
	calendar CalendarSyncer
	router   *mux.Router
	tmpl     *template.Template
	log      *slog.Logger
}

// NewServer builds the router. syncer may be nil to disable calendar export.
func NewServer(tasks TaskService, syncer CalendarSyncer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		tasks:    tasks,
		calendar: syncer,
		router:   mux.NewRouter(),
		log:      logger,
	}
	s.tmpl = template.Must(template.New("").Funcs(template.FuncMap{
		"priorityColor":  view.PriorityColor,
		"formatPriority": view.FormatPriority,
		"due":            formatDue,
		"selected":       func(a, b string) bool { return a == b },
	}).ParseFS(templateFS, "templates/*.html"))

	RegisterRoutes(s.router, s)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		// Listing may take up to the adapter's list timeout.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func formatDue(ct *taskwarrior.CustomTime) string {
	if !ct.IsSet() {
		return ""
	}
	return ct.Local().Format("2006-01-02 15:04")
}
