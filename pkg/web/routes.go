package web

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up the page, form and API routes.
func RegisterRoutes(router *mux.Router, s *Server) {
	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/tasks", s.handleAdd).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID:[0-9]+}/done", s.handleComplete).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID:[0-9]+}/delete", s.handleDelete).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID:[0-9]+}/modify", s.handleModify).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID:[0-9]+}/calendar", s.handleCalendar).Methods(http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tasks", s.apiList).Methods(http.MethodGet)
	api.HandleFunc("/tasks", s.apiAdd).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{taskID:[0-9]+}", s.apiGet).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{taskID:[0-9]+}", s.apiModify).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{taskID:[0-9]+}", s.apiDelete).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{taskID:[0-9]+}/done", s.apiComplete).Methods(http.MethodPost)
}
