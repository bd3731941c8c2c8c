package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/user-management/models"
	"github.com/blogem/user-management/services"
)

// LogsController handles audit log viewing requests
type LogsController struct {
	services *services.Services
}

// NewLogsController creates a new logs controller
func NewLogsController(services *services.Services) *LogsController {
	return &LogsController{
		services: services,
	}
}

// Index handles GET /logs, optionally filtered by ?type=
func (c *LogsController) Index(w http.ResponseWriter, r *http.Request) {
	logType := r.URL.Query().Get("type")

	var logs []models.Log
	var err error

	// An absent or empty type parameter means the unfiltered list; the
	// service itself always filters exactly
	if logType != "" {
		logs, err = c.services.Logs.FilterByType(r.Context(), logType)
	} else {
		logs, err = c.services.Logs.GetAllLogs(r.Context())
	}
	if err != nil {
		http.Error(w, "Failed to load logs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Logs        []models.Log
		TypeFilter  string
		LogTypes    []string
	}{
		Title:       "Audit Logs",
		CurrentPage: "logs",
		Logs:        logs,
		TypeFilter:  logType,
		LogTypes:    []string{models.LogTypeCreated, models.LogTypeUpdated, models.LogTypeDeleted},
	}

	renderTemplate(w, "logs", "templates/logs.html", templateData)
}

// View handles GET /logs/{id}
func (c *LogsController) View(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid log ID", http.StatusBadRequest)
		return
	}

	log, err := c.services.Logs.GetLogByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load log: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if log == nil {
		http.Error(w, "Log not found", http.StatusNotFound)
		return
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Log         *models.Log
	}{
		Title:       "Log Details",
		CurrentPage: "logs",
		Log:         log,
	}

	renderTemplate(w, "log_view", "templates/log_view.html", templateData)
}
