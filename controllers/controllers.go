package controllers

import (
	"errors"
	"html/template"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/user-management/models"
	"github.com/blogem/user-management/services"
)

// renderTemplate creates a template set and renders it with the provided data
func renderTemplate(w http.ResponseWriter, templateName string, pageTemplate string, data interface{}) error {
	return renderTemplateWithStatus(w, http.StatusOK, templateName, pageTemplate, data)
}

// renderTemplateWithStatus creates a template set and renders it with the provided data and status code
func renderTemplateWithStatus(w http.ResponseWriter, statusCode int, templateName string, pageTemplate string, data interface{}) error {
	tmpl := template.New(templateName)

	// Parse layout and page template
	_, err := tmpl.ParseFiles("templates/layout.html", pageTemplate)
	if err != nil {
		http.Error(w, "Failed to parse template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	// Set status code if not OK
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}

	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	return nil
}

// setFlash stores a one-shot feedback message in the session
func setFlash(r *http.Request, flashType, message string) {
	sess := session.GetSession(r)
	if sess == nil {
		return
	}
	sess.Set("flash_type", flashType)
	sess.Set("flash_message", message)
}

// popFlash retrieves and clears the pending flash message, if any
func popFlash(r *http.Request) *models.FlashMessage {
	sess := session.GetSession(r)
	if sess == nil {
		return nil
	}

	message, _ := sess.Get("flash_message").(string)
	if message == "" {
		return nil
	}
	flashType, _ := sess.Get("flash_type").(string)

	sess.Delete("flash_message")
	sess.Delete("flash_type")

	return &models.FlashMessage{Type: flashType, Message: message}
}

// asValidationErrors unwraps a service error into field validation errors
func asValidationErrors(err error) (models.ValidationErrors, bool) {
	var verrs models.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

// Controllers holds all controller instances
type Controllers struct {
	Users *UsersController
	Logs  *LogsController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services) *Controllers {
	return &Controllers{
		Users: NewUsersController(services),
		Logs:  NewLogsController(services),
	}
}
