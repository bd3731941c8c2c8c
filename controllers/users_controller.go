package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/user-management/models"
	"github.com/blogem/user-management/repositories"
	"github.com/blogem/user-management/services"
)

// UsersController handles user management requests
type UsersController struct {
	services *services.Services
}

// NewUsersController creates a new users controller
func NewUsersController(services *services.Services) *UsersController {
	return &UsersController{
		services: services,
	}
}

// userListData is the template data for the user list page
type userListData struct {
	Title        string
	CurrentPage  string
	Error        string
	Flash        *models.FlashMessage
	Users        []models.User
	Form         *models.UserForm
	ActiveFilter string
}

// Index handles GET /users, optionally filtered by ?active=true|false
func (c *UsersController) Index(w http.ResponseWriter, r *http.Request) {
	activeFilter := r.URL.Query().Get("active")

	var users []models.User
	var err error

	// The filter decision lives here: no parameter means the unfiltered list
	switch activeFilter {
	case "true":
		users, err = c.services.Users.FilterByActive(r.Context(), true)
	case "false":
		users, err = c.services.Users.FilterByActive(r.Context(), false)
	default:
		activeFilter = ""
		users, err = c.services.Users.GetAllUsers(r.Context())
	}
	if err != nil {
		http.Error(w, "Failed to load users: "+err.Error(), http.StatusInternalServerError)
		return
	}

	renderTemplate(w, "users", "templates/users.html", userListData{
		Title:        "User Management",
		CurrentPage:  "users",
		Flash:        popFlash(r),
		Users:        users,
		Form:         &models.UserForm{IsActive: true}, // Default new users to active
		ActiveFilter: activeFilter,
	})
}

// Create handles POST /users
func (c *UsersController) Create(w http.ResponseWriter, r *http.Request) {
	form, err := parseUserForm(r)
	if err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	_, err = c.services.Users.CreateUser(r.Context(), form)
	if err != nil {
		verrs, ok := asValidationErrors(err)
		if !ok {
			http.Error(w, "Failed to create user: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// Reload page with form data and validation messages
		users, loadErr := c.services.Users.GetAllUsers(r.Context())
		if loadErr != nil {
			http.Error(w, "Failed to load users: "+loadErr.Error(), http.StatusInternalServerError)
			return
		}

		renderTemplateWithStatus(w, http.StatusBadRequest, "users_create_error", "templates/users.html", userListData{
			Title:       "User Management",
			CurrentPage: "users",
			Error:       strings.Join(verrs.GetMessages(), ", "),
			Users:       users,
			Form:        form,
		})
		return
	}

	setFlash(r, "success", "User created")
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// userDetailsData is the template data for the user detail and edit pages
type userDetailsData struct {
	Title       string
	CurrentPage string
	Error       string
	User        *models.User
	Logs        []models.Log
	Form        *models.UserForm
}

// Details handles GET /users/{id}, showing the user with its audit trail
func (c *UsersController) Details(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := c.services.Users.GetUserByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load user: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	logs, err := c.services.Logs.GetLogsForUser(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load user logs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	renderTemplate(w, "user_details", "templates/user_details.html", userDetailsData{
		Title:       "User Details",
		CurrentPage: "users",
		User:        user,
		Logs:        logs,
	})
}

// Edit handles GET /users/{id}/edit
func (c *UsersController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := c.services.Users.GetUserByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load user: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	renderTemplate(w, "user_edit", "templates/user_edit.html", userDetailsData{
		Title:       "Edit User",
		CurrentPage: "users",
		User:        user,
		Form: &models.UserForm{
			Forename:    user.Forename,
			Surname:     user.Surname,
			Email:       user.Email,
			DateOfBirth: user.GetFormattedDateOfBirth(),
			IsActive:    user.IsActive,
		},
	})
}

// Update handles POST /users/{id}
func (c *UsersController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	form, err := parseUserForm(r)
	if err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	_, err = c.services.Users.UpdateUser(r.Context(), id, form)
	if err != nil {
		if repositories.IsNotFound(err) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}

		verrs, ok := asValidationErrors(err)
		if !ok {
			http.Error(w, "Failed to update user: "+err.Error(), http.StatusInternalServerError)
			return
		}

		user, loadErr := c.services.Users.GetUserByID(r.Context(), id)
		if loadErr != nil || user == nil {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}

		renderTemplateWithStatus(w, http.StatusBadRequest, "user_update_error", "templates/user_edit.html", userDetailsData{
			Title:       "Edit User",
			CurrentPage: "users",
			Error:       strings.Join(verrs.GetMessages(), ", "),
			User:        user,
			Form:        form,
		})
		return
	}

	setFlash(r, "success", "User updated")
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// Delete handles POST /users/{id}/delete
func (c *UsersController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if _, err := c.services.Users.DeleteUser(r.Context(), id); err != nil {
		if repositories.IsNotFound(err) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete user: "+err.Error(), http.StatusInternalServerError)
		return
	}

	setFlash(r, "success", "User deleted")
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// userID extracts the {id} URL parameter
func userID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// parseUserForm builds a UserForm from submitted form data
func parseUserForm(r *http.Request) (*models.UserForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	// Get the last value for 'is_active' (checkbox will override hidden field if checked)
	activeValues := r.Form["is_active"]
	isActive := len(activeValues) > 0 && activeValues[len(activeValues)-1] == "on"

	return &models.UserForm{
		Forename:    r.FormValue("forename"),
		Surname:     r.FormValue("surname"),
		Email:       r.FormValue("email"),
		DateOfBirth: r.FormValue("date_of_birth"),
		IsActive:    isActive,
	}, nil
}
