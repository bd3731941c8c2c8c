package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/blogem/user-management/controllers"
	"github.com/blogem/user-management/database"
	"github.com/blogem/user-management/repositories"
	"github.com/blogem/user-management/services"
)

func main() {
	// Load environment variables from .env file, if one exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to load the env vars: %v", err)
	}

	// Initialize database
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "user_management.db"
	}
	db, err := database.InitializeDatabase(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize repositories
	repos := repositories.NewRepositories(db)

	// Seed the store on first run
	if err := seedIfEmpty(repos); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Initialize services
	srvs := services.NewServices(repos)

	// Initialize controllers
	ctrl := controllers.NewControllers(srvs)

	// Set up router
	r, err := setupRouter(ctrl)
	if err != nil {
		log.Fatalf("Failed to setup router: %v", err)
	}

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("🚀 User Management starting on port %s\n", port)
	fmt.Printf("📂 Visit: http://localhost:%s/users\n", port)
	fmt.Printf("🗃️  Database: %s\n", dbPath)

	log.Fatal(http.ListenAndServe(":"+port, r))
}

// seedIfEmpty populates the store with the sample dataset when the users
// table has no rows yet
func seedIfEmpty(repos *repositories.Repositories) error {
	ctx := context.Background()

	count, err := repos.Users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return repos.ResetAndReseed(ctx)
}

// setupRouter configures all routes
func setupRouter(ctrl *controllers.Controllers) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	// Determine if we should use secure cookies (HTTPS)
	useSecureCookies := os.Getenv("USE_HTTPS") == "true"

	// Session middleware, used for flash messages
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "um_session",
		Secure:         useSecureCookies,
		Gclifetime:     3600,
		Maxlifetime:    3600,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	// Static files (if we add any later)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static/"))))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "user-management"}`)
	})

	// User management routes
	r.Route("/users", func(r chi.Router) {
		r.Get("/", ctrl.Users.Index)
		r.Post("/", ctrl.Users.Create)
		r.Get("/{id}", ctrl.Users.Details)
		r.Get("/{id}/edit", ctrl.Users.Edit)
		r.Post("/{id}", ctrl.Users.Update)
		r.Post("/{id}/delete", ctrl.Users.Delete)
	})

	// Audit log routes
	r.Route("/logs", func(r chi.Router) {
		r.Get("/", ctrl.Logs.Index)
		r.Get("/{id}", ctrl.Logs.View)
	})

	return r, nil
}
