package repositories

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/blogem/user-management/database"
	"github.com/blogem/user-management/models"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	// Create a temporary database for testing
	dbPath := "test_" + time.Now().Format("20060102150405.000000000") + ".db"

	db, err := database.InitializeDatabase(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	return db
}

func validUser() *models.User {
	return &models.User{
		Forename:    "Test",
		Surname:     "User",
		Email:       "test.user@example.com",
		DateOfBirth: time.Date(1991, 5, 20, 0, 0, 0, 0, time.UTC),
		IsActive:    true,
	}
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	// Test Create
	user := validUser()
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	if user.ID == 0 {
		t.Error("Expected user ID to be set after creation")
	}

	// Test GetByID
	retrieved, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to get user by ID: %v", err)
	}

	if retrieved.Forename != user.Forename {
		t.Errorf("Expected forename %s, got %s", user.Forename, retrieved.Forename)
	}

	if !retrieved.DateOfBirth.Equal(user.DateOfBirth) {
		t.Errorf("Expected date of birth %v, got %v", user.DateOfBirth, retrieved.DateOfBirth)
	}

	// Test GetAll
	users, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("Failed to get all users: %v", err)
	}

	if len(users) != 1 {
		t.Errorf("Expected 1 user, got %d", len(users))
	}

	// Test GetByActive
	active, err := repo.GetByActive(ctx, true)
	if err != nil {
		t.Fatalf("Failed to get active users: %v", err)
	}

	if len(active) != 1 {
		t.Errorf("Expected 1 active user, got %d", len(active))
	}

	inactive, err := repo.GetByActive(ctx, false)
	if err != nil {
		t.Fatalf("Failed to get inactive users: %v", err)
	}

	if len(inactive) != 0 {
		t.Errorf("Expected 0 inactive users, got %d", len(inactive))
	}

	// Test Update
	user.Forename = "Updated"
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}

	updated, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to get updated user: %v", err)
	}

	if updated.Forename != "Updated" {
		t.Errorf("Expected updated forename 'Updated', got %s", updated.Forename)
	}

	// Test Count
	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}

	if count != 1 {
		t.Errorf("Expected count 1, got %d", count)
	}

	// Test Delete returns the removed row's last values
	deleted, err := repo.Delete(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}

	if deleted.Forename != "Updated" {
		t.Errorf("Expected deleted user forename 'Updated', got %s", deleted.Forename)
	}

	// Verify deletion
	if _, err = repo.GetByID(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for deleted user, got %v", err)
	}
}

func TestUserRepositoryInvalidCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	invalid := &models.User{Forename: "Only", Surname: "Partial"}
	err := repo.Create(ctx, invalid)
	if err == nil {
		t.Fatal("Expected validation error creating invalid user")
	}

	var verrs models.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected ValidationErrors, got %T: %v", err, err)
	}

	// Nothing must have been persisted
	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no users after failed create, got %d", count)
	}
}

func TestUserRepositoryNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	missing := validUser()
	missing.ID = 999

	if err := repo.Update(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound updating missing user, got %v", err)
	}

	if _, err := repo.Delete(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting missing user, got %v", err)
	}
}

func TestLogRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLogRepository(db)
	ctx := context.Background()

	// Test Create
	log := &models.Log{
		UserID:    1,
		CreatedAt: time.Date(2024, 3, 11, 13, 52, 36, 0, time.UTC),
		Type:      models.LogTypeCreated,
		Changes:   "Forename: Test",
	}
	if err := repo.Create(ctx, log); err != nil {
		t.Fatalf("Failed to create log: %v", err)
	}

	if log.ID == 0 {
		t.Error("Expected log ID to be set after creation")
	}

	other := &models.Log{
		UserID:    2,
		CreatedAt: time.Date(2024, 3, 11, 13, 52, 37, 0, time.UTC),
		Type:      models.LogTypeDeleted,
		Changes:   "Forename: Other",
	}
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Failed to create second log: %v", err)
	}

	// Test GetByID
	retrieved, err := repo.GetByID(ctx, log.ID)
	if err != nil {
		t.Fatalf("Failed to get log by ID: %v", err)
	}

	if retrieved.Type != models.LogTypeCreated {
		t.Errorf("Expected type %q, got %q", models.LogTypeCreated, retrieved.Type)
	}

	// Test GetAll
	logs, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("Failed to get all logs: %v", err)
	}

	if len(logs) != 2 {
		t.Errorf("Expected 2 logs, got %d", len(logs))
	}

	// Test GetByType
	created, err := repo.GetByType(ctx, models.LogTypeCreated)
	if err != nil {
		t.Fatalf("Failed to get logs by type: %v", err)
	}

	if len(created) != 1 || created[0].ID != log.ID {
		t.Errorf("Expected only the creation log, got %v", created)
	}

	// Type matching is exact and case-sensitive
	none, err := repo.GetByType(ctx, "created user")
	if err != nil {
		t.Fatalf("Failed to get logs by lowercase type: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no logs for lowercase type, got %d", len(none))
	}

	// Test GetByUserID
	forUser, err := repo.GetByUserID(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to get logs by user: %v", err)
	}

	if len(forUser) != 1 || forUser[0].ID != other.ID {
		t.Errorf("Expected only the second user's log, got %v", forUser)
	}

	// Test GetByID for missing log
	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing log, got %v", err)
	}

	// Test Count
	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count logs: %v", err)
	}

	if count != 2 {
		t.Errorf("Expected count 2, got %d", count)
	}
}

func TestResetAndReseed(t *testing.T) {
	db := setupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	// Dirty the store first
	extra := validUser()
	if err := repos.Users.Create(ctx, extra); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	// Reseeding twice must yield the identical dataset both times
	for i := 0; i < 2; i++ {
		if err := repos.ResetAndReseed(ctx); err != nil {
			t.Fatalf("Failed to reset and reseed (run %d): %v", i+1, err)
		}

		users, err := repos.Users.GetAll(ctx)
		if err != nil {
			t.Fatalf("Failed to get all users: %v", err)
		}

		seedUsers := SeedUsers()
		if len(users) != len(seedUsers) {
			t.Fatalf("Expected %d users, got %d", len(seedUsers), len(users))
		}

		for j, want := range seedUsers {
			got := users[j]
			if got.ID != want.ID || got.Forename != want.Forename || got.Surname != want.Surname ||
				got.Email != want.Email || !got.DateOfBirth.Equal(want.DateOfBirth) || got.IsActive != want.IsActive {
				t.Errorf("Seed user %d mismatch: got %+v, want %+v", want.ID, got, want)
			}
		}

		logs, err := repos.Logs.GetAll(ctx)
		if err != nil {
			t.Fatalf("Failed to get all logs: %v", err)
		}

		seedLogs := SeedLogs()
		if len(logs) != len(seedLogs) {
			t.Fatalf("Expected %d logs, got %d", len(seedLogs), len(logs))
		}

		for j, want := range seedLogs {
			got := logs[j]
			if got.ID != want.ID || got.UserID != want.UserID || got.Type != want.Type ||
				got.Changes != want.Changes || !got.CreatedAt.Equal(want.CreatedAt) {
				t.Errorf("Seed log %d mismatch: got %+v, want %+v", want.ID, got, want)
			}
		}
	}

	// Auto-increment must continue from the reseeded max ids
	next := validUser()
	if err := repos.Users.Create(ctx, next); err != nil {
		t.Fatalf("Failed to create user after reseed: %v", err)
	}
	if next.ID != 12 {
		t.Errorf("Expected next user id 12 after reseed, got %d", next.ID)
	}

	nextLog := &models.Log{UserID: next.ID, CreatedAt: time.Now(), Type: models.LogTypeCreated, Changes: "Changes"}
	if err := repos.Logs.Create(ctx, nextLog); err != nil {
		t.Fatalf("Failed to create log after reseed: %v", err)
	}
	if nextLog.ID != 16 {
		t.Errorf("Expected next log id 16 after reseed, got %d", nextLog.ID)
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	failure := errors.New("boom")
	err := repos.InTx(ctx, func(txRepos *Repositories) error {
		if err := txRepos.Users.Create(ctx, validUser()); err != nil {
			return err
		}
		return failure
	})

	if !errors.Is(err, failure) {
		t.Fatalf("Expected the callback error to propagate, got %v", err)
	}

	count, err := repos.Users.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected rollback to leave no users, got %d", count)
	}
}
