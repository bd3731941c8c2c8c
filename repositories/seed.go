package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/blogem/user-management/models"
)

// Fixed sample dataset used for first-run initialization and for resetting
// the store to a known state. ResetAndReseed reproduces it exactly, ids
// included, every time it runs.

// SeedUsers returns the fixed sample users, ids 1-11
func SeedUsers() []models.User {
	return []models.User{
		{ID: 1, Forename: "Peter", Surname: "Loew", Email: "ploew@example.com", DateOfBirth: date(1985, 1, 15), IsActive: true},
		{ID: 2, Forename: "Benjamin Franklin", Surname: "Gates", Email: "bfgates@example.com", DateOfBirth: date(1990, 3, 27), IsActive: true},
		{ID: 3, Forename: "Castor", Surname: "Troy", Email: "ctroy@example.com", DateOfBirth: date(1976, 6, 8), IsActive: false},
		{ID: 4, Forename: "Memphis", Surname: "Raines", Email: "mraines@example.com", DateOfBirth: date(2002, 9, 5), IsActive: true},
		{ID: 5, Forename: "Stanley", Surname: "Goodspeed", Email: "sgodspeed@example.com", DateOfBirth: date(1995, 12, 20), IsActive: true},
		{ID: 6, Forename: "H.I.", Surname: "McDunnough", Email: "himcdunnough@example.com", DateOfBirth: date(2005, 1, 23), IsActive: true},
		{ID: 7, Forename: "Cameron", Surname: "Poe", Email: "cpoe@example.com", DateOfBirth: date(1998, 4, 10), IsActive: false},
		{ID: 8, Forename: "Edward", Surname: "Malus", Email: "emalus@example.com", DateOfBirth: date(1980, 7, 3), IsActive: false},
		{ID: 9, Forename: "Damon", Surname: "Macready", Email: "dmacready@example.com", DateOfBirth: date(2005, 11, 18), IsActive: false},
		{ID: 10, Forename: "Johnny", Surname: "Blaze", Email: "jblaze@example.com", DateOfBirth: date(1972, 2, 28), IsActive: true},
		{ID: 11, Forename: "Robin", Surname: "Feld", Email: "rfeld@example.com", DateOfBirth: date(1993, 9, 15), IsActive: true},
	}
}

// SeedLogs returns the fixed sample logs, ids 1-15: one creation log per
// seeded user plus two update and two deletion logs
func SeedLogs() []models.Log {
	logs := make([]models.Log, 0, 15)
	for i := int64(1); i <= 11; i++ {
		logs = append(logs, models.Log{
			ID:        i,
			UserID:    i,
			CreatedAt: seedTime(int(i) - 1),
			Type:      models.LogTypeCreated,
			Changes:   "Changes",
		})
	}
	logs = append(logs,
		models.Log{ID: 12, UserID: 3, CreatedAt: seedTime(0), Type: models.LogTypeUpdated, Changes: "Changes for Update"},
		models.Log{ID: 13, UserID: 4, CreatedAt: seedTime(0), Type: models.LogTypeUpdated, Changes: "Changes for Update"},
		models.Log{ID: 14, UserID: 5, CreatedAt: seedTime(0), Type: models.LogTypeDeleted, Changes: "Changes for Deletion"},
		models.Log{ID: 15, UserID: 6, CreatedAt: seedTime(0), Type: models.LogTypeDeleted, Changes: "Changes for Deletion"},
	)
	return logs
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// seedTime returns the fixed base timestamp offset by the given seconds
func seedTime(offsetSeconds int) time.Time {
	return time.Date(2024, 3, 11, 13, 52, 36+offsetSeconds, 0, time.UTC)
}

// ResetAndReseed clears both tables and repopulates them with the seed
// dataset in one transaction, then realigns the auto-increment counters
// with the reseeded max ids.
func (r *Repositories) ResetAndReseed(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := reseed(ctx, tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reseed: %w", err)
	}

	return nil
}

func reseed(ctx context.Context, tx DBTX) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM logs`); err != nil {
		return fmt.Errorf("failed to clear logs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}

	insertUser := `
		INSERT INTO users (id, forename, surname, email, date_of_birth, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, user := range SeedUsers() {
		_, err := tx.ExecContext(ctx, insertUser,
			user.ID,
			user.Forename,
			user.Surname,
			user.Email,
			models.FormatDate(user.DateOfBirth),
			user.IsActive,
		)
		if err != nil {
			return fmt.Errorf("failed to seed user %d: %w", user.ID, err)
		}
	}

	insertLog := `
		INSERT INTO logs (id, user_id, created_at, type, changes)
		VALUES (?, ?, ?, ?, ?)
	`
	for _, log := range SeedLogs() {
		_, err := tx.ExecContext(ctx, insertLog,
			log.ID,
			log.UserID,
			log.CreatedAt,
			log.Type,
			log.Changes,
		)
		if err != nil {
			return fmt.Errorf("failed to seed log %d: %w", log.ID, err)
		}
	}

	// A previous run may have advanced the counters past the seed ids;
	// pull them back so the next insert continues from the seeded max
	resetSequence := `UPDATE sqlite_sequence SET seq = ? WHERE name = ?`
	if _, err := tx.ExecContext(ctx, resetSequence, len(SeedUsers()), "users"); err != nil {
		return fmt.Errorf("failed to reset users sequence: %w", err)
	}
	if _, err := tx.ExecContext(ctx, resetSequence, len(SeedLogs()), "logs"); err != nil {
		return fmt.Errorf("failed to reset logs sequence: %w", err)
	}

	return nil
}
