package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blogem/user-management/models"
)

// UserRepository interface defines user database operations
type UserRepository interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByActive(ctx context.Context, isActive bool) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

// userRepository implements UserRepository interface
type userRepository struct {
	db DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

const userColumns = "id, forename, surname, email, date_of_birth, is_active"

// GetAll retrieves all users in id order
func (r *userRepository) GetAll(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByActive retrieves users filtered by their active flag
func (r *userRepository) GetByActive(ctx context.Context, isActive bool) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active = ? ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, isActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by active state: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// Create persists a new user and assigns its ID. The entity invariants are
// re-checked here so an invalid user never reaches the table.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if errs := user.Validate(); errs.HasErrors() {
		return errs
	}

	query := `
		INSERT INTO users (forename, surname, email, date_of_birth, is_active)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Forename,
		user.Surname,
		user.Email,
		models.FormatDate(user.DateOfBirth),
		user.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	// Get the inserted ID
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	user.ID = id
	return nil
}

// Update replaces the stored field values of the user with the given ID
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if errs := user.Validate(); errs.HasErrors() {
		return errs
	}

	query := `
		UPDATE users
		SET forename = ?, surname = ?, email = ?, date_of_birth = ?, is_active = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Forename,
		user.Surname,
		user.Email,
		models.FormatDate(user.DateOfBirth),
		user.IsActive,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user with ID %d: %w", user.ID, ErrNotFound)
	}

	return nil
}

// Delete removes a user by ID and returns the removed row's last values
func (r *userRepository) Delete(ctx context.Context, id int64) (*models.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
	}

	return user, nil
}

// Count returns the total number of users
func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

// scanUser scans a single user row, converting the stored date text
func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var dateOfBirth string

	err := row.Scan(
		&user.ID,
		&user.Forename,
		&user.Surname,
		&user.Email,
		&dateOfBirth,
		&user.IsActive,
	)
	if err != nil {
		return nil, err
	}

	user.DateOfBirth, err = models.ParseDate(dateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored date of birth: %w", err)
	}

	return &user, nil
}

// scanUsers scans all rows of a user query
func scanUsers(rows *sql.Rows) ([]models.User, error) {
	var users []models.User
	for rows.Next() {
		var user models.User
		var dateOfBirth string

		err := rows.Scan(
			&user.ID,
			&user.Forename,
			&user.Surname,
			&user.Email,
			&dateOfBirth,
			&user.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		user.DateOfBirth, err = models.ParseDate(dateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored date of birth: %w", err)
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
