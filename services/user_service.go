package services

import (
	"context"
	"fmt"
	"time"

	"github.com/blogem/user-management/models"
	"github.com/blogem/user-management/repositories"
)

// UserService interface defines user management business logic. Every
// mutation writes exactly one audit log entry, committed in the same
// transaction as the user write.
type UserService interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
	FilterByActive(ctx context.Context, isActive bool) ([]models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, form *models.UserForm) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, form *models.UserForm) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) (*models.User, error)
}

// userService implements UserService interface
type userService struct {
	repos *repositories.Repositories
}

// NewUserService creates a new user service. It takes the repository
// aggregate rather than individual repositories because mutations span the
// user and log tables in one transaction.
func NewUserService(repos *repositories.Repositories) UserService {
	return &userService{repos: repos}
}

// GetAllUsers retrieves all users
func (s *userService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.repos.Users.GetAll(ctx)
}

// FilterByActive retrieves users by their active state
func (s *userService) FilterByActive(ctx context.Context, isActive bool) ([]models.User, error) {
	return s.repos.Users.GetByActive(ctx, isActive)
}

// GetUserByID looks a user up by ID. A missing user is an absent result,
// not an error: callers get (nil, nil).
func (s *userService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// CreateUser validates and persists a new user together with its
// "Created User" log entry
func (s *userService) CreateUser(ctx context.Context, form *models.UserForm) (*models.User, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	user := form.ToUser()

	err := s.repos.InTx(ctx, func(txRepos *repositories.Repositories) error {
		if err := txRepos.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		log := &models.Log{
			UserID:    user.ID,
			CreatedAt: time.Now(),
			Type:      models.LogTypeCreated,
			Changes:   fieldChanges(user),
		}
		if err := txRepos.Logs.Create(ctx, log); err != nil {
			return fmt.Errorf("failed to log user creation: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateUser validates and applies new field values to an existing user,
// logging each field's old and new value
func (s *userService) UpdateUser(ctx context.Context, id int64, form *models.UserForm) (*models.User, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	user := form.ToUser()
	user.ID = id

	err := s.repos.InTx(ctx, func(txRepos *repositories.Repositories) error {
		existing, err := txRepos.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := txRepos.Users.Update(ctx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		log := &models.Log{
			UserID:    user.ID,
			CreatedAt: time.Now(),
			Type:      models.LogTypeUpdated,
			Changes:   fieldTransitions(existing, user),
		}
		if err := txRepos.Logs.Create(ctx, log); err != nil {
			return fmt.Errorf("failed to log user update: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes a user and logs the removed record's field values
func (s *userService) DeleteUser(ctx context.Context, id int64) (*models.User, error) {
	var deleted *models.User

	err := s.repos.InTx(ctx, func(txRepos *repositories.Repositories) error {
		user, err := txRepos.Users.Delete(ctx, id)
		if err != nil {
			return err
		}
		deleted = user

		log := &models.Log{
			UserID:    user.ID,
			CreatedAt: time.Now(),
			Type:      models.LogTypeDeleted,
			Changes:   fieldChanges(user),
		}
		if err := txRepos.Logs.Create(ctx, log); err != nil {
			return fmt.Errorf("failed to log user deletion: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return deleted, nil
}

// dobLayout is the MM/dd/yyyy format used in log change summaries
const dobLayout = "01/02/2006"

// fieldChanges renders a user's field values, one per line, for creation
// and deletion logs
func fieldChanges(u *models.User) string {
	return fmt.Sprintf(
		"Forename: %s\nSurname: %s\nEmail: %s\nDate Of Birth: %s",
		u.Forename,
		u.Surname,
		u.Email,
		u.DateOfBirth.Format(dobLayout),
	)
}

// fieldTransitions renders old and new field values, one field per line,
// for update logs
func fieldTransitions(old, updated *models.User) string {
	return fmt.Sprintf(
		"Forename: %s set to %s\nSurname: %s set to %s\nEmail: %s set to %s\nDate Of Birth: %s set to %s",
		old.Forename, updated.Forename,
		old.Surname, updated.Surname,
		old.Email, updated.Email,
		old.DateOfBirth.Format(dobLayout), updated.DateOfBirth.Format(dobLayout),
	)
}
