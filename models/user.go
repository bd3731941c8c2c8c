package models

import (
	"time"
)

// User represents a managed user account
type User struct {
	ID          int64     `json:"id" db:"id"`
	Forename    string    `json:"forename" db:"forename"`
	Surname     string    `json:"surname" db:"surname"`
	Email       string    `json:"email" db:"email"`
	DateOfBirth time.Time `json:"date_of_birth" db:"date_of_birth"`
	IsActive    bool      `json:"is_active" db:"is_active"`
}

// FullName returns the user's forename and surname combined
func (u *User) FullName() string {
	return u.Forename + " " + u.Surname
}

// GetFormattedDateOfBirth returns the date of birth in YYYY-MM-DD format
func (u *User) GetFormattedDateOfBirth() string {
	return u.DateOfBirth.Format("2006-01-02")
}

// Validate checks the user entity invariants. Records failing these checks
// must never reach the store.
func (u *User) Validate() ValidationErrors {
	var errors ValidationErrors

	if u.Forename == "" {
		errors = append(errors, ValidationError{Field: "forename", Message: "Forename is required"})
	}

	if u.Surname == "" {
		errors = append(errors, ValidationError{Field: "surname", Message: "Surname is required"})
	}

	if u.Email == "" {
		errors = append(errors, ValidationError{Field: "email", Message: "Email is required"})
	} else if !isValidEmail(u.Email) {
		errors = append(errors, ValidationError{Field: "email", Message: "Email format is invalid"})
	}

	if u.DateOfBirth.IsZero() {
		errors = append(errors, ValidationError{Field: "date_of_birth", Message: "Date of birth is required"})
	} else if u.DateOfBirth.Year() <= minimumBirthYear {
		errors = append(errors, ValidationError{Field: "date_of_birth", Message: "Date of birth must be past the year 1900"})
	}

	return errors
}

// minimumBirthYear is the inclusive upper bound for rejected birth years
const minimumBirthYear = 1900

// UserForm represents form data for creating/updating users
type UserForm struct {
	Forename    string `json:"forename"`
	Surname     string `json:"surname"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth"` // "2006-01-02" format
	IsActive    bool   `json:"is_active"`
}

// Validate validates the user form data
func (f *UserForm) Validate() ValidationErrors {
	var errors ValidationErrors

	if f.Forename == "" {
		errors = append(errors, ValidationError{Field: "forename", Message: "Forename is required"})
	}

	if f.Surname == "" {
		errors = append(errors, ValidationError{Field: "surname", Message: "Surname is required"})
	}

	if f.Email == "" {
		errors = append(errors, ValidationError{Field: "email", Message: "Email is required"})
	} else if !isValidEmail(f.Email) {
		errors = append(errors, ValidationError{Field: "email", Message: "Email format is invalid"})
	}

	if f.DateOfBirth == "" {
		errors = append(errors, ValidationError{Field: "date_of_birth", Message: "Date of birth is required"})
	} else {
		dob, err := ParseDate(f.DateOfBirth)
		switch {
		case err != nil:
			errors = append(errors, ValidationError{Field: "date_of_birth", Message: "Date of birth must be in YYYY-MM-DD format"})
		case dob.Year() <= minimumBirthYear:
			errors = append(errors, ValidationError{Field: "date_of_birth", Message: "Date of birth must be past the year 1900"})
		}
	}

	return errors
}

// ToUser converts validated form data into a User entity. Call Validate
// first; an unparseable date of birth comes back as the zero time here.
func (f *UserForm) ToUser() *User {
	dob, _ := ParseDate(f.DateOfBirth)
	return &User{
		Forename:    trimmed(f.Forename),
		Surname:     trimmed(f.Surname),
		Email:       trimmed(f.Email),
		DateOfBirth: dob,
		IsActive:    f.IsActive,
	}
}

// isValidEmail performs basic email validation
func isValidEmail(email string) bool {
	// Simple validation: must contain @ and at least one dot after @
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			if atIndex != -1 {
				return false // Multiple @ symbols
			}
			atIndex = i
		}
	}

	if atIndex == -1 || atIndex == 0 || atIndex == len(email)-1 {
		return false // No @, or @ at start/end
	}

	// Check for dot after @
	for i := atIndex + 1; i < len(email); i++ {
		if email[i] == '.' && i < len(email)-1 {
			return true
		}
	}

	return false
}
