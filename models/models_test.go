package models

import (
	"testing"
	"time"
)

// Test UserForm validation
func TestUserFormValidation(t *testing.T) {
	// Test valid form
	validForm := UserForm{
		Forename:    "Peter",
		Surname:     "Loew",
		Email:       "ploew@example.com",
		DateOfBirth: "1985-01-15",
		IsActive:    true,
	}
	errors := validForm.Validate()
	if len(errors) != 0 {
		t.Errorf("Expected no errors for valid form, got: %v", errors)
	}

	// Test form with everything missing
	emptyForm := UserForm{}
	errors = emptyForm.Validate()
	if len(errors) != 4 {
		t.Errorf("Expected 4 errors for empty form, got: %v", errors)
	}

	// Test invalid email
	badEmailForm := validForm
	badEmailForm.Email = "not-an-email"
	errors = badEmailForm.Validate()
	if len(errors) != 1 || errors[0].Field != "email" {
		t.Errorf("Expected a single email error, got: %v", errors)
	}

	// Test unparseable date of birth
	badDateForm := validForm
	badDateForm.DateOfBirth = "15/01/1985"
	errors = badDateForm.Validate()
	if len(errors) != 1 || errors[0].Field != "date_of_birth" {
		t.Errorf("Expected a single date of birth error, got: %v", errors)
	}

	// Test birth year at and below the 1900 threshold
	for _, dob := range []string{"1900-12-31", "1850-06-01"} {
		oldDateForm := validForm
		oldDateForm.DateOfBirth = dob
		errors = oldDateForm.Validate()
		if len(errors) != 1 {
			t.Errorf("Expected %s to be rejected, got: %v", dob, errors)
		}
	}

	// 1901 is the first accepted birth year
	boundaryForm := validForm
	boundaryForm.DateOfBirth = "1901-01-01"
	if errors = boundaryForm.Validate(); len(errors) != 0 {
		t.Errorf("Expected 1901-01-01 to be accepted, got: %v", errors)
	}
}

// Test User entity validation mirrors the form rules
func TestUserValidation(t *testing.T) {
	validUser := User{
		Forename:    "Peter",
		Surname:     "Loew",
		Email:       "ploew@example.com",
		DateOfBirth: time.Date(1985, 1, 15, 0, 0, 0, 0, time.UTC),
		IsActive:    true,
	}
	if errors := validUser.Validate(); len(errors) != 0 {
		t.Errorf("Expected no errors for valid user, got: %v", errors)
	}

	// Zero date of birth must be rejected
	zeroDOB := validUser
	zeroDOB.DateOfBirth = time.Time{}
	if errors := zeroDOB.Validate(); len(errors) != 1 {
		t.Errorf("Expected zero date of birth to be rejected, got: %v", errors)
	}

	invalidUser := User{Email: "missing-everything"}
	errors := invalidUser.Validate()
	if len(errors) != 4 {
		t.Errorf("Expected 4 errors for invalid user, got: %v", errors)
	}
}

// Test form to entity conversion
func TestUserFormToUser(t *testing.T) {
	form := UserForm{
		Forename:    "  Peter ",
		Surname:     "Loew",
		Email:       " ploew@example.com ",
		DateOfBirth: "1985-01-15",
		IsActive:    true,
	}

	user := form.ToUser()
	if user.Forename != "Peter" {
		t.Errorf("Expected trimmed forename 'Peter', got %q", user.Forename)
	}
	if user.Email != "ploew@example.com" {
		t.Errorf("Expected trimmed email, got %q", user.Email)
	}
	expected := time.Date(1985, 1, 15, 0, 0, 0, 0, time.UTC)
	if !user.DateOfBirth.Equal(expected) {
		t.Errorf("Expected date of birth %v, got %v", expected, user.DateOfBirth)
	}
	if !user.IsActive {
		t.Error("Expected active flag to carry over")
	}
}

// Test email validation
func TestEmailValidation(t *testing.T) {
	validEmails := []string{"a@b.co", "ploew@example.com", "first.last@sub.domain.org"}
	for _, email := range validEmails {
		if !isValidEmail(email) {
			t.Errorf("Expected %s to be valid email", email)
		}
	}

	invalidEmails := []string{"", "plainaddress", "@example.com", "user@", "user@@example.com", "user@nodot"}
	for _, email := range invalidEmails {
		if isValidEmail(email) {
			t.Errorf("Expected %s to be invalid email", email)
		}
	}
}

// Test log change lines helper
func TestLogChangeLines(t *testing.T) {
	log := Log{
		Type:    LogTypeCreated,
		Changes: "Forename: Peter\nSurname: Loew\nEmail: ploew@example.com\nDate Of Birth: 01/15/1985",
	}

	lines := log.ChangeLines()
	if len(lines) != 4 {
		t.Fatalf("Expected 4 change lines, got %d", len(lines))
	}
	if lines[0] != "Forename: Peter" {
		t.Errorf("Expected first line 'Forename: Peter', got %q", lines[0])
	}
}

// Test date utilities
func TestDateUtilities(t *testing.T) {
	parsed, err := ParseDate("1985-01-15")
	if err != nil {
		t.Fatalf("Failed to parse date: %v", err)
	}

	if FormatDate(parsed) != "1985-01-15" {
		t.Errorf("Expected round-trip '1985-01-15', got %s", FormatDate(parsed))
	}

	if _, err := ParseDate("not-a-date"); err == nil {
		t.Error("Expected error parsing invalid date")
	}
}
