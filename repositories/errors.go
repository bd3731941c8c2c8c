package repositories

import "errors"

// ErrNotFound is returned when an update, delete or id lookup targets a
// record that does not exist. Callers check it with errors.Is; any other
// error from a repository is an underlying store failure.
var ErrNotFound = errors.New("record not found")

// IsNotFound reports whether err wraps ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
