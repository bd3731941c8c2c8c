package models

import "time"

// Log type values produced by user mutations
const (
	LogTypeCreated = "Created User"
	LogTypeUpdated = "Updated User"
	LogTypeDeleted = "Deleted User"
)

// Log represents a single audit log entry describing a user mutation.
// Entries are written once, alongside the mutation they document, and are
// never updated or deleted afterwards. UserID is a plain reference: the
// user it points at may have been deleted since.
type Log struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Type      string    `json:"type" db:"type"`
	Changes   string    `json:"changes" db:"changes"`
}

// GetFormattedCreatedAt returns the creation timestamp as YYYY-MM-DD HH:MM
func (l *Log) GetFormattedCreatedAt() string {
	return FormatDateTime(l.CreatedAt)
}

// ChangeLines splits the changes text into its individual field lines
func (l *Log) ChangeLines() []string {
	return splitLines(l.Changes)
}
