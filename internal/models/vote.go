package models

import "time"

// Vote directions.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// Content types a vote can target.
const (
	ContentQuestion = "question"
	ContentAnswer   = "answer"
)

// Vote is the per-user, per-item ledger entry recording a cast vote's
// direction. The unique index guarantees at most one row per
// (user, content type, content id); the referenced item's tally must always
// equal the sum of its ledger directions.
type Vote struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_votes_user_content" json:"user_id"`
	ContentType string    `gorm:"not null;uniqueIndex:idx_votes_user_content" json:"content_type"`
	ContentID   uint      `gorm:"not null;uniqueIndex:idx_votes_user_content" json:"content_id"`
	Direction   string    `gorm:"not null" json:"direction"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidDirection reports whether d is an allowed vote direction.
func ValidDirection(d string) bool {
	return d == VoteUp || d == VoteDown
}

// ValidContentType reports whether t is a votable content type.
func ValidContentType(t string) bool {
	return t == ContentQuestion || t == ContentAnswer
}
