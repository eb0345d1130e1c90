package models

import (
	"time"

	"gorm.io/gorm"
)

// AcceptedAnswerReputation is the reputation an answer's author holds while
// their answer is the accepted one. It is granted on accept and taken back
// when acceptance moves away or the answer disappears.
const AcceptedAnswerReputation = 15

// Answer represents an answer to a question. At most one answer per question
// carries IsAccepted = true; the repository enforces this inside the accept
// transaction rather than with a storage constraint.
type Answer struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	QuestionID   uint           `gorm:"not null;index" json:"question_id"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	Code         string         `gorm:"type:text" json:"code,omitempty"`
	AuthorID     uint           `gorm:"not null;index" json:"author_id"`
	Author       User           `gorm:"foreignKey:AuthorID" json:"author"`
	AuthorName   string         `json:"author_name"`
	AuthorAvatar string         `json:"author_avatar"`
	Votes        int            `gorm:"not null;default:0" json:"votes"`
	IsAccepted   bool           `gorm:"not null;default:false" json:"is_accepted"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	// UserVote is the requesting user's current vote direction on this
	// answer; computed at query time.
	UserVote string `gorm:"->" json:"user_vote,omitempty"`
}
