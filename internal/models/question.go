package models

import (
	"time"

	"gorm.io/gorm"
)

// Question represents a question posted to the forum.
//
// AuthorName and AuthorAvatar are copied from the author at write time so
// list pages render without a join; they go stale if the author later edits
// their profile, which is an accepted tradeoff.
type Question struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	// Code is an optional fenced snippet shown below the description.
	Code         string `gorm:"type:text" json:"code,omitempty"`
	AuthorID     uint   `gorm:"not null;index" json:"author_id"`
	Author       User   `gorm:"foreignKey:AuthorID" json:"author"`
	AuthorName   string `json:"author_name"`
	AuthorAvatar string `json:"author_avatar"`
	// Votes is the persisted tally; it is only ever mutated through atomic
	// increments and may be negative.
	Votes        int            `gorm:"not null;default:0" json:"votes"`
	AnswersCount int            `gorm:"not null;default:0" json:"answers_count"`
	Views        int            `gorm:"not null;default:0" json:"views"`
	Tags         []Tag          `gorm:"many2many:question_tags" json:"tags"`
	Answers      []Answer       `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	// UserVote is the requesting user's current vote direction on this
	// question ("up", "down" or empty); computed at query time.
	UserVote string `gorm:"->" json:"user_vote,omitempty"`
}
