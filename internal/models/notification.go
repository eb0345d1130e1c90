package models

import "time"

// Notification types.
const (
	NotificationNewAnswer = "new_answer"
)

// Notification is appended when someone other than the question author posts
// an answer. SenderName and QuestionTitle are denormalized at write time so
// the notification feed renders without extra lookups. Read only ever flips
// from false to true.
type Notification struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RecipientID   uint      `gorm:"not null;index" json:"recipient_id"`
	SenderID      uint      `gorm:"not null" json:"sender_id"`
	SenderName    string    `json:"sender_name"`
	Type          string    `gorm:"not null" json:"type"`
	QuestionID    uint      `gorm:"not null;index" json:"question_id"`
	QuestionTitle string    `json:"question_title"`
	AnswerID      uint      `json:"answer_id"`
	Read          bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt     time.Time `json:"created_at"`
}
