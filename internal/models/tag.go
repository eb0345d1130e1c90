package models

// Tag is a normalized (lowercased, trimmed) topic label attached to
// questions through the question_tags join table.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
	// QuestionsCount is not persisted; computed at query time.
	QuestionsCount int `gorm:"->" json:"questions_count,omitempty"`
}
