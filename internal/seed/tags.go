package seed

import (
	"fmt"

	"stackit/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInTags defines the canonical tag set every deployment starts with.
// Seeded questions only ever draw from this pool.
var BuiltInTags = []string{
	"javascript", "typescript", "python", "go", "rust", "java",
	"react", "vue", "sql", "postgresql", "redis", "docker",
	"kubernetes", "linux", "git", "testing", "websocket", "rest-api",
	"performance", "security", "concurrency", "debugging",
}

// Tags seeds the built-in tags, leaving already existing rows untouched.
func Tags(db *gorm.DB) error {
	for _, name := range BuiltInTags {
		tag := models.Tag{Name: name}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&tag).Error
		if err != nil {
			return fmt.Errorf("seed built-in tag %s: %w", name, err)
		}
	}
	return nil
}
