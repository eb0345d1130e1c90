package repository

import (
	"context"

	"stackit/internal/cache"
	"stackit/internal/models"
	"stackit/internal/validation"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository defines read operations over the tag vocabulary.
type TagRepository interface {
	ListWithCounts(ctx context.Context) ([]models.Tag, error)
	GetByName(ctx context.Context, name string) (*models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository returns a new TagRepository implementation.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// ensureTags resolves tag names to rows, creating missing ones. Names are
// normalized first so "Go" and "go" map to the same tag. Runs inside the
// caller's transaction.
func ensureTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	normalized := validation.NormalizeTags(names)
	if len(normalized) == 0 {
		return nil, nil
	}

	rows := make([]models.Tag, len(normalized))
	for i, name := range normalized {
		rows[i] = models.Tag{Name: name}
	}
	// ON CONFLICT DO NOTHING keeps concurrent creates race-free.
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error; err != nil {
		return nil, err
	}

	var resolved []models.Tag
	if err := tx.Where("name IN ?", normalized).Find(&resolved).Error; err != nil {
		return nil, err
	}
	return resolved, nil
}

func (r *tagRepository) ListWithCounts(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := cache.Aside(ctx, cache.TagListKey(), &tags, cache.TagListTTL, func() error {
		return readDB(r.db).WithContext(ctx).
			Select("tags.*, (SELECT COUNT(*) FROM question_tags WHERE question_tags.tag_id = tags.id) as questions_count").
			Order("questions_count DESC, name ASC").
			Find(&tags).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := readDB(r.db).WithContext(ctx).
		Where("name = ?", validation.NormalizeTag(name)).
		First(&tag).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("Tag", name)
		}
		return nil, models.NewInternalError(err)
	}
	return &tag, nil
}
