// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"stackit/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tunes factory behaviour.
type SeedOptions struct {
	// SkipBcrypt stores a plaintext password instead of hashing. Dev fast
	// mode only; never usable for login against a real server.
	SkipBcrypt bool
	// DryRun builds entities and assigns synthetic IDs without touching
	// the database.
	DryRun bool
	// MaxDays bounds the created_at spread of generated content.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Username, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildQuestion constructs a question for the given author without
// persisting it. Useful for batching.
func (f *Factory) BuildQuestion(author *models.User, overrides ...func(*models.Question)) *models.Question {
	question := &models.Question{
		Title:        gofakeit.Question(),
		Description:  gofakeit.Paragraph(1, 3, 8, "\n"),
		AuthorID:     author.ID,
		AuthorName:   author.Username,
		AuthorAvatar: author.Avatar,
	}

	// roughly a third of questions carry a code snippet
	if gofakeit.Number(0, 2) == 0 {
		question.Code = fmt.Sprintf("func %s() error {\n\treturn nil\n}", gofakeit.Word())
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	question.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(question)
	}
	return question
}

// CreateQuestion constructs and persists a question tagged with the given
// tag names. Tags must already exist; use Tags or EnsureTags first.
func (f *Factory) CreateQuestion(author *models.User, tagNames []string, overrides ...func(*models.Question)) (*models.Question, error) {
	question := f.BuildQuestion(author, overrides...)

	if f.opts.DryRun {
		f.nextID++
		question.ID = f.nextID
		log.Printf("[dry-run] CreateQuestion: author=%d title=%q tags=%v", question.AuthorID, question.Title, tagNames)
		return question, nil
	}

	if len(tagNames) > 0 {
		var tags []models.Tag
		if err := f.db.Where("name IN ?", tagNames).Find(&tags).Error; err != nil {
			return nil, err
		}
		question.Tags = tags
	}

	if err := f.db.Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

// CreateAnswer constructs and persists an answer on the provided question
// authored by the provided user, keeping the question's answers_count in
// step.
func (f *Factory) CreateAnswer(author *models.User, question *models.Question, overrides ...func(*models.Answer)) (*models.Answer, error) {
	answer := &models.Answer{
		QuestionID:   question.ID,
		Content:      gofakeit.Paragraph(1, 2, 6, "\n"),
		AuthorID:     author.ID,
		AuthorName:   author.Username,
		AuthorAvatar: author.Avatar,
	}

	for _, override := range overrides {
		override(answer)
	}

	if f.opts.DryRun {
		f.nextID++
		answer.ID = f.nextID
		log.Printf("[dry-run] CreateAnswer: question=%d author=%d", answer.QuestionID, answer.AuthorID)
		return answer, nil
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(answer).Error; err != nil {
			return err
		}
		return tx.Model(&models.Question{}).Where("id = ?", question.ID).
			UpdateColumn("answers_count", gorm.Expr("answers_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return answer, nil
}

// CastVote records a ledger entry from `user` on the given content and
// bumps the target's tally so the tally stays equal to the ledger sum.
func (f *Factory) CastVote(user *models.User, contentType string, contentID uint, direction string) error {
	value := 1
	if direction == models.VoteDown {
		value = -1
	}

	table := "questions"
	if contentType == models.ContentAnswer {
		table = "answers"
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CastVote: user=%d %s/%d %s", user.ID, contentType, contentID, direction)
		return nil
	}

	return f.db.Transaction(func(tx *gorm.DB) error {
		vote := &models.Vote{
			UserID:      user.ID,
			ContentType: contentType,
			ContentID:   contentID,
			Direction:   direction,
		}
		if err := tx.Create(vote).Error; err != nil {
			return err
		}
		return tx.Table(table).Where("id = ?", contentID).
			UpdateColumn("votes", gorm.Expr("votes + ?", value)).Error
	})
}

// AcceptAnswer marks the answer accepted and awards the acceptance
// reputation bonus to its author.
func (f *Factory) AcceptAnswer(answer *models.Answer) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] AcceptAnswer: answer=%d", answer.ID)
		return nil
	}

	return f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Answer{}).Where("id = ?", answer.ID).
			Update("is_accepted", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", answer.AuthorID).
			UpdateColumn("reputation", gorm.Expr("reputation + ?", models.AcceptedAnswerReputation)).Error
	})
}

// CreateNotification persists an answer notification for the question
// author.
func (f *Factory) CreateNotification(question *models.Question, answer *models.Answer, sender *models.User) error {
	notification := &models.Notification{
		RecipientID:   question.AuthorID,
		SenderID:      sender.ID,
		SenderName:    sender.Username,
		Type:          models.NotificationNewAnswer,
		QuestionID:    question.ID,
		QuestionTitle: question.Title,
		AnswerID:      answer.ID,
		Read:          gofakeit.Bool(),
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateNotification: recipient=%d question=%d", notification.RecipientID, notification.QuestionID)
		return nil
	}

	return f.db.Create(notification).Error
}
