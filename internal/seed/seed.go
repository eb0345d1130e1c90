package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"stackit/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, SeedOptions{})}
}

// ClearAll removes all seeded content. Destructive; development only.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE votes, notifications, answers, question_tags, questions, tags, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// SeedCommunity creates the base accounts plus `count` generated users and
// returns them all.
func (s *Seeder) SeedCommunity(count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// Always include some specific users for consistency if cleaning
	if count >= 3 {
		baseUsers := []string{"stackit", "admin", "test"}
		for _, u := range baseUsers {
			user := models.User{
				Username: u,
				Email:    fmt.Sprintf("%s@example.com", u),
				Password: string(hashedPassword),
				Bio:      "One of the OGs.",
				Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", u),
			}
			if err := s.db.Create(&user).Error; err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, *user)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

// SeedEngagement creates `count` questions across the given users, each with
// a realistic spread of answers, votes and notifications. Vote tallies are
// produced exclusively through ledger entries so they always match.
func (s *Seeder) SeedEngagement(users []models.User, count int) ([]models.Question, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to seed engagement for")
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	questions := make([]models.Question, 0, count)

	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]

		numTags := r.Intn(3) + 1
		tagNames := make([]string, 0, numTags)
		for len(tagNames) < numTags {
			name := BuiltInTags[r.Intn(len(BuiltInTags))]
			if !contains(tagNames, name) {
				tagNames = append(tagNames, name)
			}
		}

		question, err := s.factory.CreateQuestion(&author, tagNames, func(q *models.Question) {
			q.Views = r.Intn(500)
		})
		if err != nil {
			return nil, err
		}

		answers, err := s.seedAnswers(r, users, question)
		if err != nil {
			return nil, err
		}

		if err := s.seedVotes(r, users, question, answers); err != nil {
			return nil, err
		}

		questions = append(questions, *question)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d questions...", i)
		}
	}

	return questions, nil
}

func (s *Seeder) seedAnswers(r *rand.Rand, users []models.User, question *models.Question) ([]models.Answer, error) {
	numAnswers := r.Intn(5)
	answers := make([]models.Answer, 0, numAnswers)

	for j := 0; j < numAnswers; j++ {
		responder := users[r.Intn(len(users))]
		answer, err := s.factory.CreateAnswer(&responder, question)
		if err != nil {
			return nil, err
		}
		answers = append(answers, *answer)

		if responder.ID != question.AuthorID {
			if err := s.factory.CreateNotification(question, answer, &responder); err != nil {
				return nil, err
			}
		}
	}

	// roughly half of answered questions get an accepted answer
	if len(answers) > 0 && r.Intn(2) == 0 {
		accepted := answers[r.Intn(len(answers))]
		if err := s.factory.AcceptAnswer(&accepted); err != nil {
			return nil, err
		}
	}

	return answers, nil
}

func (s *Seeder) seedVotes(r *rand.Rand, users []models.User, question *models.Question, answers []models.Answer) error {
	for _, user := range users {
		if r.Float32() > 0.3 {
			continue
		}
		direction := models.VoteUp
		if r.Float32() < 0.2 {
			direction = models.VoteDown
		}
		if err := s.factory.CastVote(&user, models.ContentQuestion, question.ID, direction); err != nil {
			return err
		}
	}

	for _, answer := range answers {
		for _, user := range users {
			if r.Float32() > 0.15 {
				continue
			}
			direction := models.VoteUp
			if r.Float32() < 0.2 {
				direction = models.VoteDown
			}
			if err := s.factory.CastVote(&user, models.ContentAnswer, answer.ID, direction); err != nil {
				return err
			}
		}
	}

	return nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
