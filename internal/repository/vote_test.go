package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"stackit/internal/database"
	"stackit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newVoteDB opens a file-backed database so multiple connections see the same
// data. The immediate transaction lock plus a generous busy timeout make
// concurrent writers queue instead of failing.
func newVoteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?_busy_timeout=10000&_txlock=immediate",
		filepath.Join(t.TempDir(), "votes.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestCastVoteConcurrentFirstTimeVoters(t *testing.T) {
	db := newVoteDB(t)
	repo := NewVoteRepository(db)

	author := models.User{Username: "asker", Email: "asker@example.com", Password: "x"}
	require.NoError(t, db.Create(&author).Error)
	question := models.Question{Title: "Concurrent tallies", Description: "desc", AuthorID: author.ID}
	require.NoError(t, db.Create(&question).Error)

	const voters = 16
	directions := make([]string, voters)
	ups := 0
	for i := range directions {
		// A deterministic mix: every fourth voter votes down.
		if i%4 == 3 {
			directions[i] = models.VoteDown
		} else {
			directions[i] = models.VoteUp
			ups++
		}
	}
	downs := voters - ups

	voterIDs := make([]uint, voters)
	for i := 0; i < voters; i++ {
		voter := models.User{
			Username: fmt.Sprintf("voter%02d", i),
			Email:    fmt.Sprintf("voter%02d@example.com", i),
			Password: "x",
		}
		require.NoError(t, db.Create(&voter).Error)
		voterIDs[i] = voter.ID
	}

	// Each voter casts a distinct first-time vote from its own goroutine. The
	// final tally must come out the same no matter how the commits interleave.
	errs := make([]error, voters)
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.CastVote(context.Background(), voterIDs[i], models.ContentQuestion, question.ID, directions[i])
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		require.NoErrorf(t, err, "voter %d", i)
	}

	var stored models.Question
	require.NoError(t, db.First(&stored, question.ID).Error)
	assert.Equal(t, ups-downs, stored.Votes)

	var ledgerSum int
	require.NoError(t, db.Model(&models.Vote{}).
		Select("COALESCE(SUM(CASE WHEN direction = ? THEN 1 ELSE -1 END), 0)", models.VoteUp).
		Where("content_type = ? AND content_id = ?", models.ContentQuestion, question.ID).
		Scan(&ledgerSum).Error)
	assert.Equal(t, stored.Votes, ledgerSum)

	var ledgerRows int64
	require.NoError(t, db.Model(&models.Vote{}).
		Where("content_type = ? AND content_id = ?", models.ContentQuestion, question.ID).
		Count(&ledgerRows).Error)
	assert.Equal(t, int64(voters), ledgerRows)
}
