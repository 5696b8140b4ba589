package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/polls/pkg/internal/cache"
	"git.solsynth.dev/hypernet/polls/pkg/internal/database"
	"git.solsynth.dev/hypernet/polls/pkg/internal/models"
	"github.com/spf13/viper"
)

// SetupTestDB points database.C at a fresh SQLite file with the full schema
// and resets the local cache.
func SetupTestDB(t *testing.T) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "polls.db")
	viper.Set("database.dialect", "sqlite")
	viper.Set("database.dsn", fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_time_format=sqlite",
		path,
	))
	viper.Set("database.prefix", "")

	if err := database.NewGorm(); err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Several connections, so concurrent tests really run side by side.
	if db, err := database.C.DB(); err == nil {
		db.SetMaxOpenConns(8)
	}
	if err := database.RunMigration(database.C); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	if err := cache.NewStore(); err != nil {
		t.Fatalf("Failed to create cache store: %v", err)
	}

	t.Cleanup(func() {
		if db, err := database.C.DB(); err == nil {
			db.Close()
		}
	})
}

// CreateQuestion inserts a question published the given number of days from now.
// Choices default to a single "Yes" when none are given.
func CreateQuestion(t *testing.T, text string, days int, choices ...string) models.Question {
	t.Helper()

	if len(choices) == 0 {
		choices = []string{"Yes"}
	}

	question := models.Question{
		QuestionText: text,
		PubDate:      time.Now().AddDate(0, 0, days),
	}
	for _, choice := range choices {
		question.Choices = append(question.Choices, models.Choice{ChoiceText: choice})
	}

	if err := database.C.Create(&question).Error; err != nil {
		t.Fatalf("Failed to create question %q: %v", text, err)
	}

	return question
}
