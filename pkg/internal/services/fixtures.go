package services

import (
	"fmt"
	"os"
	"time"

	"git.solsynth.dev/hypernet/polls/pkg/internal/models"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

type QuestionFixture struct {
	QuestionText string   `json:"question_text"`
	Days         int      `json:"days"`
	Choices      []string `json:"choices"`
}

// LoadFixtures seeds questions from a JSON file. Each fixture is published
// the given number of days relative to now.
func LoadFixtures(path string, now time.Time) ([]models.Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %v", err)
	}

	var fixtures []QuestionFixture
	if err := jsoniter.Unmarshal(raw, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %v", err)
	}

	questions := make([]models.Question, 0, len(fixtures))
	for idx, fixture := range fixtures {
		question, err := NewQuestion(fixture.QuestionText, now.AddDate(0, 0, fixture.Days), fixture.Choices)
		if err != nil {
			return questions, fmt.Errorf("fixture #%d: %w", idx, err)
		}
		questions = append(questions, question)
	}

	log.Info().Int("count", len(questions)).Str("path", path).Msg("Loaded question fixtures.")

	return questions, nil
}
