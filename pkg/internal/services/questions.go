package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/polls/pkg/internal/database"
	"git.solsynth.dev/hypernet/polls/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrQuestionNotFound      = errors.New("question not found")
	ErrQuestionWithoutText   = errors.New("question text is required")
	ErrQuestionWithoutChoice = errors.New("question must have at least one choice")
	ErrChoiceNotFound        = errors.New("choice not found")
	ErrLastChoice            = errors.New("cannot delete the last choice of a question")
)

// RecentWindow returns the configured window used by WasPublishedRecently.
func RecentWindow() time.Duration {
	if window := viper.GetDuration("polls.recent_window"); window > 0 {
		return window
	}
	return models.DefaultRecentWindow
}

func FilterQuestionWithPublishedAt(tx *gorm.DB, date time.Time) *gorm.DB {
	return tx.Where("pub_date <= ?", date.UTC())
}

func PreloadChoices(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Choices", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

// ListLatestQuestions returns the questions published at or before now, newest first.
// A non-positive take means no limit.
func ListLatestQuestions(now time.Time, take int) ([]models.Question, error) {
	tx := FilterQuestionWithPublishedAt(database.C, now).
		Order("pub_date DESC").
		Order("id DESC")
	if take > 0 {
		tx = tx.Limit(take)
	}

	questions := make([]models.Question, 0)
	if err := tx.Find(&questions).Error; err != nil {
		return questions, err
	}
	return questions, nil
}

func ListAllQuestions(take, offset int) ([]models.Question, error) {
	tx := PreloadChoices(database.C).Order("pub_date DESC").Offset(offset)
	if take > 0 {
		tx = tx.Limit(take)
	}

	questions := make([]models.Question, 0)
	if err := tx.Find(&questions).Error; err != nil {
		return questions, err
	}
	return questions, nil
}

func GetQuestion(id uint) (models.Question, error) {
	var question models.Question
	if err := PreloadChoices(database.C).Where("id = ?", id).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return question, ErrQuestionNotFound
		}
		return question, err
	}
	return question, nil
}

// GetPublishedQuestion fetches a question with its choices, hiding the ones not yet published.
func GetPublishedQuestion(id uint, now time.Time) (models.Question, error) {
	var question models.Question
	if err := PreloadChoices(FilterQuestionWithPublishedAt(database.C, now)).
		Where("id = ?", id).
		First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return question, ErrQuestionNotFound
		}
		return question, err
	}
	return question, nil
}

// NewQuestion creates a question together with its choices in a single transaction.
func NewQuestion(text string, pubDate time.Time, choices []string) (models.Question, error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return models.Question{}, ErrQuestionWithoutText
	}

	choices = lo.Map(choices, func(item string, _ int) string {
		return strings.TrimSpace(item)
	})
	if len(choices) == 0 || lo.Contains(choices, "") {
		return models.Question{}, ErrQuestionWithoutChoice
	}

	question := models.Question{
		QuestionText: text,
		PubDate:      pubDate,
		Language:     DetectLanguage(text),
		Choices: lo.Map(choices, func(item string, _ int) models.Choice {
			return models.Choice{ChoiceText: item}
		}),
	}

	if err := database.C.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&question).Error
	}); err != nil {
		return question, fmt.Errorf("failed to create question: %v", err)
	}

	log.Debug().Uint("question", question.ID).Int("choices", len(question.Choices)).Msg("Created a question.")

	return question, nil
}

func AddChoice(question models.Question, text string) (models.Choice, error) {
	choice := models.Choice{
		ChoiceText: strings.TrimSpace(text),
		QuestionID: question.ID,
	}
	if len(choice.ChoiceText) == 0 {
		return choice, fmt.Errorf("choice text is required")
	}

	if err := database.C.Create(&choice).Error; err != nil {
		return choice, err
	}

	InvalidateQuestionResults(question.ID)

	return choice, nil
}

// DeleteChoice removes a choice unless it is the last one left on its question.
func DeleteChoice(question models.Question, choiceID uint) error {
	if err := database.C.Transaction(func(tx *gorm.DB) error {
		// Touching the parent row takes its write lock first, so concurrent
		// removals on the same question count the remaining choices one at a time.
		if err := tx.Model(&models.Question{}).
			Where("id = ?", question.ID).
			UpdateColumn("updated_at", time.Now().UTC()).Error; err != nil {
			return err
		}

		var choice models.Choice
		if err := tx.Where("id = ? AND question_id = ?", choiceID, question.ID).First(&choice).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChoiceNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Choice{}).Where("question_id = ?", question.ID).Count(&count).Error; err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastChoice
		}

		if err := tx.Where("choice_id = ?", choice.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&choice).Error
	}); err != nil {
		return err
	}

	InvalidateQuestionResults(question.ID)
	return nil
}

// DeleteQuestion removes the question along with its choices and votes.
func DeleteQuestion(question models.Question) error {
	if err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Select(clause.Associations).Delete(&question).Error
	}); err != nil {
		return err
	}

	InvalidateQuestionResults(question.ID)
	return nil
}
