package services

import (
	"errors"
	"time"

	"git.solsynth.dev/hypernet/polls/pkg/internal/database"
	"git.solsynth.dev/hypernet/polls/pkg/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AddVote counts one vote for the choice on a published question.
// The counter is bumped by a single UPDATE so concurrent votes are never lost.
func AddVote(questionId, choiceId uint, now time.Time, meta map[string]any) (models.Choice, error) {
	question, err := GetPublishedQuestion(questionId, now)
	if err != nil {
		return models.Choice{}, err
	}

	var choice models.Choice
	if err := database.C.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Choice{}).
			Where("id = ? AND question_id = ?", choiceId, question.ID).
			Update("votes", gorm.Expr("votes + ?", 1))
		if result.Error != nil {
			return result.Error
		} else if result.RowsAffected == 0 {
			return ErrChoiceNotFound
		}

		if err := tx.Create(&models.Vote{
			Meta:       datatypes.JSONMap(meta),
			ChoiceID:   choiceId,
			QuestionID: question.ID,
		}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", choiceId).First(&choice).Error
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return choice, ErrChoiceNotFound
		}
		return choice, err
	}

	InvalidateQuestionResults(question.ID)

	return choice, nil
}

func CountVotes(questionId uint) (int64, error) {
	var count int64
	if err := database.C.Model(&models.Vote{}).
		Where("question_id = ?", questionId).
		Count(&count).Error; err != nil {
		return count, err
	}
	return count, nil
}
