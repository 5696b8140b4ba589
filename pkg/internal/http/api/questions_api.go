package api

import (
	"errors"
	"time"

	"git.solsynth.dev/hypernet/polls/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/polls/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

func questionIdParam(c *fiber.Ctx) (uint, error) {
	// Ids that can never exist are just missing questions.
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusNotFound, services.ErrQuestionNotFound.Error())
	}
	return uint(id), nil
}

func questionLookupError(err error) error {
	if errors.Is(err, services.ErrQuestionNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

func listQuestions(c *fiber.Ctx) error {
	now := time.Now()
	questions, err := services.ListLatestQuestions(now, viper.GetInt("polls.index_take"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return exts.Render(c, "polls/index", fiber.Map{
		"latest_question_list": questions,
		"now":                  now,
	})
}

func getQuestion(c *fiber.Ctx) error {
	id, err := questionIdParam(c)
	if err != nil {
		return err
	}

	question, err := services.GetPublishedQuestion(id, time.Now())
	if err != nil {
		return questionLookupError(err)
	}

	return exts.Render(c, "polls/detail", fiber.Map{
		"question": question,
	})
}

func getQuestionResults(c *fiber.Ctx) error {
	id, err := questionIdParam(c)
	if err != nil {
		return err
	}

	results, err := services.GetQuestionResults(id, time.Now())
	if err != nil {
		return questionLookupError(err)
	}

	return exts.Render(c, "polls/results", fiber.Map{
		"results": results,
	})
}
