package admin

import (
	"errors"
	"time"

	"git.solsynth.dev/hypernet/polls/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/polls/pkg/internal/models"
	"git.solsynth.dev/hypernet/polls/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func getQuestionWithParam(c *fiber.Ctx) (models.Question, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return models.Question{}, fiber.NewError(fiber.StatusBadRequest, "invalid question id")
	}

	question, err := services.GetQuestion(uint(id))
	if errors.Is(err, services.ErrQuestionNotFound) {
		return question, fiber.NewError(fiber.StatusNotFound, err.Error())
	} else if err != nil {
		return question, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return question, nil
}

func listAllQuestions(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	questions, err := services.ListAllQuestions(take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": len(questions),
		"data":  questions,
	})
}

func createQuestion(c *fiber.Ctx) error {
	var data struct {
		QuestionText string     `json:"question_text" validate:"required,max=200"`
		PubDate      *time.Time `json:"pub_date"`
		Choices      []string   `json:"choices" validate:"required,min=1,dive,required,max=200"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	pubDate := time.Now()
	if data.PubDate != nil {
		pubDate = *data.PubDate
	}

	question, err := services.NewQuestion(data.QuestionText, pubDate, data.Choices)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(question)
}

func deleteQuestion(c *fiber.Ctx) error {
	question, err := getQuestionWithParam(c)
	if err != nil {
		return err
	}

	if err := services.DeleteQuestion(question); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusNoContent)
}
