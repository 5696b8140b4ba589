package admin

import (
	"errors"

	"git.solsynth.dev/hypernet/polls/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/polls/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func createChoice(c *fiber.Ctx) error {
	question, err := getQuestionWithParam(c)
	if err != nil {
		return err
	}

	var data struct {
		ChoiceText string `json:"choice_text" validate:"required,max=200"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	choice, err := services.AddChoice(question, data.ChoiceText)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(choice)
}

func deleteChoice(c *fiber.Ctx) error {
	question, err := getQuestionWithParam(c)
	if err != nil {
		return err
	}

	choiceId, err := c.ParamsInt("choiceId")
	if err != nil || choiceId <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid choice id")
	}

	switch err := services.DeleteChoice(question, uint(choiceId)); {
	case errors.Is(err, services.ErrChoiceNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrLastChoice):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusNoContent)
}
