package api

import (
	"errors"
	"time"

	"git.solsynth.dev/hypernet/polls/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/polls/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

const missingChoiceMessage = "You didn't select a choice."

func voteQuestion(c *fiber.Ctx) error {
	id, err := questionIdParam(c)
	if err != nil {
		return err
	}

	var data struct {
		Choice uint `json:"choice" form:"choice"`
	}
	// A malformed body counts as no choice selected.
	_ = c.BodyParser(&data)

	_, err = services.AddVote(id, data.Choice, time.Now(), map[string]any{
		"ip":         c.IP(),
		"user_agent": c.Get(fiber.HeaderUserAgent),
	})
	if errors.Is(err, services.ErrChoiceNotFound) {
		question, err := services.GetPublishedQuestion(id, time.Now())
		if err != nil {
			return questionLookupError(err)
		}
		c.Status(fiber.StatusBadRequest)
		return exts.Render(c, "polls/detail", fiber.Map{
			"question":      question,
			"error_message": missingChoiceMessage,
		})
	} else if err != nil {
		return questionLookupError(err)
	}

	url, err := c.GetRouteURL("polls.results", fiber.Map{"id": id})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.Redirect(url, fiber.StatusFound)
}
