package exts

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("An error occurred when handling request...")
	}

	c.Status(code)
	if rerr := Render(c, "error", fiber.Map{
		"status":  code,
		"message": err.Error(),
	}); rerr != nil {
		log.Warn().Err(rerr).Msg("An error occurred when rendering error page...")
		return c.Status(code).SendString(err.Error())
	}

	return nil
}
