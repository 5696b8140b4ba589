package exts

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RequestLogger resolves handler errors right away so the logged status is the one sent.
func RequestLogger(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	log.Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("Handled request.")

	return nil
}
