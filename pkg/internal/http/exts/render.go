package exts

import (
	"github.com/gofiber/fiber/v2"
)

const LayoutMain = "layouts/main"

// Render writes the template context as JSON for API clients and as the
// named template otherwise. The HTML branch also receives a Route helper
// reversing named routes with a single id parameter.
func Render(c *fiber.Ctx, view string, context fiber.Map) error {
	if c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON {
		return c.JSON(context)
	}

	bind := fiber.Map{
		"Route": func(name string, id uint) string {
			url, _ := c.GetRouteURL(name, fiber.Map{"id": id})
			return url
		},
	}
	for k, v := range context {
		bind[k] = v
	}

	return c.Render(view, bind, LayoutMain)
}
