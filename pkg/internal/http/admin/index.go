package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/spf13/viper"
)

func MapControllers(app *fiber.App, baseURL string) {
	admin := app.Group(baseURL, ensureAdminEnabled, basicauth.New(basicauth.Config{
		Users: map[string]string{
			viper.GetString("admin.username"): viper.GetString("admin.password"),
		},
		Realm: "Polls Admin",
	}))
	{
		admin.Get("/questions", listAllQuestions)
		admin.Post("/questions", createQuestion)
		admin.Delete("/questions/:id", deleteQuestion)
		admin.Post("/questions/:id/choices", createChoice)
		admin.Delete("/questions/:id/choices/:choiceId", deleteChoice)
	}
}

func ensureAdminEnabled(c *fiber.Ctx) error {
	if len(viper.GetString("admin.password")) == 0 {
		return fiber.NewError(fiber.StatusForbidden, "admin interface is disabled")
	}
	return c.Next()
}
