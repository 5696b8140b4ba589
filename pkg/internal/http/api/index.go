package api

import "github.com/gofiber/fiber/v2"

func MapControllers(app *fiber.App, baseURL string) {
	polls := app.Group(baseURL)
	{
		polls.Get("/", listQuestions).Name("polls.index")
		polls.Get("/:id", getQuestion).Name("polls.detail")
		polls.Get("/:id/results", getQuestionResults).Name("polls.results")
		polls.Post("/:id/vote", voteQuestion).Name("polls.vote")
	}
}
