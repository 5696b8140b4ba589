package http

import (
	"git.solsynth.dev/hypernet/polls/pkg/internal/http/admin"
	"git.solsynth.dev/hypernet/polls/pkg/internal/http/api"
	"git.solsynth.dev/hypernet/polls/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/polls/pkg/internal/http/views"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type App struct {
	app *fiber.App
}

func NewServer() *App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		EnableIPValidation:      true,
		ServerHeader:            "Hypernet.Polls",
		AppName:                 "Hypernet.Polls",
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          viper.GetStringSlice("trusted_proxies"),
		JSONEncoder:             json.Marshal,
		JSONDecoder:             json.Unmarshal,
		BodyLimit:               4 * 1024 * 1024,
		Views:                   views.NewEngine(),
		ErrorHandler:            exts.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(exts.RequestLogger)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	}).Name("health")

	api.MapControllers(app, "/polls")
	admin.MapControllers(app, "/admin")

	app.Get("/", func(c *fiber.Ctx) error {
		return c.RedirectToRoute("polls.index", fiber.Map{}, fiber.StatusFound)
	})

	return &App{app}
}

func (v *App) Listen() {
	if viper.GetBool("debug.print_routes") {
		for _, route := range v.app.GetRoutes(true) {
			log.Debug().Str("method", route.Method).Str("path", route.Path).Str("name", route.Name).Msg("Mapped route.")
		}
	}

	bind := viper.GetString("bind")
	log.Info().Str("bind", bind).Msg("Listening for http requests...")
	if err := v.app.Listen(bind); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting server...")
	}
}

func (v *App) Shutdown() error {
	return v.app.Shutdown()
}
