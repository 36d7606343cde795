package http

import (
	"strings"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/http/admin"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/http/api"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/sessions"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type HTTPApp struct {
	app *fiber.App
}

// NewServer builds the app. uploadRoot is served under /uploads when the local bucket is in use.
func NewServer(registry *sessions.Registry, uploadRoot string) *HTTPApp {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		EnableIPValidation:    true,
		ServerHeader:          "Scribe",
		AppName:               "Scribe",
		ProxyHeader:           fiber.HeaderXForwardedFor,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		BodyLimit:             16 * 1024 * 1024,
		EnablePrintRoutes:     viper.GetBool("debug.print_routes"),
		ErrorHandler:          exts.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowCredentials: true,
		AllowMethods: strings.Join([]string{
			fiber.MethodGet,
			fiber.MethodPost,
			fiber.MethodHead,
			fiber.MethodOptions,
			fiber.MethodPut,
			fiber.MethodDelete,
			fiber.MethodPatch,
		}, ","),
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		ExposeHeaders: exts.SessionHeader,
	}))

	app.Use(logger.New(logger.Config{
		Format: "${status} | ${latency} | ${method} ${path}\n",
		Output: log.Logger,
	}))

	if len(uploadRoot) > 0 {
		app.Static("/uploads", uploadRoot)
	}

	api.MapControllers(app, "/api", registry)
	admin.MapControllers(app, "/api/admin")

	return &HTTPApp{app}
}

func (v *HTTPApp) Listen() {
	if err := v.app.Listen(viper.GetString("bind")); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting server...")
	}
}

func (v *HTTPApp) Shutdown() error {
	return v.app.Shutdown()
}
