package server

import (
	"strings"
	"time"

	"vocab-manager/core/logger"
	"vocab-manager/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

// NewApp builds the Fiber application with the shared error handler and the
// middleware every route passes through: ray id, CORS and request logging.
func NewApp(cfg Config, log *zap.Logger) *fiber.App {
	if log == nil {
		log = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimit(),
		ErrorHandler:          ErrorHandler(log),
	})

	app.Use(rayid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowedOrigins(), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-API-Key, X-Ray-ID",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(requestLogger(log))

	return app
}

func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		l := logger.WithRayID(log, c)
		status := c.Response().StatusCode()
		if err != nil {
			status, _ = Render(err)
		}
		l.Info("Request handled",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		)
		return err
	}
}
