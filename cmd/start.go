package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vocab-manager/core/middleware/auth"
	"vocab-manager/core/server"

	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "vocab-manager/docs/swagger"
)

// @title Vocabulary Manager API
// @version 1.0
// @description API for managing the vocabulary of language learners.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the vocabulary server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := bootstrap(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()
		zap.ReplaceGlobals(a.log)

		app := server.NewApp(a.cfg.Server, a.log)

		// Swagger stays public; everything registered after auth is checked.
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Use(auth.New(auth.Config{
			ApiKey:     a.cfg.Server.ApiKey,
			ApiKeyHash: a.cfg.Server.ApiKeyHash,
			JWTSecret:  a.cfg.Server.JWTSecret,
		}))

		if err := a.loader.LoadAll(app); err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			a.log.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			errCh <- app.Listen(":" + a.cfg.Server.Port)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case <-quit:
		}

		a.log.Info("Shutting down server...")
		return app.ShutdownWithTimeout(10 * time.Second)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
