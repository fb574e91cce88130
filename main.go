package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alfredoramos.mx/site-builder/app"
	"alfredoramos.mx/site-builder/routes"
	"alfredoramos.mx/site-builder/structure"
	"alfredoramos.mx/site-builder/tasks"
	"alfredoramos.mx/site-builder/utils"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Warn(fmt.Sprintf("Could not load .env file: %v", err))
	}

	// Set default timezone
	time.Local = utils.DefaultLocation()

	// Error reporting
	app.SetupSentry()
	defer app.FlushSentry()

	// Application initialization
	app.SetupDefaultData()

	// Setup app
	server := fiber.New(fiber.Config{
		StrictRouting: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "The server has encountered an error that cannot be handled."

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
				msg = e.Message
			} else {
				sentry.CaptureException(err)
			}

			slog.Error(fmt.Sprintf("Application error handler: %v", err))

			return c.Status(code).JSON(&fiber.Map{"error": []string{msg}})
		},
		AppName:     os.Getenv("APP_NAME"),
		JSONEncoder: json.Marshal,
		JSONDecoder: structure.DecodeJSON,
	})

	// Setup routes
	routes.SetupRoutes(server)

	// Background workers
	queue := tasks.AsynqServer()
	if err := queue.Start(tasks.AsynqServeMux()); err != nil {
		slog.Error(fmt.Sprintf("Could not run queue server: %v", err))
		os.Exit(1)
	}

	manager := tasks.AsynqPeriodicTaskManager()
	if err := manager.Start(); err != nil {
		slog.Error(fmt.Sprintf("Could not run periodic tasks manager: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
			slog.Error(fmt.Sprintf("Could not shut down server: %v", err))
		}
	}()

	// Setup server
	if err := server.Listen(os.Getenv("APP_ADDRESS")); err != nil {
		slog.Error(fmt.Sprintf("Could not setup server: %v", err))
		app.FlushSentry()
		os.Exit(1)
	}

	slog.Info("Shutting down.")

	manager.Shutdown()
	queue.Shutdown()

	if err := tasks.AsynqClient().Close(); err != nil {
		slog.Warn(fmt.Sprintf("Could not close queue client: %v", err))
	}

	app.Cache().Close()
}
