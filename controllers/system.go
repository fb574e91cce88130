package controllers

import (
	"context"
	"time"

	"alfredoramos.mx/site-builder/app"
	"alfredoramos.mx/site-builder/helpers"
	"alfredoramos.mx/site-builder/tasks"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
)

const cacheTimeout = 3 * time.Second

func PurgeCache(c *fiber.Ctx) error {
	if err := app.Cache().Do(context.Background(), app.Cache().B().Flushall().Async().Build()).Error(); err != nil {
		sentry.CaptureException(err)
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{"error": []string{"Could not purge cache."}})
	}

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

// WarmCache queues a render of every published website.
func WarmCache(c *fiber.Ctx) error {
	if err := tasks.NewPublicCacheWarm(); err != nil {
		return helpers.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(&fiber.Map{})
}

// HealthCheck reports whether the database and the cache answer in time.
func HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), cacheTimeout)
	defer cancel()

	checks := fiber.Map{"database": true, "cache": true}
	status := fiber.StatusOK

	if sqlDB, err := app.DB().DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = false
		status = fiber.StatusServiceUnavailable
	}

	if err := app.Cache().Do(ctx, app.Cache().B().Ping().Build()).Error(); err != nil {
		checks["cache"] = false
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(&fiber.Map{"healthy": status == fiber.StatusOK, "checks": checks})
}

func GetCsrf(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}
