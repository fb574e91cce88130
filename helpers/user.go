package helpers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"alfredoramos.mx/site-builder/app"
	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/rueidis"
)

func UserExists(id uuid.UUID, email string) bool {
	if !utils.IsValidUuid(id) || !utils.IsValidEmail(email) {
		return false
	}

	cachedUser, err := app.Cache().DoCache(context.Background(), app.Cache().B().Get().Key(fmt.Sprintf("user:%s", id.String())).Cache(), 5*time.Minute).ToString()
	if err != nil && !errors.Is(err, rueidis.Nil) {
		slog.Warn(fmt.Sprintf("Could not get cached user: %v", err))
	}

	if len(cachedUser) > 0 && cachedUser == email {
		return true
	}

	active := true
	user := &models.User{}
	if err := app.DB().Where(&models.User{ID: id, Email: email, Active: &active}).First(user).Error; err != nil {
		return false
	}

	if err := app.Cache().Do(context.Background(), app.Cache().B().Set().Key(fmt.Sprintf("user:%s", id.String())).Value(user.Email).Ex(time.Hour).Build()).Error(); err != nil {
		slog.Error(fmt.Sprintf("Could not save user to cache: %v", err))
	}

	return true
}

// Claims returns the access token claims stored by the auth middlewares.
func Claims(c *fiber.Ctx) *utils.CustomJwtClaims {
	if claims, ok := c.Locals(utils.ClaimsContextKey()).(*utils.CustomJwtClaims); ok && claims != nil {
		return claims
	}

	return &utils.CustomJwtClaims{}
}

// GetUserID is uuid.Nil for anonymous requests.
func GetUserID(c *fiber.Ctx) uuid.UUID {
	return Claims(c).User.ID
}
