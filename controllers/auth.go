package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"alfredoramos.mx/site-builder/app"
	"alfredoramos.mx/site-builder/helpers"
	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/structure"
	"alfredoramos.mx/site-builder/tasks"
	"alfredoramos.mx/site-builder/utils"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type userLoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userRegisterInput struct {
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
}

type userRecoveryInput struct {
	Hash            string `json:"hash"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func AuthLogin(c *fiber.Ctx) error {
	input := &userLoginInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))

		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The user data is invalid."},
		})
	}

	errs := fiber.Map{}

	if !utils.IsValidEmail(input.Email) {
		errs = utils.AddError(errs, "email", "Please, enter a valid email address.")
	}

	if len(input.Password) < utils.MinimumPasswordLength() {
		errs = utils.AddError(errs, "password", fmt.Sprintf("The password must be at least %d characters long.", utils.MinimumPasswordLength()))
	}

	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": errs,
		})
	}

	active := true
	user := &models.User{Email: input.Email, Active: &active}
	if err := app.DB().Where(&user).First(&user).Error; err != nil || !utils.ComparePasswordHash(input.Password, user.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The user credentials are invalid."},
		})
	}

	now := time.Now().In(utils.DefaultLocation())
	if err := app.DB().Model(user).Update("last_login", &now).Error; err != nil {
		slog.Warn(fmt.Sprintf("Could not update last login: %v", err))
	}

	return issueTokens(c, user)
}

// issueTokens answers with a new access token and sets the refresh token
// cookie.
func issueTokens(c *fiber.Ctx, user *models.User) error {
	accessToken, err := helpers.NewAccessToken(user)
	if err != nil {
		slog.Error(fmt.Sprintf("Error generating access token: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not generate access token."},
		})
	}

	refreshToken, err := helpers.NewRefreshToken(user)
	if err != nil {
		slog.Error(fmt.Sprintf("Error generating refresh token: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not generate refresh token."},
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     utils.RefreshTokenContextKey(),
		Value:    refreshToken,
		Path:     "/api/v1/auth",
		Domain:   os.Getenv("COOKIE_DOMAIN"),
		Expires:  time.Now().Add(utils.RefreshTokenExpiration()),
		Secure:   !utils.IsDebug(),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{"access_token": accessToken})
}

func AuthRegister(c *fiber.Ctx) error {
	if !utils.CanRegisterUsers() {
		return c.Status(fiber.StatusUnauthorized).JSON(&fiber.Map{"error": []string{"User registration is disabled."}})
	}

	input := &userRegisterInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))

		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid user registration data."},
		})
	}

	errs := fiber.Map{}

	if !utils.IsValidEmail(input.Email) {
		errs = utils.AddError(errs, "email", "Please, enter a valid email address.")
	}

	if !utils.IsRealEmail(input.Email) {
		errs = utils.AddError(errs, "email", "Please, enter a real email address.")
	}

	user := &models.User{Email: input.Email}
	if err := app.DB().Unscoped().Where(&user).First(&user).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		slog.Error(fmt.Sprintf("Error creating user account: %v", err))

		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{"error": []string{"Could not create user account."}})
	}

	if utils.IsValidUuid(user.ID) {
		if deletedAt, _ := user.DeletedAt.Value(); deletedAt != nil {
			errs = utils.AddError(errs, "email", "The requested user is inactive.")
		} else {
			errs = utils.AddError(errs, "email", "This email address has been taken.")
		}
	}

	errs = passwordErrors(errs, input.Password, input.ConfirmPassword, input.Email)

	if input.FirstName != nil && len(*input.FirstName) > 100 {
		errs = utils.AddError(errs, "first_name", "Your first name is longer than the length allowed.")
	}

	if input.LastName != nil && len(*input.LastName) > 100 {
		errs = utils.AddError(errs, "last_name", "Your last name is longer than the length allowed.")
	}

	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": errs,
		})
	}

	if err := app.DB().Transaction(func(tx *gorm.DB) error {
		user = &models.User{
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Email:     input.Email,
			Password:  utils.HashPassword(input.Password),
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		return helpers.AssignRole(tx, user.ID, models.RoleUser)
	}); err != nil {
		slog.Error(fmt.Sprintf("Error creating user account: %v", err))

		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not create user account."},
		})
	}

	userName := user.GetFullName()

	time.AfterFunc(3*time.Second, func() {
		if err := tasks.NewEmail(
			helpers.EmailOpts{
				Subject:      "New user registration",
				TemplateName: "signup_admin",
				ToList:       []string{utils.SupportEmail()},
			},
			map[string]any{
				"UserName":  userName,
				"UserEmail": user.Email,
			},
		); err != nil {
			sentry.CaptureException(err)
			slog.Error(fmt.Sprintf("Error sending email: %v", err))
		}
	})

	if err := tasks.NewEmail(
		helpers.EmailOpts{
			Subject:      "Welcome",
			TemplateName: "signup_user",
			ToList:       []string{user.Email},
		},
		map[string]any{
			"UserName": userName,
		},
	); err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error sending email: %v", err))
	}

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

func AuthRecover(c *fiber.Ctx) error {
	input := &userLoginInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))

		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The user data is invalid."},
		})
	}

	if !utils.IsValidEmail(input.Email) || !utils.IsRealEmail(input.Email) {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": fiber.Map{"email": []string{"Please, enter a real email address."}},
		})
	}

	// Unknown accounts get the same answer.
	recovery, err := helpers.RequestRecovery(c.UserContext(), app.DB(), input.Email, time.Now().In(utils.DefaultLocation()))
	if err != nil {
		if !errors.Is(err, structure.ErrNotFound) {
			sentry.CaptureException(err)
			slog.Error(fmt.Sprintf("Error recovering user account: %v", err))
		}

		return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
	}

	if err := tasks.NewEmail(
		helpers.EmailOpts{
			Subject:      "Password change request",
			TemplateName: "user_password_change_request",
			ToList:       []string{recovery.User.Email},
		},
		map[string]any{
			"UserName":    recovery.User.GetFullName(),
			"RecoveryURL": recovery.URL(),
		},
	); err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error sending email: %v", err))
	}

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

// findRecovery answers with an invalid hash error when the request is gone.
func findRecovery(c *fiber.Ctx, input *userRecoveryInput) (*models.AccountRecovery, error) {
	if err := c.BodyParser(input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))

		return nil, c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The recovery data is invalid."},
		})
	}

	recovery, err := helpers.FindRecovery(c.UserContext(), app.DB(), input.Hash, time.Now().In(utils.DefaultLocation()))
	if err != nil {
		if !errors.Is(err, structure.ErrNotFound) {
			slog.Error(fmt.Sprintf("Error validating hash for password recovery: %v", err))
		}

		return nil, c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": fiber.Map{"hash": []string{"The URL for account recovery is invalid."}},
		})
	}

	return recovery, nil
}

func AuthRecoverValidate(c *fiber.Ctx) error {
	if recovery, err := findRecovery(c, &userRecoveryInput{}); recovery == nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

func AuthRecoverUpdate(c *fiber.Ctx) error {
	input := &userRecoveryInput{}

	recovery, err := findRecovery(c, input)
	if recovery == nil {
		return err
	}

	if errs := passwordErrors(fiber.Map{}, input.Password, input.ConfirmPassword, recovery.User.Email); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{"error": errs})
	}

	if err := helpers.CompleteRecovery(c.UserContext(), app.DB(), recovery, input.Password, time.Now().In(utils.DefaultLocation())); err != nil {
		sentry.CaptureException(err)
		slog.Error(err.Error())

		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{"error": []string{"Could not update user password."}})
	}

	if err := tasks.NewEmail(
		helpers.EmailOpts{
			Subject:      "Password change confirmation",
			TemplateName: "user_password_changed",
			ToList:       []string{recovery.User.Email},
		},
		map[string]any{
			"UserName": recovery.User.GetFullName(),
		},
	); err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error sending email: %v", err))
	}

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

// passwordErrors adds the length, confirmation and strength errors of a new
// password to errs. Strength is not enforced in debug mode.
func passwordErrors(errs fiber.Map, password string, confirm string, email string) fiber.Map {
	if len(password) < utils.MinimumPasswordLength() {
		return utils.AddError(errs, "password", fmt.Sprintf("The password must be at least %d characters long.", utils.MinimumPasswordLength()))
	}

	if password != confirm {
		errs = utils.AddError(errs, "confirm_password", "The passwords do not match.")
	}

	if strong, err := utils.ValidatePasswordStrength(password, []string{strings.Split(email, "@")[0]}); !utils.IsDebug() && !strong && err != nil {
		errs = utils.AddError(errs, "password", err.Error())
	}

	return errs
}

func AuthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": []string{"Successful authentication."},
	})
}

// AuthLogout revokes the access token of the request and, when present,
// the refresh token cookie.
func AuthLogout(c *fiber.Ctx) error {
	claims := helpers.Claims(c)

	if err := helpers.RevokeToken(c.UserContext(), utils.TokenTypeAccess, claims.ID); err != nil {
		sentry.CaptureException(err)
		slog.Error(err.Error())

		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not revoke access token."},
		})
	}

	if refreshJWE := c.Cookies(utils.RefreshTokenContextKey()); len(refreshJWE) > 0 {
		if refreshClaims, err := utils.ParseJWEClaims(refreshJWE); err == nil {
			if err := helpers.RevokeToken(c.UserContext(), utils.TokenTypeRefresh, refreshClaims.ID); err != nil {
				slog.Error(err.Error())
			}
		}
	}

	c.ClearCookie(utils.RefreshTokenContextKey())

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

// AuthRefresh rotates both tokens. The refresh token used is revoked.
func AuthRefresh(c *fiber.Ctx) error {
	refreshClaims, ok := c.Locals(utils.RefreshTokenContextKey()).(*utils.CustomJwtClaims)
	if !ok || refreshClaims == nil {
		return c.Status(fiber.StatusForbidden).JSON(&fiber.Map{
			"error": []string{"The refresh token is not valid."},
		})
	}

	active := true
	user := &models.User{}
	if err := app.DB().Where(&models.User{ID: refreshClaims.User.ID, Active: &active}).First(user).Error; err != nil {
		return c.Status(fiber.StatusForbidden).JSON(&fiber.Map{
			"error": []string{"The refresh token is not valid."},
		})
	}

	if err := helpers.RevokeToken(c.UserContext(), utils.TokenTypeRefresh, refreshClaims.ID); err != nil {
		sentry.CaptureException(err)
		slog.Error(err.Error())

		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not refresh access token."},
		})
	}

	if err := helpers.RevokeToken(c.UserContext(), utils.TokenTypeAccess, helpers.Claims(c).ID); err != nil {
		slog.Error(err.Error())
	}

	return issueTokens(c, user)
}
