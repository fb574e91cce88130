package middlewares

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"alfredoramos.mx/site-builder/utils"
	"github.com/gofiber/fiber/v2"
)

const hcaptchaApiUrl string = "https://api.hcaptcha.com/siteverify"

type CaptchaRequest struct {
	Response string `json:"captcha"`
}

type CaptchaResponse struct {
	Success       bool     `json:"success"`
	Credit        bool     `json:"credit,omitempty"`
	Hostname      string   `json:"hostname,omitempty"`
	ChallengeTime string   `json:"challenge_ts,omitempty"`
	Errors        []string `json:"error-codes,omitempty"`
}

// captchaBypassed lets local builder sessions skip hCaptcha. Both the
// environment and the request must ask for it, and only in debug mode.
func captchaBypassed(c *fiber.Ctx) bool {
	if !utils.IsDebug() {
		return false
	}

	disableEnv, _ := strconv.ParseBool(os.Getenv("HCAPTCHA_DISABLE"))
	disableHeader, _ := strconv.ParseBool(c.Get("X-Disable-Captcha"))

	return disableEnv && disableHeader
}

func verifyCaptcha(c *fiber.Ctx, response string) (*CaptchaResponse, error) {
	agent := fiber.AcquireAgent()
	defer fiber.ReleaseAgent(agent)

	agent.Request().Header.SetMethod(fiber.MethodPost)
	agent.Request().SetRequestURI(hcaptchaApiUrl)
	agent.Request().Header.SetUserAgent(c.Get(fiber.HeaderUserAgent))

	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("Could not parse agent: %w", err)
	}

	args := fiber.AcquireArgs()
	args.Set("sitekey", os.Getenv("HCAPTCHA_SITE_KEY"))
	args.Set("secret", os.Getenv("HCAPTCHA_SECRET_KEY"))
	args.Set("response", response)
	args.Set("remoteip", c.IP())

	agent.Form(args)
	fiber.ReleaseArgs(args)

	status, body, errList := agent.Bytes()
	if len(errList) > 0 {
		return nil, fmt.Errorf("Could not read response body and got HTTP '%d' status code: %w", status, errors.Join(errList...))
	}

	result := &CaptchaResponse{}
	if err := json.Unmarshal(body, result); err != nil {
		return nil, fmt.Errorf("Could not decode response: %w", err)
	}

	return result, nil
}

func CaptchaProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if captchaBypassed(c) {
			return c.Next()
		}

		input := CaptchaRequest{}
		if err := c.BodyParser(&input); err != nil {
			slog.Error(fmt.Sprintf("Error parsing input data: %v", err))

			return c.Status(fiber.StatusForbidden).JSON(&fiber.Map{
				"error": []string{"Invalid captcha data."},
			})
		}

		if len(input.Response) < 1 {
			return c.Status(fiber.StatusForbidden).JSON(&fiber.Map{
				"error": utils.AddError(fiber.Map{}, "captcha", "The captcha response is invalid."),
			})
		}

		result, err := verifyCaptcha(c, input.Response)
		if err != nil {
			slog.Error(err.Error())

			return c.Status(fiber.StatusForbidden).JSON(&fiber.Map{
				"error": []string{"Could not validate captcha response."},
			})
		}

		if result.Success {
			return c.Next()
		}

		if len(result.Errors) > 0 {
			return c.Status(fiber.StatusForbidden).JSON(&fiber.Map{
				"error": result.Errors,
			})
		}

		return c.Status(fiber.StatusForbidden).JSON(&fiber.Map{
			"error": []string{"Could not validate captcha response."},
		})
	}
}
