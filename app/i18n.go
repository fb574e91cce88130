package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"alfredoramos.mx/site-builder/utils"
	"github.com/BurntSushi/toml"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var (
	bundle     *i18n.Bundle
	onceBundle sync.Once
)

func Bundle() *i18n.Bundle {
	onceBundle.Do(func() {
		defaultLang := strings.TrimSpace(os.Getenv("I18N_DEFAULT_LANG"))
		if len(defaultLang) < 1 {
			defaultLang = "en"
			slog.Warn(fmt.Sprintf("Default language not specified. Using fallback language '%s'.", defaultLang))
		}

		tag, err := language.Parse(defaultLang)
		if err != nil {
			tag = language.English
		}

		bundle = i18n.NewBundle(tag)
		bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

		allowedLangs := strings.TrimSpace(os.Getenv("I18N_ALLOWED_LANGS"))
		if len(allowedLangs) < 1 {
			allowedLangs = defaultLang
		}

		for _, lang := range utils.CleanStringList(utils.SplitAny(allowedLangs, utils.SplitChars)) {
			langFile, err := filepath.Abs(filepath.Clean(filepath.Join("i18n", fmt.Sprintf("active.%s.toml", strings.ToLower(lang)))))
			if err != nil {
				slog.Error(fmt.Sprintf("Could not read translation file at %s: %v", langFile, err))
				continue
			}

			if _, err := bundle.LoadMessageFile(langFile); err != nil {
				sentry.CaptureException(err)
				slog.Error(fmt.Sprintf("Could not load translation file: %v", err))
			}
		}
	})

	return bundle
}

func Localizer(c *fiber.Ctx) *i18n.Localizer {
	langs := []string{}

	if lang := utils.CleanString(c.Query("lang")); len(lang) > 0 {
		langs = append(langs, lang)
	}

	if accept := utils.CleanString(c.Get("Accept-Language")); len(accept) > 0 {
		langs = append(langs, accept)
	}

	return i18n.NewLocalizer(Bundle(), langs...)
}

// Translate falls back to the default message instead of panicking when a
// translation is missing.
func Translate(c *fiber.Ctx, msg *i18n.Message, data map[string]any) string {
	s, err := Localizer(c).Localize(&i18n.LocalizeConfig{
		DefaultMessage: msg,
		TemplateData:   data,
	})
	if err != nil || len(s) < 1 {
		return msg.Other
	}

	return s
}
