package helpers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	html_tpl "html/template"
	text_tpl "text/template"

	"alfredoramos.mx/site-builder/app"
	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/utils"
	"github.com/redis/rueidis"
	"github.com/wneessen/go-mail"
)

// ErrEmailRender marks messages that can never be built, so retrying the
// delivery is pointless.
var ErrEmailRender = errors.New("Could not render email.")

type EmailOpts struct {
	Subject      string   `json:"subject"`
	TemplateName string   `json:"template_name"`
	ToList       []string `json:"to_list"`
	CCList       []string `json:"cc_list"`
	BCCList      []string `json:"bcc_list"`
	IsInternal   bool     `json:"is_internal"`
}

func (e EmailOpts) IsValid() bool {
	return len(e.Subject) > 0 && len(e.TemplateName) > 0 && len(e.ToList) > 0
}

// EmailTemplatesPath holds <name>.html and <name>.txt pairs.
func EmailTemplatesPath() string {
	p := os.Getenv("EMAIL_TEMPLATES_PATH")

	if len(p) < 1 {
		p = filepath.Join("templates", "email")
	}

	return p
}

// RenderEmail builds the message for the given templates without sending it.
func RenderEmail(opts EmailOpts, data map[string]any) (*mail.Msg, error) {
	if len(os.Getenv("EMAIL_FROM")) < 1 {
		return nil, errors.New("The from email address is invalid.")
	}

	if !opts.IsValid() {
		return nil, errors.New("Missing information to send email.")
	}

	if data == nil {
		data = map[string]any{}
	}

	tplBase := filepath.Clean(filepath.Join(EmailTemplatesPath(), filepath.Base(opts.TemplateName)))

	htmlTplFile := filepath.Clean(tplBase + ".html")
	htmlTpl, err := html_tpl.New(filepath.Base(htmlTplFile)).ParseFiles(htmlTplFile)
	if err != nil {
		return nil, fmt.Errorf("Error loading the HTML template: %w", err)
	}

	textTplFile := filepath.Clean(tplBase + ".txt")
	textTpl, err := text_tpl.New(filepath.Base(textTplFile)).ParseFiles(textTplFile)
	if err != nil {
		return nil, fmt.Errorf("Error loading the TEXT template: %w", err)
	}

	// Init message
	msg := mail.NewMsg()
	msg.SetMessageID()
	msg.SetDate()
	msg.SetBulk()
	msg.Subject(opts.Subject + " • " + os.Getenv("APP_NAME"))

	if err := msg.FromFormat(os.Getenv("APP_NAME"), os.Getenv("EMAIL_FROM")); err != nil {
		return nil, fmt.Errorf("Could not set the from email address: %w", err)
	}

	if !opts.IsInternal && len(utils.SupportEmail()) > 0 {
		if err := msg.ReplyTo(utils.SupportEmail()); err != nil {
			return nil, fmt.Errorf("Could not set the reply-to email address: %w", err)
		}
	}

	// Default values
	data["Lang"] = utils.EmailLang()
	data["AppName"] = os.Getenv("APP_NAME")
	data["AppDescription"] = os.Getenv("APP_DESCRIPTION")
	data["AppLogo"] = os.Getenv("APP_LOGO")
	data["AppDomain"] = os.Getenv("APP_DOMAIN")
	data["CompanyName"] = os.Getenv("COMPANY_NAME")
	data["CompanyURL"] = os.Getenv("COMPANY_URL")
	data["Subject"] = opts.Subject
	data["Now"] = time.Now().In(utils.DefaultLocation())

	if err := msg.SetBodyHTMLTemplate(htmlTpl, data); err != nil {
		return nil, fmt.Errorf("Error setting HTML template: %w", err)
	}

	if err := msg.AddAlternativeTextTemplate(textTpl, data); err != nil {
		return nil, fmt.Errorf("Error setting TEXT template: %w", err)
	}

	msg.ToIgnoreInvalid(opts.ToList...)

	if len(opts.CCList) > 0 {
		msg.CcIgnoreInvalid(opts.CCList...)
	}

	if len(opts.BCCList) > 0 {
		msg.BccIgnoreInvalid(opts.BCCList...)
	}

	return msg, nil
}

// SendEmail renders and delivers a message. Internal messages are copied
// to the superadministrators.
func SendEmail(ctx context.Context, opts EmailOpts, data map[string]any) error {
	if opts.IsInternal {
		opts.BCCList = append(opts.BCCList, GetSuperAdminEmails()...)
	}

	msg, err := RenderEmail(opts, data)
	if err != nil {
		return fmt.Errorf("%w %w", ErrEmailRender, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return app.SMTP().DialAndSendWithContext(ctx, msg)
}

func GetSuperAdminEmails() []string {
	e := []string{}

	// Try to load from cache
	ce, err := app.Cache().DoCache(context.Background(), app.Cache().B().Get().Key("email:superadmin:list").Cache(), 5*time.Minute).ToString()
	if err != nil && !errors.Is(err, rueidis.Nil) {
		slog.Warn(fmt.Sprintf("Could not get cached superadministrator email list: %v", err))
	}

	if len(ce) > 0 {
		if err := json.Unmarshal([]byte(ce), &e); err != nil {
			slog.Error(fmt.Sprintf("Could not decode cached superadministrator email list: %v", err))
		} else {
			return e
		}
	}

	if err := app.DB().Model(&models.UserRole{}).
		Joins("INNER JOIN roles r ON user_roles.role_id = r.id").
		Joins("INNER JOIN users u ON user_roles.user_id = u.id").
		Select("u.email").
		Where("r.name = @role_name AND user_roles.deleted_at IS NULL AND r.deleted_at IS NULL AND u.active = @user_active AND u.deleted_at IS NULL", sql.Named("role_name", models.RoleSuperAdmin), sql.Named("user_active", true)).
		Limit(5).Find(&e).Error; err != nil {
		slog.Error(fmt.Sprintf("Could not get superadministrator emails: %v", err))
	}

	re, err := json.Marshal(e)
	if err != nil {
		slog.Error(fmt.Sprintf("Could not serialize superadministrator email list for cache: %v", err))
	}

	if err := app.Cache().Do(context.Background(), app.Cache().B().Set().Key("email:superadmin:list").Value(string(re)).Ex(15*time.Minute).Build()).Error(); err != nil {
		slog.Error(fmt.Sprintf("Could not save superadministrator email list to cache: %v", err))
	}

	return e
}
