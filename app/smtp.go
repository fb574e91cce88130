package app

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/wneessen/go-mail"
)

var (
	email     *mail.Client
	onceEmail sync.Once
)

func SMTP() *mail.Client {
	onceEmail.Do(func() {
		port, err := strconv.Atoi(os.Getenv("EMAIL_PORT"))
		if err != nil {
			port = mail.DefaultPortTLS
			slog.Warn(fmt.Sprintf("The SMTP port '%s' is invalid. The port %d will be used instead.", os.Getenv("EMAIL_PORT"), port))
		}

		opts := []mail.Option{
			mail.WithPort(port),
			mail.WithTLSPortPolicy(mail.TLSMandatory),
			mail.WithSMTPAuth(mail.SMTPAuthCramMD5),
			mail.WithUsername(os.Getenv("EMAIL_USERNAME")),
			mail.WithPassword(os.Getenv("EMAIL_PASSWORD")),
		}

		// Local relays such as Mailpit do not offer TLS.
		if useTLS, err := strconv.ParseBool(os.Getenv("EMAIL_TLS")); err == nil && !useTLS {
			opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic), mail.WithSMTPAuth(mail.SMTPAuthLogin))
		}

		client, err := mail.NewClient(os.Getenv("EMAIL_HOST"), opts...)
		if err != nil {
			slog.Error(fmt.Sprintf("Could not create email client: %v", err))
			os.Exit(1)
		}

		email = client
	})

	return email
}
