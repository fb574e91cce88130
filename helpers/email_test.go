package helpers

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderEmail(t *testing.T) {
	t.Setenv("APP_NAME", "Site Builder")
	t.Setenv("EMAIL_FROM", "noreply@example.com")
	t.Setenv("SUPPORT_EMAIL", "support@example.com")
	t.Setenv("EMAIL_TEMPLATES_PATH", "../templates/email")

	opts := EmailOpts{
		Subject:      "Website published",
		TemplateName: "website_published",
		ToList:       []string{"owner@example.com"},
	}

	msg, err := RenderEmail(opts, map[string]any{
		"UserName":    "Ana",
		"WebsiteName": "Crème Brûlée Café",
		"WebsiteURL":  "https://builder.example.com/sites/creme-brulee-cafe",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	buf := &bytes.Buffer{}
	if _, err := msg.WriteTo(buf); err != nil {
		t.Fatalf("write: %v", err)
	}

	if !strings.Contains(buf.String(), "creme-brulee-cafe") {
		t.Error("the website URL is missing from the message")
	}

	if _, err := RenderEmail(EmailOpts{Subject: "Missing recipients", TemplateName: "website_published"}, nil); err == nil {
		t.Error("expected an error without recipients")
	}

	opts.TemplateName = "does_not_exist"
	if _, err := RenderEmail(opts, nil); err == nil {
		t.Error("expected an error for a missing template")
	}
}
