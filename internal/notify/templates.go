package notify

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/oggyb/portfolio-backend/internal/mail"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Email template names. Each has a ".subject" and a ".body" definition.
const (
	tplContactAdmin         = "contact_admin"
	tplContactConfirmation  = "contact_confirmation"
	tplScheduleAdmin        = "schedule_admin"
	tplScheduleConfirmation = "schedule_confirmation"
	tplScheduleReminder     = "schedule_reminder"
)

var templates = template.Must(
	template.New("mail").
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"stamp":    func(t time.Time) string { return t.UTC().Format(time.DateTime) },
			"longdate": func(t time.Time) string { return t.Format("January 02, 2006") },
		}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

// Owner is the signature printed under submitter-facing emails.
type Owner struct {
	Name  string
	Title string
}

type templateData struct {
	Record any
	Owner  Owner
}

// render builds a message from the named subject and body templates.
func render(name string, data templateData, from string, to ...string) (mail.Message, error) {
	var subject, body strings.Builder

	if err := templates.ExecuteTemplate(&subject, name+".subject", data); err != nil {
		return mail.Message{}, fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := templates.ExecuteTemplate(&body, name+".body", data); err != nil {
		return mail.Message{}, fmt.Errorf("render %s body: %w", name, err)
	}

	return mail.Message{
		From:    from,
		To:      to,
		Subject: strings.TrimSpace(subject.String()),
		Body:    body.String(),
	}, nil
}
