package helpers

import (
	"errors"
	"fmt"

	"github.com/oksasatya/go-pos-backoffice/pkg/mailer"
	mailtpl "github.com/oksasatya/go-pos-backoffice/pkg/mailer/templates"
)

// ErrEmptyEmail is returned for jobs that carry neither a template nor a body.
var ErrEmptyEmail = errors.New("email job has no template and no body")

func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// RenderJob resolves the subject and bodies to send for a queued job.
// Templated jobs are rendered; plain jobs are passed through.
func RenderJob(job *mailer.EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		if job.Text == "" && job.HTML == "" {
			return "", "", "", ErrEmptyEmail
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	EnsureRecipientAndEmail(job)
	subject, text, html, err = mailtpl.Render(job.Template, job.Data)
	if err != nil {
		return "", "", "", fmt.Errorf("render %s: %w", job.Template, err)
	}
	if job.Subject != "" {
		subject = job.Subject
	}
	return subject, text, html, nil
}
