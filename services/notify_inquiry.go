package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/rpupo63/realestate-site/models"
	"github.com/rs/zerolog/log"
)

var inquiryEmail = template.Must(template.New("inquiry").Parse(`<h2>New contact inquiry</h2>
<p><strong>{{.Name}}</strong> &lt;{{.Email}}&gt;{{if .Phone}} · {{.Phone}}{{end}}</p>
{{if .Subject}}<p>Subject: {{.Subject}}</p>{{end}}
{{if .ProjectSlug}}<p>Project: {{.ProjectSlug}}</p>{{end}}
<p style="white-space: pre-wrap">{{.Message}}</p>
<p style="color:#888">Received {{.CreatedAt.Format "2006-01-02 15:04 MST"}}</p>
`))

// Notifier fans a contact inquiry out to staff over e-mail and SMS.
type Notifier struct {
	Email *EmailSender
	SMS   *SMSSender
}

func NewNotifier(cfg map[string]string) *Notifier {
	n := &Notifier{Email: NewEmailSender(cfg), SMS: NewSMSSender(cfg)}
	log.Info().
		Bool("email", n.Email != nil).
		Bool("sms", n.SMS != nil).
		Msg("Inquiry notification channels")
	return n
}

type inquiryView struct {
	models.ContactInquiry
	ProjectSlug string
}

// NotifyInquiry attempts every configured channel even if some fail.
//
// Returns:
//   - error: combined message if any channel failed, nil if all succeeded or none is
//     configured. Individual failures are logged.
func (n *Notifier) NotifyInquiry(ctx context.Context, inquiry models.ContactInquiry) error {
	var errors []string
	var successes []string

	if n.Email != nil {
		view := inquiryView{ContactInquiry: inquiry}
		if inquiry.ProjectSlug != nil {
			view.ProjectSlug = *inquiry.ProjectSlug
		}
		var body bytes.Buffer
		if err := inquiryEmail.Execute(&body, view); err != nil {
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else if err := n.Email.SendEmail(ctx, inquirySubject(inquiry), body.String(), inquiry.Email); err != nil {
			log.Error().Err(err).Msg("Failed to e-mail inquiry")
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			successes = append(successes, "Email")
		}
	}

	if n.SMS != nil {
		text := fmt.Sprintf("New inquiry from %s (%s): %s", inquiry.Name, contactOf(inquiry), inquiry.Message)
		if err := n.SMS.SendSMS(text); err != nil {
			errors = append(errors, fmt.Sprintf("SMS: %v", err))
		} else {
			successes = append(successes, "SMS")
		}
	}

	if len(successes) > 0 {
		log.Info().Strs("channels", successes).Str("inquiryId", inquiry.ID.String()).Msg("Inquiry notification sent")
	}
	if len(errors) > 0 {
		return fmt.Errorf("some channels failed: %s", strings.Join(errors, "; "))
	}
	return nil
}

func inquirySubject(inquiry models.ContactInquiry) string {
	if inquiry.Subject != "" {
		return "[Website] " + inquiry.Subject
	}
	return "[Website] New inquiry from " + inquiry.Name
}

func contactOf(inquiry models.ContactInquiry) string {
	if inquiry.Phone != "" {
		return inquiry.Phone
	}
	return inquiry.Email
}
