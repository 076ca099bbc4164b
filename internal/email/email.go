// Package email sends transactional mail through Resend.
package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"
	"github.com/rs/zerolog/log"
)

// Sender dispatches a verification email carrying the given token.
type Sender interface {
	SendVerification(toEmail, token string) error
}

const verificationTemplate = `
<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto;">
  <h2>Welcome to Contacts</h2>
  <p>Please confirm your email address to activate your account.</p>
  <p>
    <a href="{{.VerifyURL}}"
       style="display: inline-block; padding: 10px 18px; background: #2563eb; color: #fff; border-radius: 6px; text-decoration: none;">
      Verify email
    </a>
  </p>
  <p>Or open this link: <a href="{{.VerifyURL}}">{{.VerifyURL}}</a></p>
  <p style="color: #6b7280;">If you did not create an account, you can ignore this message.</p>
</div>`

// ResendSender sends verification mail via the Resend API. With no API
// key configured it degrades to logging the verification link, so local
// runs work without an account.
type ResendSender struct {
	client  *resend.Client
	from    string
	baseURL string
	tmpl    *template.Template
}

// NewResendSender creates a ResendSender. An empty apiKey disables
// actual dispatch.
func NewResendSender(apiKey, from, baseURL string) *ResendSender {
	s := &ResendSender{
		from:    from,
		baseURL: baseURL,
		tmpl:    template.Must(template.New("verification").Parse(verificationTemplate)),
	}
	if apiKey != "" {
		s.client = resend.NewClient(apiKey)
	}
	return s
}

// SendVerification mails the verification link embedding token.
func (s *ResendSender) SendVerification(toEmail, token string) error {
	verifyURL := fmt.Sprintf("%s/api/users/verify/%s", s.baseURL, token)

	if s.client == nil {
		log.Warn().Str("email", toEmail).Str("url", verifyURL).
			Msg("RESEND_API_KEY not set, skipping verification email")
		return nil
	}

	var body bytes.Buffer
	if err := s.tmpl.Execute(&body, struct{ VerifyURL string }{VerifyURL: verifyURL}); err != nil {
		return fmt.Errorf("rendering verification email: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "Verify your email",
		Html:    body.String(),
	}
	if _, err := s.client.Emails.Send(params); err != nil {
		return fmt.Errorf("sending verification email: %w", err)
	}

	log.Info().Str("email", toEmail).Msg("Verification email sent")
	return nil
}
