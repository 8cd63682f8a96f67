// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/storeapp/store-backend/internal/config"
	"github.com/storeapp/store-backend/internal/models"
)

// NotificationService dispatches outbound email. Every send is
// fire-and-forget from the caller's perspective: a failed dispatch is
// logged but never rolls back the state change that triggered it.
type NotificationService struct {
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(config *config.Config) *NotificationService {
	return &NotificationService{
		config: config,
	}
}

func (s *NotificationService) SendVerificationEmail(user *models.User, verification *models.EmailVerification) error {
	data := map[string]interface{}{
		"Username":        user.Username,
		"Email":           user.Email,
		"VerificationURL": fmt.Sprintf("%s/verify-email?code=%s", s.config.Frontend.BaseURL, verification.Code),
		"ExpiresAt":       verification.Expiration.Format("2006-01-02 15:04 MST"),
	}

	subject := fmt.Sprintf("Verifying account for %s", user.Username)
	body, err := s.renderTemplate(verificationEmailBody, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

func (s *NotificationService) SendOrderConfirmationEmail(user *models.User, order *models.Order) error {
	data := map[string]interface{}{
		"FirstName": order.FirstName,
		"OrderID":   order.ID.String(),
		"TotalSum":  models.SnapshotTotal(order.BasketHistory),
		"OrderURL":  fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, order.ID),
	}

	subject := fmt.Sprintf("Order confirmation #%s", order.ID)
	body, err := s.renderTemplate(orderConfirmationBody, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(order.Email, subject, body)
}

func (s *NotificationService) renderTemplate(tmpl string, data map[string]interface{}) (string, error) {
	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPUsername == "" {
		// Local development without SMTP credentials
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("SMTP not configured, skipping email dispatch")
		return nil
	}

	auth := smtp.PlainAuth(
		"",
		s.config.Email.SMTPUsername,
		s.config.Email.SMTPPassword,
		s.config.Email.SMTPHost,
	)

	msg := fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.config.Email.FromName,
		s.config.Email.FromEmail,
		to,
		subject,
		body,
	)

	addr := s.config.Email.SMTPHost + ":" + s.config.Email.SMTPPort
	if err := smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, []byte(msg)); err != nil {
		logrus.WithError(err).WithField("to", to).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

const verificationEmailBody = `
<html>
<body>
	<p>Hi {{.Username}},</p>
	<p>For verifying email for {{.Email}} follow the link:</p>
	<p><a href="{{.VerificationURL}}">{{.VerificationURL}}</a></p>
	<p>The link is valid until {{.ExpiresAt}}.</p>
</body>
</html>
`

const orderConfirmationBody = `
<html>
<body>
	<p>Hi {{.FirstName}},</p>
	<p>Thanks! Your order <a href="{{.OrderURL}}">#{{.OrderID}}</a> has been paid.</p>
	<p>Total: {{printf "%.2f" .TotalSum}}</p>
</body>
</html>
`
