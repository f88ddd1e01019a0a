// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/procureflow/rfp-backend/internal/config"
	"github.com/procureflow/rfp-backend/internal/models"
)

type NotificationService struct {
	config *config.Config
	logger *logrus.Logger
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(cfg *config.Config, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		config: cfg,
		logger: logger,
	}
}

// SendRFPPublishedNotification tells suppliers a new RFP is open for responses.
func (s *NotificationService) SendRFPPublishedNotification(rfp *models.RFP, suppliers []models.User) {
	tmpl := s.getEmailTemplate("rfp_published")

	for i := range suppliers {
		supplier := &suppliers[i]

		data := map[string]interface{}{
			"SupplierName": supplier.Username,
			"RFPTitle":     rfp.Title,
			"RFPURL":       fmt.Sprintf("%s/rfps/%s", s.config.Frontend.BaseURL, rfp.ID),
		}

		subject := "New RFP Published - " + rfp.Title
		body, err := s.renderTemplate(tmpl.Body, data)
		if err != nil {
			s.logger.WithError(err).Error("Failed to render RFP published email")
			continue
		}

		if err := s.sendEmail(supplier.Email, subject, body); err != nil {
			s.logger.WithFields(logrus.Fields{
				"rfp_id":    rfp.ID,
				"recipient": supplier.Email,
			}).WithError(err).Error("Failed to send RFP published email")
		}
	}
}

// SendResponseSubmittedNotification tells the buyer a supplier responded.
func (s *NotificationService) SendResponseSubmittedNotification(rfp *models.RFP, buyer, supplier *models.User) {
	tmpl := s.getEmailTemplate("response_submitted")

	data := map[string]interface{}{
		"BuyerName":    buyer.Username,
		"SupplierName": supplier.Username,
		"RFPTitle":     rfp.Title,
		"ResponsesURL": fmt.Sprintf("%s/rfps/%s/responses", s.config.Frontend.BaseURL, rfp.ID),
	}

	subject := "New Response Received - " + rfp.Title
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		s.logger.WithError(err).Error("Failed to render response submitted email")
		return
	}

	if err := s.sendEmail(buyer.Email, subject, body); err != nil {
		s.logger.WithFields(logrus.Fields{
			"rfp_id":    rfp.ID,
			"recipient": buyer.Email,
		}).WithError(err).Error("Failed to send response submitted email")
	}
}

// SendResponseDecisionNotification tells a supplier their response was decided.
func (s *NotificationService) SendResponseDecisionNotification(rfp *models.RFP, supplier *models.User, status models.ResponseStatus) {
	templateType := "response_rejected"
	subject := "Response Update - " + rfp.Title
	if status == models.ResponseStatusApproved {
		templateType = "response_approved"
		subject = "Response Approved - " + rfp.Title
	}

	tmpl := s.getEmailTemplate(templateType)

	data := map[string]interface{}{
		"SupplierName": supplier.Username,
		"RFPTitle":     rfp.Title,
		"Status":       string(status),
		"ResponsesURL": fmt.Sprintf("%s/responses/my", s.config.Frontend.BaseURL),
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		s.logger.WithError(err).Error("Failed to render response decision email")
		return
	}

	if err := s.sendEmail(supplier.Email, subject, body); err != nil {
		s.logger.WithFields(logrus.Fields{
			"rfp_id":    rfp.ID,
			"recipient": supplier.Email,
			"status":    status,
		}).WithError(err).Error("Failed to send response decision email")
	}
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		s.logger.WithFields(logrus.Fields{
			"recipient": to,
			"subject":   subject,
		}).Info("Email delivery skipped (SMTP not configured)")
		return nil
	}

	// Setup authentication
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	// Compose message
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	// Send email
	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	// In a real implementation, these would be loaded from files or database
	templates := map[string]EmailTemplate{
		"rfp_published": {
			Subject: "New RFP Published",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>New RFP: {{.RFPTitle}}</h2>
	<p>Hello {{.SupplierName}},</p>
	<p>A new request for proposal has been published and is open for responses.</p>
	<a href="{{.RFPURL}}">View RFP</a>
	<p>Best regards,<br>ProcureFlow Team</p>
</body>
</html>`,
		},
		"response_submitted": {
			Subject: "New Response Received",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>New Response Received</h2>
	<p>Hello {{.BuyerName}},</p>
	<p>{{.SupplierName}} has submitted a response to your RFP "{{.RFPTitle}}".</p>
	<a href="{{.ResponsesURL}}">Review Responses</a>
	<p>Best regards,<br>ProcureFlow Team</p>
</body>
</html>`,
		},
		"response_approved": {
			Subject: "Response Approved",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Response Approved!</h2>
	<p>Hello {{.SupplierName}},</p>
	<p>Your response to "{{.RFPTitle}}" has been approved.</p>
	<a href="{{.ResponsesURL}}">View Your Responses</a>
	<p>Best regards,<br>ProcureFlow Team</p>
</body>
</html>`,
		},
		"response_rejected": {
			Subject: "Response Update",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Response Update</h2>
	<p>Hello {{.SupplierName}},</p>
	<p>Your response to "{{.RFPTitle}}" was not selected this time.</p>
	<a href="{{.ResponsesURL}}">View Your Responses</a>
	<p>Best regards,<br>ProcureFlow Team</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	// Default template
	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
