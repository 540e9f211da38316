// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Zamahele/TenantManagement-sub001/internal/config"
	"github.com/Zamahele/TenantManagement-sub001/internal/models"
)

// SMSSender delivers one text message to a phone number.
type SMSSender interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

// EmailSender delivers one e-mail.
type EmailSender interface {
	Send(to, subject, body string) error
}

// NotificationService holds the tenant and manager messaging used by the
// lease workflow and the reminder scheduler.
type NotificationService struct {
	config *config.Config
	sms    SMSSender
	email  EmailSender
}

func NewNotificationService(cfg *config.Config) *NotificationService {
	return &NotificationService{
		config: cfg,
		sms:    NewTwilioSender(cfg.SMS),
		email:  NewSMTPSender(cfg.Email),
	}
}

// NewNotificationServiceWithSenders wires explicit senders, used by tests.
func NewNotificationServiceWithSenders(cfg *config.Config, sms SMSSender, email EmailSender) *NotificationService {
	return &NotificationService{config: cfg, sms: sms, email: email}
}

// SendRentReminderSMS texts a tenant that rent falls due on dueDate.
func (s *NotificationService) SendRentReminderSMS(ctx context.Context, tenant *models.Tenant, amount float64, dueDate time.Time) error {
	message := fmt.Sprintf(
		"Hi %s, a friendly reminder that your rent of R%.2f is due on %s.",
		tenant.FullName, amount, dueDate.Format("02 Jan 2006"),
	)
	if err := s.sms.Send(ctx, tenant.PhoneNumber, message); err != nil {
		return wrapServiceError(ErrKindExternalServiceFailure, err, "failed to send rent reminder SMS to %s", tenant.PhoneNumber)
	}
	return nil
}

// SendLeaseToTenantEmail mails the tenant a link to review and sign a lease.
func (s *NotificationService) SendLeaseToTenantEmail(lease *models.Lease, tenant *models.Tenant) error {
	data := map[string]interface{}{
		"TenantName": tenant.FullName,
		"SigningURL": fmt.Sprintf("%s/leases/%s/sign", s.config.Frontend.BaseURL, lease.ID),
		"EndDate":    lease.EndDate.Format("02 Jan 2006"),
	}

	body, err := s.renderTemplate(leaseReadyTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render lease e-mail: %w", err)
	}

	if err := s.email.Send(tenant.Email, "Your lease agreement is ready to sign", body); err != nil {
		return wrapServiceError(ErrKindExternalServiceFailure, err, "failed to e-mail lease to %s", tenant.Email)
	}
	return nil
}

// SendOverdueLeasesEmail batches all overdue leases into one manager e-mail.
func (s *NotificationService) SendOverdueLeasesEmail(leases []models.Lease) error {
	if len(leases) == 0 || s.config.Reminder.ManagerEmail == "" {
		return nil
	}

	body, err := s.renderTemplate(overdueTemplate, map[string]interface{}{"Leases": leases})
	if err != nil {
		return fmt.Errorf("failed to render overdue e-mail: %w", err)
	}

	subject := fmt.Sprintf("Overdue rent: %d lease(s) need attention", len(leases))
	if err := s.email.Send(s.config.Reminder.ManagerEmail, subject, body); err != nil {
		return wrapServiceError(ErrKindExternalServiceFailure, err, "failed to send overdue digest")
	}
	return nil
}

// SendExpiringLeasesEmail batches leases ending soon into one manager e-mail.
func (s *NotificationService) SendExpiringLeasesEmail(leases []models.Lease, windowDays int) error {
	if len(leases) == 0 || s.config.Reminder.ManagerEmail == "" {
		return nil
	}

	body, err := s.renderTemplate(expiringTemplate, map[string]interface{}{
		"Leases":     leases,
		"WindowDays": windowDays,
	})
	if err != nil {
		return fmt.Errorf("failed to render expiry e-mail: %w", err)
	}

	subject := fmt.Sprintf("%d lease(s) expiring within %d days", len(leases), windowDays)
	if err := s.email.Send(s.config.Reminder.ManagerEmail, subject, body); err != nil {
		return wrapServiceError(ErrKindExternalServiceFailure, err, "failed to send expiry digest")
	}
	return nil
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

const leaseReadyTemplate = `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.TenantName}},</h2>
	<p>Your lease agreement has been prepared and is ready for your signature.</p>
	<p><a href="{{.SigningURL}}">Review and sign your lease</a></p>
	<p>The agreement runs until {{.EndDate}}.</p>
	<p>Best regards,<br>Property Management</p>
</body>
</html>`

const overdueTemplate = `
<!DOCTYPE html>
<html>
<body>
	<h2>Overdue rent</h2>
	<ul>
	{{range .Leases}}
		<li>{{.Tenant.FullName}} ({{.Tenant.PhoneNumber}}) — R{{printf "%.2f" .RentAmount}} outstanding</li>
	{{end}}
	</ul>
</body>
</html>`

const expiringTemplate = `
<!DOCTYPE html>
<html>
<body>
	<h2>Leases expiring within {{.WindowDays}} days</h2>
	<ul>
	{{range .Leases}}
		<li>{{.Tenant.FullName}} — lease ends {{.EndDate.Format "02 Jan 2006"}}</li>
	{{end}}
	</ul>
</body>
</html>`

// SMTPSender sends mail through the configured SMTP relay.
type SMTPSender struct {
	config config.EmailConfig
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{config: cfg}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	if s.config.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Email not configured, skipping send")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.SMTPHost, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, msg)
}

// TwilioSender sends SMS through the Twilio REST API.
type TwilioSender struct {
	accountSID string
	authToken  string
	from       string
	client     *http.Client
}

func NewTwilioSender(cfg config.SMSConfig) *TwilioSender {
	return &TwilioSender{
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		from:       cfg.TwilioFrom,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

type twilioResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (t *TwilioSender) Send(ctx context.Context, phoneNumber, message string) error {
	if t.accountSID == "" {
		logrus.WithField("to", phoneNumber).Info("SMS not configured, skipping send")
		return nil
	}

	urlStr := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", t.accountSID)

	data := url.Values{}
	data.Set("To", phoneNumber)
	data.Set("From", t.from)
	data.Set("Body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, urlStr, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.accountSID, t.authToken)

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var twilioResp twilioResponse
	if err := json.NewDecoder(resp.Body).Decode(&twilioResp); err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorMsg := fmt.Sprintf("Twilio API error: %d", resp.StatusCode)
		if twilioResp.Message != "" {
			errorMsg = fmt.Sprintf("%s - %s", errorMsg, twilioResp.Message)
		}
		return fmt.Errorf("%s", errorMsg)
	}

	return nil
}

var (
	_ SMSSender   = (*TwilioSender)(nil)
	_ EmailSender = (*SMTPSender)(nil)
)
