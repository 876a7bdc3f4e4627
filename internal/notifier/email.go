package notifier

import (
	"fmt"
	"net/smtp"
	"strings"
)

// EmailProvider sends alerts to a rule's recipients over SMTP. No
// example repo in the corpus sends email, so this uses the standard
// library's net/smtp directly rather than a third-party client; see
// DESIGN.md.
type EmailProvider struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	auth     smtp.Auth
}

// NewEmailProvider builds an SMTP-backed email provider.
func NewEmailProvider(host, port, username, password, from string) *EmailProvider {
	return &EmailProvider{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		auth:     smtp.PlainAuth("", username, password, host),
	}
}

// Send emails notification to n.Recipients["email"]. A notification
// with no email recipients is a no-op, not an error.
func (p *EmailProvider) Send(n Notification) error {
	addresses := n.Recipients["email"]
	if len(addresses) == 0 {
		return nil
	}

	subject := fmt.Sprintf("[MoniFlow] %s: %s", strings.ToUpper(string(n.Status)), n.MetricName)
	body := fmt.Sprintf(
		"Metric: %s\r\nField: %s\r\nComparison: %s %.2f\r\nTime: %s\r\n\r\n%s",
		n.MetricName, n.FieldName, n.Comparison, n.Threshold, n.Time.Format("2006-01-02 15:04:05"), n.Message,
	)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		p.From, strings.Join(addresses, ","), subject, body)

	addr := fmt.Sprintf("%s:%s", p.Host, p.Port)
	if err := smtp.SendMail(addr, p.auth, p.From, addresses, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
