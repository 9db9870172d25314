package email

import (
	"crypto/tls"
	"fmt"
	"html"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendWelcomeEmail(toEmail, toName string) error
	SendSubscriptionConfirmation(toEmail, toName, serviceType string) error
	SendUnsubscribeConfirmation(toEmail, serviceType string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	BaseURL   string // public URL of the frontend, used in links
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger.With().Str("component", "email").Logger(),
	}
}

func (s *EmailServiceImpl) configured() bool {
	return s.config.Host != "" && s.config.Username != "" && s.config.Password != ""
}

// SendWelcomeEmail greets a newly registered user
func (s *EmailServiceImpl) SendWelcomeEmail(toEmail, toName string) error {
	if !s.configured() {
		s.logger.Warn().Str("toEmail", toEmail).Msg("SMTP not configured - welcome email not sent")
		return nil
	}

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome to NextStep!</h2>
				<p>Hello %s,</p>
				<p>Your account is ready. Complete your profile, enroll in a course and start earning XP.</p>
				<p><a href="%s">Open NextStep</a></p>
				<p>Best regards,<br>The NextStep Team</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(toName), html.EscapeString(s.config.BaseURL))

	return s.sendHTMLEmail(toEmail, "Welcome to NextStep", body)
}

// SendSubscriptionConfirmation confirms a (re)activated subscription
func (s *EmailServiceImpl) SendSubscriptionConfirmation(toEmail, toName, serviceType string) error {
	if !s.configured() {
		s.logger.Warn().Str("toEmail", toEmail).Str("serviceType", serviceType).Msg("SMTP not configured - subscription confirmation not sent")
		return nil
	}

	greeting := "Hello"
	if strings.TrimSpace(toName) != "" {
		greeting = "Hello " + html.EscapeString(toName)
	}

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<p>%s,</p>
				<p>You are now subscribed to <strong>%s</strong>.</p>
				<p>You can unsubscribe at any time from %s.</p>
				<p>The NextStep Team</p>
			</div>
		</body>
		</html>
	`, greeting, html.EscapeString(serviceType), html.EscapeString(s.config.BaseURL))

	return s.sendHTMLEmail(toEmail, "Subscription confirmed", body)
}

// SendUnsubscribeConfirmation acknowledges an unsubscribe
func (s *EmailServiceImpl) SendUnsubscribeConfirmation(toEmail, serviceType string) error {
	if !s.configured() {
		s.logger.Warn().Str("toEmail", toEmail).Str("serviceType", serviceType).Msg("SMTP not configured - unsubscribe confirmation not sent")
		return nil
	}

	body := fmt.Sprintf(`
		<html>
		<body>
			<p>You have been unsubscribed from <strong>%s</strong>. We are sorry to see you go.</p>
		</body>
		</html>
	`, html.EscapeString(serviceType))

	return s.sendHTMLEmail(toEmail, "You have been unsubscribed", body)
}

// BuildMessage renders the RFC 5322 message with a fixed header order
func BuildMessage(fromName, fromEmail, toEmail, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", fromName, fromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", toEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	message := BuildMessage(s.config.FromName, s.config.FromEmail, toEmail, subject, htmlBody)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, message); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
