package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"riffs-backend/internal/config"
)

// Service sends transactional mail over SMTP.
type Service struct {
	cfg config.EmailConfig
}

func NewService(cfg config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendVerificationEmail mails the account verification link.
func (s *Service) SendVerificationEmail(to, displayName, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", strings.TrimRight(s.cfg.BaseURL, "/"), token)

	subject := "Verify your Riffs account"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"Welcome to Riffs! Confirm your email address to start sharing clips:\r\n\r\n"+
			"%s\r\n\r\n"+
			"The link expires in 24 hours. If you didn't sign up, ignore this email.\r\n",
		displayName, link)

	return s.send(to, subject, body)
}

// SendPasswordResetEmail mails a password reset link.
func (s *Service) SendPasswordResetEmail(to, displayName, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(s.cfg.BaseURL, "/"), token)

	subject := "Reset your Riffs password"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"Someone requested a password reset for your account. If that was you, follow this link:\r\n\r\n"+
			"%s\r\n\r\n"+
			"The link expires in 1 hour. Otherwise no action is needed.\r\n",
		displayName, link)

	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}

	msg := strings.Builder{}
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, s.cfg.FromEmail))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	log.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}
