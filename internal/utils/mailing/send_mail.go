package mailing

import (
	"Mataam-Backoffice/internal/utils"
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

type smtpConfig struct {
	host     string
	port     int
	sender   string
	email    string
	password string
}

func loadSMTPConfig() (smtpConfig, error) {
	rawPort := utils.GetConfig("SMTP_PORT")
	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return smtpConfig{}, fmt.Errorf("invalid SMTP_PORT %q: %w", rawPort, err)
	}
	cfg := smtpConfig{
		host:     utils.GetConfig("SMTP_HOST"),
		port:     port,
		sender:   utils.GetConfig("SMTP_SENDER_NAME"),
		email:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		password: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
	if cfg.host == "" {
		return smtpConfig{}, fmt.Errorf("SMTP_HOST is not configured")
	}
	if cfg.sender == "" {
		cfg.sender = "Mataam Back Office"
	}
	return cfg, nil
}

// SendMail delivers one HTML mail through the configured SMTP relay.
// Callers treat failures as non-fatal; account flows keep working and the
// mail can be re-triggered.
func SendMail(toEmail string, subject string, body string) error {
	cfg, err := loadSMTPConfig()
	if err != nil {
		return err
	}

	message := gomail.NewMessage()
	message.SetAddressHeader("From", cfg.email, cfg.sender)
	message.SetHeader("To", toEmail)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", body)

	dialer := gomail.NewDialer(cfg.host, cfg.port, cfg.email, cfg.password)
	if err := dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("send mail to %s: %w", toEmail, err)
	}
	return nil
}
