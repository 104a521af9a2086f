package utils

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/jvtipil/unfolde/config"
)

// SendMail sends an HTML email using SMTP settings from config.
func SendMail(to, subject, htmlBody string) error {
	cfg := config.Get()
	if cfg.SMTPHost == "" || cfg.SMTPFrom == "" {
		return fmt.Errorf("smtp not configured")
	}

	fromName := cfg.SMTPFromName
	if fromName == "" {
		fromName = "Unfolde"
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", cfg.SMTPFrom, fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	return d.DialAndSend(m)
}

// SendMailAsync dispatches an email in the background, logging failures.
func SendMailAsync(to, subject, htmlBody string) {
	go func() {
		if err := SendMail(to, subject, htmlBody); err != nil {
			if Sugar != nil {
				Sugar.Warnf("send mail to %s failed: %v", to, err)
			}
		}
	}()
}
