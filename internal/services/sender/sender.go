// Package services содержит отправку писем из очереди уведомлений.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tenderbridge/tender-bridge/internal/lib/sl"
	"github.com/tenderbridge/tender-bridge/internal/models"
	"github.com/tenderbridge/tender-bridge/internal/smtp"
)

// SenderService отправляет письма подтверждения почты и уведомления об истечении подписки.
type SenderService struct {
	transport smtp.TransportInterface
	baseURL   string
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
// baseURL — внешний адрес платформы для ссылок в письмах.
func NewSenderService(transport smtp.TransportInterface, baseURL string, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		baseURL:   baseURL,
		log:       log,
	}
}

// SendVerificationEmail отправляет письмо со ссылкой подтверждения электронной почты.
func (s *SenderService) SendVerificationEmail(body []byte) error {
	var message models.VerificationEmail
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Подтверждение электронной почты на TenderBridge"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nДля подтверждения электронной почты перейдите по ссылке:\n%s/api/v1/auth/verify-email?token=%s\n\nСсылка действительна 24 часа.",
		message.Username, s.baseURL, message.Token)

	return s.sendEmail(to, subject, bodyText)
}

// SendExpiryNotice отправляет уведомление о скором истечении подписки.
func (s *SenderService) SendExpiryNotice(body []byte) error {
	var message models.ExpiryNotice
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Уведомление о скором окончании подписки на TenderBridge"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВаша подписка на тариф %q заканчивается %s.\n\nЧтобы продлить её, оформите оплату в личном кабинете: %s/billing.",
		message.Username, message.Plan, message.ExpiresAt.Format("02.01.2006"), s.baseURL)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
