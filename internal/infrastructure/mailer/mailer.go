package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/agroparts/payment-service/internal/config"
	"github.com/agroparts/payment-service/internal/domain"
)

// Mailer sends transactional email through the configured HTTP email API.
// When no API is configured it durably records the message as an
// EMAIL_PENDING notification instead, so environments without email
// credentials lose nothing.
type Mailer struct {
	cfg           config.MailerConfig
	http          *http.Client
	notifications domain.NotificationRepository
}

func NewMailer(cfg config.MailerConfig, notifications domain.NotificationRepository) *Mailer {
	return &Mailer{
		cfg:           cfg,
		http:          &http.Client{Timeout: 10 * time.Second},
		notifications: notifications,
	}
}

func (m *Mailer) Send(msg domain.EmailMessage) error {
	if m.cfg.APIURL == "" || m.cfg.APIKey == "" {
		return m.store(msg)
	}

	body, err := json.Marshal(map[string]interface{}{
		"from":    m.cfg.FromEmail,
		"to":      msg.To,
		"subject": msg.Subject,
		"type":    msg.Type,
		"data":    msg.Data,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, m.cfg.APIURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)

	response, err := m.http.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("email api returned status %d", response.StatusCode)
}

func (m *Mailer) store(msg domain.EmailMessage) error {
	metadata, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	slog.Warn("email api not configured, storing message for later processing", "to", msg.To, "type", msg.Type)
	return m.notifications.CreateNotification(&domain.Notification{
		Type:     domain.NotificationEmailPending,
		Title:    msg.Subject,
		Body:     msg.Type,
		Metadata: string(metadata),
	})
}
