package service

import (
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"
	"github.com/stadtlabs/konzeptvergabe/internal/config"
	"github.com/tidwall/gjson"
)

// Mail is a pre-rendered bundle; templating happens before delivery.
type Mail struct {
	Subject string
	Plain   string
	HTML    string
}

type MailServiceInterface interface {
	Send(address string, mail Mail) error
}

type MailService struct {
	client *resty.Client
	sender string
}

func NewMailService() *MailService {
	cfg := config.LoadMailConfig()
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetRetryCount(1)
	return &MailService{client: client, sender: cfg.Sender}
}

func (s *MailService) Send(address string, mail Mail) error {
	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"from":    s.sender,
			"to":      address,
			"subject": mail.Subject,
			"text":    mail.Plain,
			"html":    mail.HTML,
		}).
		Post("/v1/messages")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("mail api returned %d: %s", resp.StatusCode(), resp.String())
	}

	messageID := gjson.Get(resp.String(), "id").String()
	if messageID == "" {
		return fmt.Errorf("mail api returned no message id")
	}
	log.Printf("mail delivered to %s (message id %s)", address, messageID)
	return nil
}
