package config

import (
	"os"
	"sync"
)

type MailConfig struct {
	APIKey  string
	BaseURL string
	Sender  string
}

var (
	mailConfig *MailConfig
	mailOnce   sync.Once
)

func LoadMailConfig() *MailConfig {
	mailOnce.Do(func() {
		mailConfig = &MailConfig{
			APIKey:  os.Getenv("MAIL_API_KEY"),
			BaseURL: os.Getenv("MAIL_API_URL"),
			Sender:  os.Getenv("MAIL_SENDER"),
		}
	})
	return mailConfig
}
