package config

import "time"

// TelegramConfig holds Telegram-specific configuration
type TelegramConfig struct {
	BotToken string `env:"TELEGRAM_BOT_TOKEN" yaml:"-"`
	Debug    bool   `env:"TELEGRAM_DEBUG" yaml:"debug"`
	// ReplyTimeout bounds one dialogue round trip for a Telegram update
	ReplyTimeout time.Duration `env:"TELEGRAM_REPLY_TIMEOUT" yaml:"reply_timeout" default:"15s"`
}

// Enabled returns true if Telegram is configured with a bot token
func (c *TelegramConfig) Enabled() bool {
	return c.BotToken != ""
}
