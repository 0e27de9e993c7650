package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/matria/pkg/log"
)

type NotifyConfig struct {
	// WebhookURL receives escalation events. Empty disables delivery;
	// escalations are then only logged.
	WebhookURL string `env:"ESCALATION_WEBHOOK_URL"`

	QueueSize      int `env:"ESCALATION_QUEUE_SIZE" envDefault:"64"`
	TimeoutSeconds int `env:"ESCALATION_TIMEOUT" envDefault:"10"`
}

func NewNotifyConfig(ctx context.Context) *NotifyConfig {
	c := &NotifyConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Notify config")
	}
	return c
}
