package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/matria/pkg/log"
)

type ServerConfig struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8085"`

	// ShutdownGraceSeconds bounds how long in-flight turns may finish.
	ShutdownGraceSeconds int `env:"HTTP_SHUTDOWN_GRACE" envDefault:"10"`
}

func NewServerConfig(ctx context.Context) *ServerConfig {
	c := &ServerConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Server config")
	}
	return c
}
