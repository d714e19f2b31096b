package main

import (
	"net/url"
	"time"
)

// serviceConfig is the sample binding target the CLI demonstrates the
// engine against. It exercises every attribute shape the engine supports:
// a plain scalar, a legacy-aliased attribute, a security-sensitive
// attribute, an enum, a set, a list, an optional, and a registered-factory
// type (time.Duration).
type serviceConfig struct {
	HTTPPort int    `config:"http.port" validate:"min=1,max=65535"`
	HTTPHost string `config:"http.host" legacy:"server.host,net.bind-address"`

	DatabasePassword string `config:"database.password" secret:"true"`

	LogLevel logLevel `config:"log.level"`

	AllowedOrigins map[string]struct{} `config:"cors.allowed-origins"`
	Tags           []string            `config:"app.tags"`

	MetricsPath *string `config:"metrics.path"`

	ShutdownGrace time.Duration `config:"server.shutdown-grace" legacy:"server.shutdown-timeout"`

	UpstreamURL url.URL `config:"upstream.url"`
}

// DefunctProperties lists properties this configuration once accepted and
// no longer does; binding a property file that still sets one of these is
// a hard error rather than a silently ignored key.
func (serviceConfig) DefunctProperties() []string {
	return []string{"server.worker-threads"}
}

type logLevel string

func (logLevel) EnumValues() []string {
	return []string{"DEBUG", "INFO", "WARN", "ERROR"}
}
