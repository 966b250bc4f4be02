package schemaregistry

import (
	"time"

	"github.com/kbukum/kafkaready/httpclient"
	"github.com/kbukum/kafkaready/security"
	"github.com/kbukum/kafkaready/validation"
)

// Config is the `schema_registry:` block.
type Config struct {
	Enabled bool `mapstructure:"enabled"`
	// URL is polled with GET; any 2xx answer means healthy.
	URL      string        `mapstructure:"url" validate:"required,url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`

	TLS security.TLSConfig `mapstructure:"tls"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
}

// Validate checks the block when the registry is enabled.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	return c.TLS.Validate()
}

// NewClient builds the health check client, with basic auth when a username is set.
func NewClient(cfg Config) (*httpclient.Client, error) {
	hc := httpclient.Config{Timeout: cfg.Timeout, TLS: &cfg.TLS}
	if cfg.Username != "" {
		hc.Auth = httpclient.BasicAuth(cfg.Username, cfg.Password)
	}
	return httpclient.New(hc)
}
