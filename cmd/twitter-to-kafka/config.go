package main

import (
	"fmt"

	"github.com/kbukum/kafkaready/config"
	"github.com/kbukum/kafkaready/kafka"
	"github.com/kbukum/kafkaready/observability"
	"github.com/kbukum/kafkaready/resilience"
	"github.com/kbukum/kafkaready/schemaregistry"
	"github.com/kbukum/kafkaready/server"
	"github.com/kbukum/kafkaready/stream"
)

// AppConfig is the full twitter-to-kafka configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Retry          resilience.Config     `yaml:"retry" mapstructure:"retry"`
	Kafka          kafka.Config          `yaml:"kafka" mapstructure:"kafka"`
	SchemaRegistry schemaregistry.Config `yaml:"schema_registry" mapstructure:"schema_registry"`
	Server         server.Config         `yaml:"server" mapstructure:"server"`
	Observability  observability.Config  `yaml:"observability" mapstructure:"observability"`
	TwitterToKafka stream.Config         `yaml:"twitter_to_kafka" mapstructure:"twitter_to_kafka"`
}

// ApplyDefaults fills every block.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Retry.ApplyDefaults()
	c.Kafka.ApplyDefaults()
	c.SchemaRegistry.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.TwitterToKafka.ApplyDefaults()
}

// Validate checks every block and prefixes errors with the block name.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	checks := []struct {
		block string
		fn    func() error
	}{
		{"retry", c.Retry.Validate},
		{"kafka", c.Kafka.Validate},
		{"schema_registry", c.SchemaRegistry.Validate},
		{"server", c.Server.Validate},
		{"observability", c.Observability.Validate},
		{"twitter_to_kafka", c.TwitterToKafka.Validate},
	}
	for _, check := range checks {
		if err := check.fn(); err != nil {
			return fmt.Errorf("%s: %w", check.block, err)
		}
	}
	return nil
}
