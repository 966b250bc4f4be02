package bootstrap

import (
	"github.com/kbukum/kafkaready/config"
)

// Config constrains the service config type. Embedding config.ServiceConfig
// by value provides all three methods through promotion:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Kafka kafka.Config   `yaml:"kafka" mapstructure:"kafka"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
