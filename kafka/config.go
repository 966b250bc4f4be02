package kafka

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/kafkaready/security"
	"github.com/kbukum/kafkaready/validation"
)

// Config is the `kafka:` block: connection settings, the topics to
// provision at startup and the producer settings.
type Config struct {
	// Enabled controls whether the Kafka component is active.
	Enabled bool `mapstructure:"enabled"`

	// Brokers is the list of bootstrap broker addresses.
	Brokers  []string `mapstructure:"brokers" validate:"required,min=1,dive,hostname_port"`
	ClientID string   `mapstructure:"client_id"`

	// TopicName is the topic status events are published to.
	TopicName string `mapstructure:"topic_name"`
	// TopicNamesToCreate are provisioned and awaited before the service starts producing.
	TopicNamesToCreate []string `mapstructure:"topic_names_to_create"`
	NumOfPartitions    int      `mapstructure:"num_of_partitions" validate:"gte=1"`
	ReplicationFactor  int      `mapstructure:"replication_factor" validate:"gte=1"`

	// TLS
	EnableTLS     bool   `mapstructure:"enable_tls"`
	TLSSkipVerify bool   `mapstructure:"tls_skip_verify"`
	TLSCAFile     string `mapstructure:"tls_ca_file"`
	TLSCertFile   string `mapstructure:"tls_cert_file"`
	TLSKeyFile    string `mapstructure:"tls_key_file"`

	// SASL
	EnableSASL    bool   `mapstructure:"enable_sasl"`
	SASLMechanism string `mapstructure:"sasl_mechanism"` // PLAIN, SCRAM-SHA-256, SCRAM-SHA-512
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`

	// Connection settings
	DialTimeout string `mapstructure:"dial_timeout"`
	IdleTimeout string `mapstructure:"idle_timeout"`
	// MetadataTTL applies to the producer transport only; admin listings
	// always ask a broker.
	MetadataTTL string `mapstructure:"metadata_ttl"`
	// AdminTimeout bounds each admin connection, from dial to response.
	AdminTimeout string `mapstructure:"admin_timeout"`

	Producer ProducerConfig `mapstructure:"producer"`
}

// ProducerConfig holds the writer settings.
type ProducerConfig struct {
	// BatchSize is the batch size in bytes before the boost factor is applied.
	BatchSize            int    `mapstructure:"batch_size" validate:"gte=1"`
	BatchSizeBoostFactor int    `mapstructure:"batch_size_boost_factor" validate:"gte=1"`
	Linger               string `mapstructure:"linger"`
	Compression          string `mapstructure:"compression_type"` // none, gzip, snappy, lz4, zstd
	// Acks is the acknowledgement level: all, 1 or 0.
	Acks           string `mapstructure:"acks" validate:"oneof=all -1 0 1"`
	RequestTimeout string `mapstructure:"request_timeout"`
	Retries        int    `mapstructure:"retry_count" validate:"gte=1"`
}

// BatchBytes is the effective writer batch size: BatchSize * BatchSizeBoostFactor.
func (p ProducerConfig) BatchBytes() int64 {
	return int64(p.BatchSize) * int64(p.BatchSizeBoostFactor)
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if len(c.Brokers) == 0 {
		c.Brokers = []string{"localhost:9092"}
	}
	if c.ClientID == "" {
		c.ClientID = "kafkaready"
	}
	if c.NumOfPartitions <= 0 {
		c.NumOfPartitions = 3
	}
	if c.ReplicationFactor <= 0 {
		c.ReplicationFactor = 1
	}
	if c.TopicName != "" && len(c.TopicNamesToCreate) == 0 {
		c.TopicNamesToCreate = []string{c.TopicName}
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "10s"
	}
	if c.IdleTimeout == "" {
		c.IdleTimeout = "30s"
	}
	if c.MetadataTTL == "" {
		c.MetadataTTL = "6s"
	}
	if c.AdminTimeout == "" {
		c.AdminTimeout = "30s"
	}
	if c.SASLMechanism == "" && c.EnableSASL {
		c.SASLMechanism = "PLAIN"
	}
	c.Producer.applyDefaults()
}

func (p *ProducerConfig) applyDefaults() {
	if p.BatchSize <= 0 {
		p.BatchSize = 16384
	}
	if p.BatchSizeBoostFactor <= 0 {
		p.BatchSizeBoostFactor = 1
	}
	if p.Linger == "" {
		p.Linger = "5ms"
	}
	if p.Compression == "" {
		p.Compression = "snappy"
	}
	if p.Acks == "" {
		p.Acks = "all"
	}
	if p.RequestTimeout == "" {
		p.RequestTimeout = "60s"
	}
	if p.Retries <= 0 {
		p.Retries = 5
	}
}

// Validate checks that required fields are present and parseable.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := validation.Validate(c); err != nil {
		return err
	}

	v := validation.New()
	for i, name := range c.TopicNamesToCreate {
		v.Required(fmt.Sprintf("topic_names_to_create[%d]", i), name)
	}
	v.Duration("dial_timeout", c.DialTimeout).
		Duration("idle_timeout", c.IdleTimeout).
		Duration("metadata_ttl", c.MetadataTTL).
		Duration("admin_timeout", c.AdminTimeout).
		Duration("producer.linger", c.Producer.Linger).
		Duration("producer.request_timeout", c.Producer.RequestTimeout).
		OneOf("producer.compression_type", c.Producer.Compression, []string{"none", "gzip", "snappy", "lz4", "zstd"})
	if c.EnableTLS {
		v.Custom((c.TLSCertFile == "") == (c.TLSKeyFile == ""), "tls_cert_file", "tls_cert_file and tls_key_file must be set together")
	}
	if c.EnableSASL {
		v.OneOf("sasl_mechanism", c.SASLMechanism, []string{"PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"}).
			Required("username", c.Username)
	}
	return v.Error()
}

// TrimmedTopicNames returns TopicNamesToCreate with surrounding whitespace removed.
func (c *Config) TrimmedTopicNames() []string {
	names := make([]string, 0, len(c.TopicNamesToCreate))
	for _, n := range c.TopicNamesToCreate {
		names = append(names, strings.TrimSpace(n))
	}
	return names
}

// TLS maps the flat tls_* keys onto the shared TLS settings.
func (c *Config) TLS() security.TLSConfig {
	return security.TLSConfig{
		Enabled:    c.EnableTLS,
		SkipVerify: c.TLSSkipVerify,
		CAFile:     c.TLSCAFile,
		CertFile:   c.TLSCertFile,
		KeyFile:    c.TLSKeyFile,
	}
}

// ParseDuration parses a duration string, returning zero on empty or invalid input.
func ParseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
