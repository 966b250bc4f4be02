package kafka

import (
	"crypto/tls"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// CreateTransport builds the kafka-go transport the producer writes
// through. TLS and SASL are layered on only when enabled.
func CreateTransport(cfg *Config) (*kafkago.Transport, error) {
	tc, mechanism, err := connectionSecurity(cfg)
	if err != nil {
		return nil, err
	}
	return &kafkago.Transport{
		ClientID:    cfg.ClientID,
		DialTimeout: ParseDuration(cfg.DialTimeout),
		IdleTimeout: ParseDuration(cfg.IdleTimeout),
		MetadataTTL: ParseDuration(cfg.MetadataTTL),
		TLS:         tc,
		SASL:        mechanism,
	}, nil
}

// NewDialer returns the dialer the admin client opens broker connections
// with. Unlike a Transport it keeps no metadata cache, so every request it
// carries is answered by a broker.
func NewDialer(cfg *Config) (*kafkago.Dialer, error) {
	tc, mechanism, err := connectionSecurity(cfg)
	if err != nil {
		return nil, err
	}
	return &kafkago.Dialer{
		ClientID:      cfg.ClientID,
		Timeout:       ParseDuration(cfg.DialTimeout),
		DualStack:     true,
		TLS:           tc,
		SASLMechanism: mechanism,
	}, nil
}

func connectionSecurity(cfg *Config) (*tls.Config, sasl.Mechanism, error) {
	tlsCfg := cfg.TLS()
	tc, err := tlsCfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("TLS config: %w", err)
	}
	if !cfg.EnableSASL {
		return tc, nil, nil
	}
	mechanism, err := buildSASLMechanism(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("SASL config: %w", err)
	}
	return tc, mechanism, nil
}

var scramAlgorithms = map[string]scram.Algorithm{
	"SCRAM-SHA-256": scram.SHA256,
	"SCRAM-SHA-512": scram.SHA512,
}

func buildSASLMechanism(cfg *Config) (sasl.Mechanism, error) {
	if cfg.SASLMechanism == "PLAIN" {
		return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}, nil
	}
	if algo, ok := scramAlgorithms[cfg.SASLMechanism]; ok {
		return scram.Mechanism(algo, cfg.Username, cfg.Password)
	}
	return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.SASLMechanism)
}

var compressionCodecs = map[string]kafkago.Compression{
	"gzip":   kafkago.Gzip,
	"snappy": kafkago.Snappy,
	"lz4":    kafkago.Lz4,
	"zstd":   kafkago.Zstd,
	"none":   0,
}

// ResolveCompression maps a producer compression name to a kafka-go codec.
// Unknown or empty names fall back to snappy.
func ResolveCompression(name string) kafkago.Compression {
	if c, ok := compressionCodecs[name]; ok {
		return c
	}
	return kafkago.Snappy
}
