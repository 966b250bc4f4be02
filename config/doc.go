// Package config loads service configuration with Viper.
//
// LoadConfig looks for config.yml under ./cmd/<service>/, ./config/ and the
// working directory, then a .env file (via godotenv), and finally lets
// environment variables override any key: RETRY_MAX_ATTEMPTS maps to
// retry.max_attempts, KAFKA_BROKERS to kafka.brokers.
package config
