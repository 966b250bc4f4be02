// Package security builds client TLS configuration from the `tls:` settings
// shared by the Kafka transport and the schema registry client.
package security
