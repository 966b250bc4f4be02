package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/kafkaready/security/tlstest"
)

func TestResolveCompression(t *testing.T) {
	tests := []struct {
		name     string
		expected kafkago.Compression
	}{
		{"gzip", kafkago.Gzip},
		{"lz4", kafkago.Lz4},
		{"zstd", kafkago.Zstd},
		{"snappy", kafkago.Snappy},
		{"none", 0},
		{"unknown", kafkago.Snappy},
		{"", kafkago.Snappy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveCompression(tt.name); got != tt.expected {
				t.Errorf("ResolveCompression(%q) = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestBuildSASLMechanism(t *testing.T) {
	tests := []struct {
		mechanism string
		wantName  string
		wantErr   bool
	}{
		{"PLAIN", "PLAIN", false},
		{"SCRAM-SHA-256", "SCRAM-SHA-256", false},
		{"SCRAM-SHA-512", "SCRAM-SHA-512", false},
		{"KERBEROS", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.mechanism, func(t *testing.T) {
			cfg := &Config{SASLMechanism: tt.mechanism, Username: "user", Password: "pass"}
			m, err := buildSASLMechanism(cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unsupported mechanism")
				}
				return
			}
			if err != nil {
				t.Fatalf("buildSASLMechanism() error: %v", err)
			}
			if m.Name() != tt.wantName {
				t.Errorf("mechanism name = %q, want %q", m.Name(), tt.wantName)
			}
		})
	}
}

func TestCreateTransport_NoTLS_NoSASL(t *testing.T) {
	cfg := &Config{ClientID: "svc", DialTimeout: "5s", IdleTimeout: "30s", MetadataTTL: "6s"}
	transport, err := CreateTransport(cfg)
	if err != nil {
		t.Fatalf("CreateTransport() error: %v", err)
	}
	if transport.TLS != nil || transport.SASL != nil {
		t.Error("expected no TLS and no SASL")
	}
	if transport.ClientID != "svc" || transport.DialTimeout != 5*time.Second || transport.MetadataTTL != 6*time.Second {
		t.Errorf("unexpected transport settings %+v", transport)
	}
}

func TestCreateTransport_SASL(t *testing.T) {
	cfg := &Config{EnableSASL: true, SASLMechanism: "PLAIN", Username: "u", Password: "p"}
	transport, err := CreateTransport(cfg)
	if err != nil {
		t.Fatalf("CreateTransport() error: %v", err)
	}
	if transport.SASL == nil {
		t.Error("expected SASL mechanism")
	}
}

func TestCreateTransport_TLSMissingCA(t *testing.T) {
	cfg := &Config{EnableTLS: true, TLSCAFile: "/nonexistent/ca.pem"}
	if _, err := CreateTransport(cfg); err == nil {
		t.Fatal("expected error for missing CA file")
	}
}

func TestCreateTransport_TLSSkipVerify(t *testing.T) {
	cfg := &Config{EnableTLS: true, TLSSkipVerify: true}
	transport, err := CreateTransport(cfg)
	if err != nil {
		t.Fatalf("CreateTransport() error: %v", err)
	}
	if transport.TLS == nil || !transport.TLS.InsecureSkipVerify {
		t.Error("expected TLS with InsecureSkipVerify")
	}
}

func TestCreateTransport_TLSWithCA(t *testing.T) {
	certs := tlstest.NewBundle(t)
	cfg := &Config{EnableTLS: true, TLSCAFile: certs.CAFile, TLSCertFile: certs.CertFile, TLSKeyFile: certs.KeyFile}
	transport, err := CreateTransport(cfg)
	if err != nil {
		t.Fatalf("CreateTransport() error: %v", err)
	}
	if transport.TLS == nil || transport.TLS.RootCAs == nil || len(transport.TLS.Certificates) != 1 {
		t.Errorf("expected CA pool and client certificate, got %+v", transport.TLS)
	}
}

func TestCreateTransport_TLSDisabledIgnoresFiles(t *testing.T) {
	cfg := &Config{TLSCAFile: "/nonexistent/ca.pem"}
	transport, err := CreateTransport(cfg)
	if err != nil {
		t.Fatalf("CreateTransport() error: %v", err)
	}
	if transport.TLS != nil {
		t.Error("expected plaintext transport when TLS is disabled")
	}
}

func TestNewDialer(t *testing.T) {
	cfg := &Config{ClientID: "svc", DialTimeout: "4s", EnableSASL: true, SASLMechanism: "SCRAM-SHA-512", Username: "u", Password: "p"}
	d, err := NewDialer(cfg)
	if err != nil {
		t.Fatalf("NewDialer() error: %v", err)
	}
	if d.ClientID != "svc" || d.Timeout != 4*time.Second {
		t.Errorf("unexpected dialer settings %+v", d)
	}
	if d.SASLMechanism == nil || d.SASLMechanism.Name() != "SCRAM-SHA-512" {
		t.Errorf("expected SCRAM-SHA-512 mechanism, got %v", d.SASLMechanism)
	}
	if d.TLS != nil {
		t.Error("expected plaintext dialer when TLS is disabled")
	}
}

func TestNewDialer_InvalidSASL(t *testing.T) {
	cfg := &Config{EnableSASL: true, SASLMechanism: "GSSAPI"}
	if _, err := NewDialer(cfg); err == nil {
		t.Fatal("expected error for unsupported mechanism")
	}
}
