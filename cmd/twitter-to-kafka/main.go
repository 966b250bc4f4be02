// Command twitter-to-kafka provisions its Kafka topics, waits for the schema
// registry and then publishes status events to Kafka.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kbukum/kafkaready/bootstrap"
	"github.com/kbukum/kafkaready/config"
	"github.com/kbukum/kafkaready/kafka"
	"github.com/kbukum/kafkaready/kafka/producer"
	"github.com/kbukum/kafkaready/logger"
	"github.com/kbukum/kafkaready/observability"
	"github.com/kbukum/kafkaready/resilience"
	"github.com/kbukum/kafkaready/schemaregistry"
	"github.com/kbukum/kafkaready/server"
	"github.com/kbukum/kafkaready/server/endpoint"
	"github.com/kbukum/kafkaready/stream"
	"github.com/kbukum/kafkaready/version"
)

const serviceName = "twitter-to-kafka"

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg AppConfig
	if err := config.LoadConfig(serviceName, &cfg); err != nil {
		return err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}
	log := app.Logger

	telemetry, err := observability.Init(ctx, cfg.Observability, observability.ServiceInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	})
	if err != nil {
		return err
	}
	app.OnStop(telemetry.Shutdown)

	if err := wire(app, log); err != nil {
		return err
	}

	log.Info(cfg.TwitterToKafka.WelcomeMessage, logger.Fields(
		"keywords", strings.Join(cfg.TwitterToKafka.Keywords, ","),
	))
	return app.Run(ctx)
}

// wire registers components in start order: kafka, schema registry, the
// readiness server and finally the status source.
func wire(app *bootstrap.App[*AppConfig], log *logger.Logger) error {
	cfg := app.Cfg

	metrics, err := observability.NewReadinessMetrics(observability.Meter(serviceName))
	if err != nil {
		return fmt.Errorf("readiness metrics: %w", err)
	}
	policy := resilience.NewPolicy(cfg.Retry, log, resilience.WithObserver(metrics))

	kafkaComponent, publisher, err := wireKafka(cfg, policy, metrics, log)
	if err != nil {
		return err
	}
	if err := app.RegisterComponent(kafkaComponent); err != nil {
		return err
	}

	registryComponent, err := wireSchemaRegistry(cfg, policy, metrics, log)
	if err != nil {
		return err
	}
	if err := app.RegisterComponent(registryComponent); err != nil {
		return err
	}

	if cfg.Server.Enabled {
		srv := server.New(cfg.Server, log)
		srv.ApplyMiddleware()
		srv.RegisterDefaultEndpoints(
			endpoint.ServiceInfo{Name: cfg.Name, Environment: cfg.Environment},
			app.Components.HealthAll,
			app.Components.Ready,
		)
		if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
			return err
		}
	}

	if !cfg.TwitterToKafka.EnableMockTweets {
		return nil
	}
	if publisher == nil {
		log.Warn("Mock tweets enabled but kafka is disabled; no statuses will be produced")
		return nil
	}
	listener := stream.NewKafkaStatusListener(publisher, cfg.Kafka.TopicName, serviceName, log)
	runner := stream.NewMockRunner(cfg.TwitterToKafka, listener, uint64(time.Now().UnixNano()), log)
	return app.RegisterComponent(runner)
}

func wireKafka(cfg *AppConfig, policy *resilience.Policy, metrics *observability.ReadinessMetrics, log *logger.Logger) (*kafka.Component, producer.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return kafka.NewComponent(cfg.Kafka, nil, log), nil, nil
	}

	api, err := kafka.NewClientAdmin(&cfg.Kafka)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka admin client: %w", err)
	}
	admin := kafka.NewAdmin(api, policy, log, kafka.WithReadinessMetrics(metrics))
	comp := kafka.NewComponent(cfg.Kafka, admin, log)

	prod, err := producer.NewLazyProducer(cfg.Kafka, log)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	comp.SetProducer(prod)
	return comp, prod, nil
}

func wireSchemaRegistry(cfg *AppConfig, policy *resilience.Policy, metrics *observability.ReadinessMetrics, log *logger.Logger) (*schemaregistry.Component, error) {
	if !cfg.SchemaRegistry.Enabled {
		return schemaregistry.NewComponent(cfg.SchemaRegistry, nil), nil
	}

	client, err := schemaregistry.NewClient(cfg.SchemaRegistry)
	if err != nil {
		return nil, fmt.Errorf("schema registry client: %w", err)
	}
	poller := schemaregistry.NewHealthPoller(client, policy, log, schemaregistry.WithReadinessMetrics(metrics))
	return schemaregistry.NewComponent(cfg.SchemaRegistry, poller), nil
}
