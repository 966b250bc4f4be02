// Package kafka provisions topics at startup and waits until the cluster
// metadata lists them.
//
// # Architecture
//
//   - AdminAPI / ClientAdmin: create and list topics over short-lived broker
//     connections (create goes to the controller, listings are never cached)
//   - Provisioner: one create request for all specs, retried on transient
//     broker errors; "topic already exists" counts as success
//   - ConvergencePoller: polls the topic listing with a growing interval
//     until every expected name is visible
//   - Admin: ProvisionAndAwaitTopics, the blocking startup entry point
//   - Component: runs Admin on Start and reports readiness through Health
//   - kafka/producer: the writer used once topics are ready
//
// # Configuration
//
//	kafka:
//	  enabled: true
//	  brokers: ["localhost:9092"]
//	  topic_name: twitter-topic
//	  topic_names_to_create: [twitter-topic]
//	  num_of_partitions: 3
//	  replication_factor: 1
package kafka
