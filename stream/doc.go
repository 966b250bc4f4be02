// Package stream turns upstream statuses into Kafka events.
//
// A StatusListener receives each status. KafkaStatusListener logs it and
// publishes a JSON Event to the configured topic. MockRunner stands in for
// the upstream feed: it emits synthetic statuses containing the configured
// keywords at a fixed interval, and is registered as the last component so
// it only runs once topics and the schema registry are ready.
package stream
