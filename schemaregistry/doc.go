// Package schemaregistry blocks startup until the schema registry answers
// a plain GET with a 2xx status.
//
// The health endpoint is polled on the shared retry policy: transport failures count
// as 503, the wait between checks starts at SleepTime and grows by
// Multiplier up to MaxInterval, and the poll gives up after MaxAttempts
// unhealthy answers with DEPENDENCY_UNHEALTHY_TIMEOUT.
package schemaregistry
