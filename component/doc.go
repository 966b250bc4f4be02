// Package component defines the lifecycle contract shared by the startup
// components (topic provisioning, schema registry readiness, the readiness
// HTTP server) and the Registry that starts them in order.
//
// Start may block: readiness components only return once the dependency they
// guard is usable, and a failed Start aborts the whole startup.
package component
