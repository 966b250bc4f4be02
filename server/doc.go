// Package server is the readiness HTTP server: Gin behind an h2c handler,
// registered as the last lifecycle component.
//
// Endpoints (server/endpoint):
//
//   - /health: every component's status; 503 when one is unhealthy
//   - /ready: 200 only once every component finished its readiness wait
//   - /info: service name, environment and build identity
//
// Middleware (server/middleware): panic recovery, request IDs and request
// logging that skips the health and readiness paths.
package server
