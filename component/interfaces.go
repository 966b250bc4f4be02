package component

import "context"

// Component is a lifecycle-managed startup dependency.
type Component interface {
	// Name returns the unique registration name.
	Name() string

	// Start brings the component up. It may block until the guarded
	// dependency is ready and must return when ctx is cancelled.
	Start(ctx context.Context) error

	// Stop releases resources.
	Stop(ctx context.Context) error

	// Health returns the current status without blocking on the network.
	Health(ctx context.Context) Health
}

// Description is the one-line summary a component reports for the startup banner.
type Description struct {
	// Name is the display name; the component's Name() is used when empty.
	Name string
	// Type categorizes the component: "kafka", "schema-registry", "server".
	Type string
	// Details is shown next to the name, e.g. "brokers=[localhost:9092] topics=3".
	Details string
	// Port is the primary port, 0 if not applicable.
	Port int
}

// Describable is optionally implemented by components that appear in the startup summary.
type Describable interface {
	Describe() Description
}

// Route is a single HTTP route shown in the startup summary.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider is optionally implemented by server components.
type RouteProvider interface {
	Routes() []Route
}
