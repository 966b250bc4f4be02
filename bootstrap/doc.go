// Package bootstrap runs a service through its lifecycle: validate config,
// start registered components in order, run hooks, print the startup banner,
// wait for a signal and stop components in reverse order.
//
// A component whose Start fails aborts the sequence. Components that already
// started are stopped and Run returns the error, so main can exit non-zero.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	_ = app.RegisterComponent(kafkaComponent)
//	_ = app.RegisterComponent(registryComponent)
//	return app.Run(ctx)
package bootstrap
