// Package tracing provides OpenTelemetry tracing integration.
//
// Init installs an SDK tracer provider with a ratio-based sampler and the
// W3C trace-context propagator. Middleware starts a server span per HTTP
// request, and the use cases start child spans through GetTracer.
//
// Example usage:
//
//	shutdown, err := tracing.Init(tracing.Config{ServiceName: "blog-admin", SampleRatio: 1})
//	if err != nil {
//	    return err
//	}
//	defer func() { _ = shutdown(context.Background()) }()
package tracing
