// Package middleware provides observability for list-state synchronization.
//
// Both observers implement listsync.Observer and also offer an HTTP
// handler wrapper for the inspector API.
//
// # Prometheus Metrics
//
//	m := middleware.Prometheus(middleware.WithNamespace("console"))
//	f := listsync.New(nav, listsync.WithObserver(m))
//
//	r := chi.NewRouter()
//	r.Use(m.Handler)
//	r.Handle("/metrics", promhttp.Handler())
//
// Metrics collected:
//   - liststate_reads_total: reads by resource and cache hit/miss
//   - liststate_writes_total: writes by resource and status
//   - liststate_write_duration_seconds: navigation duration histogram
//   - liststate_navigation_errors_total: failed navigations by error type
//
// # OpenTelemetry
//
// The OpenTelemetry observer starts a span for every write and ends it
// with the navigation result:
//
//	middleware.OpenTelemetry(
//	    middleware.WithTracerName("console"),
//	    middleware.WithResourceFilter(func(k liststate.Kind) bool {
//	        return k != liststate.Generic
//	    }),
//	)
package middleware
