// Package prometheus provides Prometheus collectors for goJose metrics.
//
// [NewPrometheusExporter] accepts a [goJose.Engine] and exposes an [http.Handler]
// that renders all goJose counters and histograms in Prometheus text exposition format.
// Counter names are prefixed gojose_*_total; the single histogram is
// gojose_decode_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
