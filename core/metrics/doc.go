// Package metrics exports Prometheus counters for applied sync steps.
//
// Collector is a reconcile.Observer. Each event increments
// agents_sync_operations_total{kind,operation,action,env,result} and refreshes
// agents_sync_last_event_timestamp_seconds{kind,operation}. The serve command mounts
// Handler at /metrics.
package metrics
