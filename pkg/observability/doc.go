/*
Package observability turns engine lifecycle events into logs and Prometheus
metrics.

Metrics and LogHooks both return domain.LifecycleHooks; Chain combines any
number of hook sets so a host can register them together.
*/
package observability
