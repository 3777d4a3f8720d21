/*
Package observability exposes Prometheus metrics for the delivery queue.

It bridges the queue's lifecycle hooks into counters and histograms, so a host
can register the collectors on its own registry and mount promhttp next to the
session API.
*/
package observability
