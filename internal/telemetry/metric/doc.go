// Package metric provides Prometheus metrics for the todo client and the
// development backend.
//
// A Registry owns its own prometheus.Registry so tests can create
// isolated instances. All recording methods are safe on a nil *Registry,
// which lets components treat metrics as optional.
package metric
