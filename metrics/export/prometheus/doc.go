// Package prometheus renders kvsession metrics in Prometheus text exposition
// format, either as a string or as an http.Handler for a /metrics endpoint.
package prometheus
