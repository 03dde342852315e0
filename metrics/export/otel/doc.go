// Package otel bridges kvsession metrics into an OpenTelemetry meter via
// observable instruments: the collector pulls fresh snapshots on every
// callback, so no push pipeline is needed inside the session layer.
package otel
