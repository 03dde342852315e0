// Package internaldefs holds the shared metric name/help tables consumed by
// the Prometheus and OTel exporters. It exists so both exporters render the
// exact same series names; applications should not import it directly.
package internaldefs
