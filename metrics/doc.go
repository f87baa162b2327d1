// Package metrics exports index operation metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	c, err := metrics.NewPrometheusCollector(reg, metrics.WithNamespace("orders"))
//	if err != nil {
//		return err
//	}
//	idx, err := nindex.New(capacity, keys, values, compare, nindex.WithMetricsCollector(c))
//
// Every series carries an "index" const label when WithIndexLabel is set.
package metrics
