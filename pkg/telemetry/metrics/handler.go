package metrics

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Handler returns an HTTP handler exposing the collector's registry in the
// Prometheus exposition format. happctl serves it while watching.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}

// WriteText writes every gathered metric family in the text exposition
// format.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// Flush writes the metrics to the configured output: "-" for stdout, a
// file path otherwise. It does nothing when metrics are disabled or no
// output is set.
func (c *Collector) Flush() error {
	if !c.enabled() || c.config.Output == "" {
		return nil
	}
	if c.config.Output == "-" {
		return c.WriteText(os.Stdout)
	}

	f, err := os.Create(c.config.Output)
	if err != nil {
		return fmt.Errorf("failed to create metrics output: %w", err)
	}
	if err := c.WriteText(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
