package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// writeMetrics renders the registry in the Prometheus text format to path,
// or to stderr when path is empty or "-".
func writeMetrics(reg prometheus.Gatherer, path string, stderr io.Writer) (err error) {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	w := stderr
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create metrics output: %w", err)
		}
		defer func() { err = errors.Join(err, f.Close()) }()
		w = f
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
