package metrics

import (
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Exporter names accepted by NewMeterProvider.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// NewMeterProvider builds the SDK meter provider backing the OTel sink.
// With ExporterStdout the counters are written to w as JSON every interval and
// on shutdown; with ExporterNone they are only aggregated in process. Extra
// readers are registered as well.
func NewMeterProvider(exporter string, w io.Writer, interval time.Duration, readers ...sdkmetric.Reader) (*sdkmetric.MeterProvider, error) {
	var opts []sdkmetric.Option

	switch exporter {
	case "", ExporterNone:
	case ExporterStdout:
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(interval))))
	default:
		return nil, fmt.Errorf("unknown metrics exporter %q", exporter)
	}

	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	return sdkmetric.NewMeterProvider(opts...), nil
}
