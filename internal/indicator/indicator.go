// Package indicator implements pure technical indicator computations over
// OHLCV price series. Each indicator is a stateless transformation: it never
// mutates its input and is fully re-computed on every invocation.
package indicator

import (
	"github.com/oxequant/stockdash/internal/types"
)

// Indicator is the interface implemented by every technical indicator.
type Indicator interface {
	// Name returns the name of the indicator.
	Name() types.IndicatorType
	// Config configures the indicator parameters. See each implementation
	// for the expected parameter list.
	Config(params ...any) error
	// Compute derives one or more indicator series from the given price
	// series. The output series are aligned to the input timestamps; leading
	// points without sufficient history carry an undefined value.
	Compute(series types.PriceSeries) ([]types.IndicatorSeries, error)
}
