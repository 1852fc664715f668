package types

import "github.com/oxequant/stockdash/pkg/errors"

// Interval is the bar interval of a price series.
type Interval string

const (
	Interval1Min   Interval = "1m"
	Interval5Min   Interval = "5m"
	Interval15Min  Interval = "15m"
	Interval30Min  Interval = "30m"
	Interval1Hour  Interval = "1h"
	Interval1Day   Interval = "1d"
	Interval1Week  Interval = "1wk"
	Interval1Month Interval = "1mo"
)

// Validate checks that the interval is one of the recognized values.
func (i Interval) Validate() error {
	switch i {
	case Interval1Min, Interval5Min, Interval15Min, Interval30Min,
		Interval1Hour, Interval1Day, Interval1Week, Interval1Month:
		return nil
	default:
		return errors.Newf(errors.ErrCodeInvalidInterval, "unsupported bar interval %q", string(i))
	}
}
