package types

import (
	"time"

	"github.com/oxequant/stockdash/pkg/errors"
)

// Range is a named lookback window for a data fetch, mirroring the
// timeframe choices a dashboard exposes.
type Range string

const (
	Range1Day   Range = "1d"
	Range5Day   Range = "5d"
	Range1Month Range = "1mo"
	Range3Month Range = "3mo"
	Range6Month Range = "6mo"
	Range1Year  Range = "1y"
	Range2Year  Range = "2y"
	Range5Year  Range = "5y"
)

// Validate checks that the range is one of the recognized values.
func (r Range) Validate() error {
	switch r {
	case Range1Day, Range5Day, Range1Month, Range3Month,
		Range6Month, Range1Year, Range2Year, Range5Year:
		return nil
	default:
		return errors.Newf(errors.ErrCodeInvalidRange, "unsupported range %q", string(r))
	}
}

// Start returns the beginning of the range relative to now.
func (r Range) Start(now time.Time) time.Time {
	switch r {
	case Range1Day:
		return now.AddDate(0, 0, -1)
	case Range5Day:
		return now.AddDate(0, 0, -5)
	case Range1Month:
		return now.AddDate(0, -1, 0)
	case Range3Month:
		return now.AddDate(0, -3, 0)
	case Range6Month:
		return now.AddDate(0, -6, 0)
	case Range1Year:
		return now.AddDate(-1, 0, 0)
	case Range2Year:
		return now.AddDate(-2, 0, 0)
	case Range5Year:
		return now.AddDate(-5, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}
