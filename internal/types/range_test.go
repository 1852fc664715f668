package types

import (
	"testing"
	"time"

	"github.com/oxequant/stockdash/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RangeTestSuite struct {
	suite.Suite
}

func TestRangeSuite(t *testing.T) {
	suite.Run(t, new(RangeTestSuite))
}

func (suite *RangeTestSuite) TestValidate() {
	for _, r := range []Range{Range1Day, Range5Day, Range1Month, Range3Month, Range6Month, Range1Year, Range2Year, Range5Year} {
		suite.NoError(r.Validate())
	}

	err := Range("10y").Validate()
	suite.Error(err)
	suite.Equal(errors.ErrCodeInvalidRange, errors.GetCode(err))
}

func (suite *RangeTestSuite) TestStart() {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	suite.Equal(now.AddDate(0, 0, -1), Range1Day.Start(now))
	suite.Equal(now.AddDate(0, -1, 0), Range1Month.Start(now))
	suite.Equal(now.AddDate(-1, 0, 0), Range1Year.Start(now))
	suite.Equal(now.AddDate(-5, 0, 0), Range5Year.Start(now))
}

func (suite *RangeTestSuite) TestIntervalValidate() {
	suite.NoError(Interval1Day.Validate())
	suite.NoError(Interval1Min.Validate())

	err := Interval("2d").Validate()
	suite.Error(err)
	suite.Equal(errors.ErrCodeInvalidInterval, errors.GetCode(err))
}
