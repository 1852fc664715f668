package indicator

import (
	"testing"

	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SMATestSuite struct {
	suite.Suite
}

func TestSMASuite(t *testing.T) {
	suite.Run(t, new(SMATestSuite))
}

func (suite *SMATestSuite) TestNewSMA() {
	sma := NewSMA()
	suite.NotNil(sma)

	smaImpl := sma.(*SMA)
	suite.Equal(20, smaImpl.window)
}

func (suite *SMATestSuite) TestName() {
	suite.Equal(types.IndicatorTypeSMA, NewSMA().Name())
}

func (suite *SMATestSuite) TestConfigValid() {
	sma := NewSMA()
	suite.NoError(sma.Config(5))
	suite.Equal(5, sma.(*SMA).window)
}

func (suite *SMATestSuite) TestConfigAcceptsFloat() {
	sma := NewSMA()
	suite.NoError(sma.Config(10.0))
	suite.Equal(10, sma.(*SMA).window)
}

func (suite *SMATestSuite) TestConfigInvalidWindow() {
	sma := NewSMA()

	err := sma.Config(0)
	suite.Error(err)
	suite.Equal(errors.ErrCodeInvalidPeriod, errors.GetCode(err))

	err = sma.Config(-3)
	suite.Error(err)

	err = sma.Config("five")
	suite.Error(err)
	suite.Equal(errors.ErrCodeInvalidType, errors.GetCode(err))

	err = sma.Config()
	suite.Error(err)
	suite.Equal(errors.ErrCodeMissingParameter, errors.GetCode(err))
}

func (suite *SMATestSuite) TestComputeAscendingScenario() {
	// closes 10..20, window 5: first defined at index 4 = mean(10..14) = 12,
	// index 10 = mean(16..20) = 18.
	series := seriesFromCloses("AAPL", 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20)

	sma := NewSMA()
	suite.NoError(sma.Config(5))

	result, err := sma.Compute(series)
	suite.NoError(err)
	suite.Len(result, 1)

	points := result[0].Points
	suite.Len(points, 11)

	for i := 0; i < 4; i++ {
		suite.True(points[i].Value.IsNone(), "index %d should be undefined", i)
	}

	suite.InDelta(12.0, points[4].Value.Unwrap(), 1e-9)
	suite.InDelta(18.0, points[10].Value.Unwrap(), 1e-9)
}

func (suite *SMATestSuite) TestComputeConstantSeries() {
	series := constantSeries("SPY", 42.5, 30)

	sma := NewSMA()
	suite.NoError(sma.Config(7))

	result, err := sma.Compute(series)
	suite.NoError(err)

	for i, p := range result[0].Points {
		if i < 6 {
			suite.True(p.Value.IsNone())

			continue
		}

		suite.InDelta(42.5, p.Value.Unwrap(), 1e-9)
	}
}

func (suite *SMATestSuite) TestComputeWindowLongerThanSeries() {
	series := seriesFromCloses("AAPL", 10, 11, 12)

	sma := NewSMA()
	suite.NoError(sma.Config(5))

	result, err := sma.Compute(series)
	suite.NoError(err)

	for _, p := range result[0].Points {
		suite.True(p.Value.IsNone())
	}
}

func (suite *SMATestSuite) TestComputeRejectsMalformedSeries() {
	series := seriesFromCloses("AAPL", 10, 11, 12, 13, 14)
	// Break timestamp monotonicity.
	series[3].Time = series[1].Time

	sma := NewSMA()
	suite.NoError(sma.Config(2))

	_, err := sma.Compute(series)
	suite.Error(err)
	suite.Equal(errors.ErrCodeMalformedInput, errors.GetCode(err))
}

func (suite *SMATestSuite) TestComputeDoesNotMutateInput() {
	series := seriesFromCloses("AAPL", 10, 11, 12, 13, 14)
	original := make(types.PriceSeries, len(series))
	copy(original, series)

	sma := NewSMA()
	suite.NoError(sma.Config(3))

	_, err := sma.Compute(series)
	suite.NoError(err)
	suite.Equal(original, series)
}

func (suite *SMATestSuite) TestComputeAlignment() {
	series := seriesFromCloses("AAPL", 10, 11, 12, 13, 14)

	sma := NewSMA()
	suite.NoError(sma.Config(3))

	result, err := sma.Compute(series)
	suite.NoError(err)

	for i, p := range result[0].Points {
		suite.Equal(series[i].Time, p.Time)
	}
}
