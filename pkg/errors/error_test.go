package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNew() {
	err := New(ErrCodeInvalidParameter, "bad value")
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("bad value", err.Message)
	suite.Nil(err.Cause)
	suite.Equal("[100] bad value", err.Error())
}

func (suite *ErrorTestSuite) TestNewf() {
	err := Newf(ErrCodeDataNotFound, "no data for %s", "AAPL")
	suite.Equal(ErrCodeDataNotFound, err.Code)
	suite.Equal("no data for AAPL", err.Message)
}

func (suite *ErrorTestSuite) TestWrap() {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeQueryFailed, "query failed", cause)
	suite.Equal(ErrCodeQueryFailed, err.Code)
	suite.Equal(cause, err.Unwrap())
	suite.Contains(err.Error(), "connection refused")
}

func (suite *ErrorTestSuite) TestWrapf() {
	cause := fmt.Errorf("timeout")
	err := Wrapf(ErrCodeFetchFailed, cause, "fetch failed for %s", "MSFT")
	suite.Equal("fetch failed for MSFT", err.Message)
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeMalformedInput, "bad series")
	suite.Equal(ErrCodeMalformedInput, GetCode(err))

	plain := fmt.Errorf("plain error")
	suite.Equal(ErrCodeUnknown, GetCode(plain))
}

func (suite *ErrorTestSuite) TestGetCodeWrappedChain() {
	inner := New(ErrCodeInvalidPeriod, "period must be positive")
	outer := fmt.Errorf("compute: %w", inner)
	suite.Equal(ErrCodeInvalidPeriod, GetCode(outer))
	suite.True(HasCode(outer, ErrCodeInvalidPeriod))
}

func (suite *ErrorTestSuite) TestInsufficientDataError() {
	err := NewInsufficientDataErrorf(15, 10, "AAPL", "need %d bars, got %d", 15, 10)
	suite.Equal(15, err.Required)
	suite.Equal(10, err.Actual)
	suite.Equal("AAPL", err.Symbol)
	suite.Equal("need 15 bars, got 10", err.Error())
	suite.True(IsInsufficientData(err))
}

func (suite *ErrorTestSuite) TestIsInsufficientDataByCode() {
	err := New(ErrCodeInsufficientData, "too short")
	suite.True(IsInsufficientData(err))

	other := New(ErrCodeInvalidParameter, "nope")
	suite.False(IsInsufficientData(other))
}
