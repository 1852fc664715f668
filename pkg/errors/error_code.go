package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidPeriod        ErrorCode = 101
	ErrCodeInvalidType          ErrorCode = 102
	ErrCodeMissingParameter     ErrorCode = 103
	ErrCodeInsufficientData     ErrorCode = 104
	ErrCodeMalformedInput       ErrorCode = 105
	ErrCodeInvalidConfiguration ErrorCode = 106
	ErrCodeInvalidInterval      ErrorCode = 107
	ErrCodeInvalidRange         ErrorCode = 108

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound ErrorCode = 200
	ErrCodeQueryFailed  ErrorCode = 201
	ErrCodeWriteFailed  ErrorCode = 202
	ErrCodeStoreClosed  ErrorCode = 203

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302

	// Market data errors (400-499)
	ErrCodeFetchFailed     ErrorCode = 400
	ErrCodeQuoteFailed     ErrorCode = 401
	ErrCodeInvalidProvider ErrorCode = 402
	ErrCodeParseFailed     ErrorCode = 403
)
