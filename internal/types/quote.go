package types

import "time"

// QuoteSummary is a snapshot of a symbol's headline market metrics.
type QuoteSummary struct {
	Symbol           string    `json:"symbol"`
	ShortName        string    `json:"short_name,omitempty"`
	Price            float64   `json:"price"`
	PreviousClose    float64   `json:"previous_close"`
	Open             float64   `json:"open"`
	DayHigh          float64   `json:"day_high"`
	DayLow           float64   `json:"day_low"`
	FiftyTwoWeekHigh float64   `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64   `json:"fifty_two_week_low"`
	Volume           float64   `json:"volume"`
	MarketCap        float64   `json:"market_cap,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}
