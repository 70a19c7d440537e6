package entity

import (
	"fmt"
	"time"
)

// DateLayout is the ISO date format used by the rates API
const DateLayout = "2006-01-02"

// HistoryQuery describes a historical rates request for one currency pair.
// Rates are quoted as units of Symbol per one unit of Base.
type HistoryQuery struct {
	Base   string    `json:"base"`
	Symbol string    `json:"symbol"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// Key identifies the query for storage purposes
func (q HistoryQuery) Key() string {
	return fmt.Sprintf("%s:%s:%s:%s", q.Base, q.Symbol, q.Start.Format(DateLayout), q.End.Format(DateLayout))
}

// Title is the chart caption for the pair, e.g. "EUR/USD"
func (q HistoryQuery) Title() string {
	return q.Symbol + "/" + q.Base
}

// RatePoint is one day of a rate history
type RatePoint struct {
	Date time.Time `json:"date"`
	Rate float64   `json:"rate"`
}

// RateHistory is the ordered result of a HistoryQuery
type RateHistory struct {
	Query  HistoryQuery `json:"query"`
	Points []RatePoint  `json:"points"`
}
