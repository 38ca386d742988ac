package model

import "time"

// Direction is the directional tag of a trading signal.
type Direction string

const (
	SignalBuy  Direction = "BUY"
	SignalSell Direction = "SELL"
	SignalHold Direction = "HOLD"
)

// TradingSignal is produced per evaluated bar by the signal generator.
// Values carries a flattened snapshot of the indicator values the signal
// was derived from (structured fields appear as "name.field" keys).
type TradingSignal struct {
	Direction  Direction          `json:"direction"`
	Strength   float64            `json:"strength"`   // 0-100
	Confidence float64            `json:"confidence"` // 0-100
	Reasons    []string           `json:"reasons,omitempty"`
	Values     map[string]float64 `json:"values,omitempty"`
	Time       time.Time          `json:"time"`
}
