package model

import "time"

// Side is the direction of a virtual position.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// ExitReason explains why a position was closed.
type ExitReason string

const (
	ExitSignal     ExitReason = "signal"
	ExitStopLoss   ExitReason = "stop_loss"
	ExitTakeProfit ExitReason = "take_profit"
	ExitEndOfData  ExitReason = "end_of_backtest"
)

// Position is a virtual position opened by the simulation engine.
// CurrentPrice and UnrealizedPnL are updated on every processed bar.
type Position struct {
	ID            string    `json:"id"`
	Side          Side      `json:"side"`
	EntryPrice    float64   `json:"entry_price"`
	EntryTime     time.Time `json:"entry_time"`
	Quantity      float64   `json:"quantity"`
	StopLoss      float64   `json:"stop_loss,omitempty"`
	TakeProfit    float64   `json:"take_profit,omitempty"`
	CurrentPrice  float64   `json:"current_price"`
	UnrealizedPnL float64   `json:"unrealized_pnl"`
}

// MarkToMarket updates the position against the given price.
func (p *Position) MarkToMarket(price float64) {
	p.CurrentPrice = price
	if p.Side == SideShort {
		p.UnrealizedPnL = (p.EntryPrice - price) * p.Quantity
	} else {
		p.UnrealizedPnL = (price - p.EntryPrice) * p.Quantity
	}
}

// ClosedPosition is the immutable trade-ledger record of a closed position.
type ClosedPosition struct {
	Position
	ExitPrice          float64       `json:"exit_price"`
	ExitTime           time.Time     `json:"exit_time"`
	ExitReason         ExitReason    `json:"exit_reason"`
	RealizedPnL        float64       `json:"realized_pnl"`
	RealizedPnLPercent float64       `json:"realized_pnl_percent"`
	HoldingPeriod      time.Duration `json:"holding_period"`
	Commission         float64       `json:"commission"`
}
