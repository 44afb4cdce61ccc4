package models

import "time"

// Action is a trading recommendation.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	return a == ActionBuy || a == ActionSell || a == ActionHold
}

// Decision is the scorer output for one quote.
type Decision struct {
	Action     Action
	Confidence int // clamped to [30,95]
	Reasoning  string
}

// Signal is an immutable trading signal, created once per symbol per cycle.
type Signal struct {
	Symbol        string    `json:"symbol"`
	Action        Action    `json:"action"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Confidence    int       `json:"confidence"`
	Reasoning     string    `json:"reasoning"`
	RSI           float64   `json:"rsi"`
	MACD          float64   `json:"macd"`
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}

// HistoryEntry is a signal plus its delivery marker, kept in the bounded
// rolling history.
type HistoryEntry struct {
	Signal
	Sent bool `json:"sent"`
}

// SignalEvent is published after a cycle for every freshly created signal so
// dashboards can update without polling.
type SignalEvent struct {
	Type   string `json:"type"`
	Signal Signal `json:"data"`
}

const EventNewSignal = "new_signal"

// CycleStats are cycle-level counters updated after each monitor pass.
type CycleStats struct {
	ActiveSymbols int       `json:"activeSymbols"`
	SignalsSent   int64     `json:"signalsSent"`
	LastUpdate    time.Time `json:"lastUpdate"`
}
