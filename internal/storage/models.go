package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Result is the settlement state of a bet record. It transitions away from
// unset exactly once and is terminal after that.
type Result string

const (
	ResultUnset Result = "unset"
	ResultWin   Result = "win"
	ResultLoss  Result = "loss"
	ResultVoid  Result = "void"
)

// BetRecord is one surfaced opportunity, persisted when it first clears the
// dedup gate and settled later by the reconciler. Records are never deleted.
type BetRecord struct {
	BetID        string     `json:"bet_id" db:"bet_id"`
	EventID      string     `json:"event_id" db:"event_id"`
	Sport        string     `json:"sport" db:"sport"`
	Event        string     `json:"event" db:"event"` // "Home vs Away"
	CommenceTime time.Time  `json:"commence_time" db:"commence_time"`
	Market       string     `json:"market" db:"market"`
	Pick         string     `json:"pick" db:"pick"`
	Point        *float64   `json:"point,omitempty" db:"point"`
	Odds         float64    `json:"odds" db:"odds"`
	Book         string     `json:"book" db:"book"`
	Stake        float64    `json:"stake" db:"stake"` // units
	EV           float64    `json:"ev" db:"ev"`
	Result       Result     `json:"result" db:"result"`
	PlacedAt     time.Time  `json:"placed_at" db:"placed_at"`
	SettledAt    *time.Time `json:"settled_at,omitempty" db:"settled_at"`
}

// BetID builds the deterministic primary key for a wager. The same
// (event, market, outcome, line) always maps to the same key, which is what
// makes creation idempotent across poll cycles and restarts.
func BetID(eventID, market, outcome string, point *float64) string {
	parts := []string{eventID, market, outcome}
	if point != nil {
		parts = append(parts, strconv.FormatFloat(*point, 'f', -1, 64))
	}
	return strings.Join(parts, ":")
}

// Description renders the pick with its line, e.g. "Over 2.5".
func (r *BetRecord) Description() string {
	if r.Point != nil {
		return fmt.Sprintf("%s %s", r.Pick, strconv.FormatFloat(*r.Point, 'f', -1, 64))
	}
	return r.Pick
}
