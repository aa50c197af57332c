package feed

import (
	"encoding/json"
	"time"

	"valuebot/internal/oddsapi"
)

// Quote is one bookmaker's price for one outcome of one market.
type Quote struct {
	Book    string
	Outcome string
	Point   *float64 // set for totals/spreads, nil for h2h
	Price   float64  // decimal odds, always > 1.0 after normalization
}

// Event is one game with its quotes grouped by market key.
type Event struct {
	ID           string
	SportKey     string
	HomeTeam     string
	AwayTeam     string
	CommenceTime time.Time
	Markets      map[string][]Quote
}

// Raw upstream shapes. Every field is optional; normalization drops what it
// cannot use rather than failing.
type rawOutcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point"`
}

type rawMarket struct {
	Key      string       `json:"key"`
	Outcomes []rawOutcome `json:"outcomes"`
}

type rawBookmaker struct {
	Key     string      `json:"key"`
	Markets []rawMarket `json:"markets"`
}

type rawEvent struct {
	ID           string         `json:"id"`
	SportKey     string         `json:"sport_key"`
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	CommenceTime time.Time      `json:"commence_time"`
	Bookmakers   []rawBookmaker `json:"bookmakers"`
}

// ParseSnapshot normalizes one raw odds snapshot into events with quotes
// grouped game -> market -> outcome -> book. A missing bookmakers list is an
// empty event, not an error; outcomes with a missing or sub-1.0 price are
// dropped. Only an unparseable top-level shape returns MalformedDataError.
func ParseSnapshot(raw []byte) ([]Event, error) {
	var rawEvents []rawEvent
	if err := json.Unmarshal(raw, &rawEvents); err != nil {
		return nil, &oddsapi.MalformedDataError{Op: "parse odds snapshot", Err: err}
	}

	events := make([]Event, 0, len(rawEvents))
	for _, re := range rawEvents {
		if re.ID == "" {
			continue
		}
		ev := Event{
			ID:           re.ID,
			SportKey:     re.SportKey,
			HomeTeam:     re.HomeTeam,
			AwayTeam:     re.AwayTeam,
			CommenceTime: re.CommenceTime,
			Markets:      make(map[string][]Quote),
		}
		for _, book := range re.Bookmakers {
			if book.Key == "" {
				continue
			}
			for _, market := range book.Markets {
				if market.Key == "" {
					continue
				}
				for _, outcome := range market.Outcomes {
					if outcome.Name == "" || outcome.Price <= 1.0 {
						continue
					}
					ev.Markets[market.Key] = append(ev.Markets[market.Key], Quote{
						Book:    book.Key,
						Outcome: outcome.Name,
						Point:   outcome.Point,
						Price:   outcome.Price,
					})
				}
			}
		}
		events = append(events, ev)
	}

	return events, nil
}
