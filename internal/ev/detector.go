package ev

import (
	"strconv"
	"time"

	"valuebot/internal/feed"
)

// Opportunity is a candidate wager: the best available price for an outcome
// whose EV against the fair probability clears every filter.
type Opportunity struct {
	EventID      string
	SportKey     string
	HomeTeam     string
	AwayTeam     string
	CommenceTime time.Time
	Market       string
	Outcome      string
	Point        *float64
	FairProb     float64
	BestPrice    float64
	BestBook     string
	EV           float64
}

// Config holds the detection thresholds. All static per run.
type Config struct {
	TrustedBooks    []string
	MinEV           float64
	MajorEVOverride float64
	MaxEV           float64 // 0 disables the upper cap
	MaxHoursToStart float64
	OutlierRatio    float64
}

// outcomeKey groups quotes that describe the same wager. Totals and spreads
// carry a line, so the point is part of the identity.
type outcomeKey struct {
	name  string
	point string
}

func keyFor(q feed.Quote) outcomeKey {
	k := outcomeKey{name: q.Outcome}
	if q.Point != nil {
		k.point = strconv.FormatFloat(*q.Point, 'f', -1, 64)
	}
	return k
}

// Detect evaluates every outcome of every event and returns at most one
// Opportunity per outcome. Untrusted books are excluded from fair-price
// estimation but remain eligible as the execution venue: the detector looks
// for the best price at which to act, not necessarily at a trusted book.
func Detect(events []feed.Event, cfg Config, now time.Time) []Opportunity {
	trusted := make(map[string]bool, len(cfg.TrustedBooks))
	for _, b := range cfg.TrustedBooks {
		trusted[b] = true
	}

	var opportunities []Opportunity
	for _, event := range events {
		hoursToStart := event.CommenceTime.Sub(now).Hours()
		if hoursToStart < 0 {
			continue // already started
		}

		for market, quotes := range event.Markets {
			grouped := make(map[outcomeKey][]feed.Quote)
			for _, q := range quotes {
				k := keyFor(q)
				grouped[k] = append(grouped[k], q)
			}

			for _, outcomeQuotes := range grouped {
				// Ineligible outcomes (thin or divergent trusted data) are
				// skipped silently; this is the common case.
				fairProb, err := FairProbability(outcomeQuotes, trusted, cfg.OutlierRatio)
				if err != nil {
					continue
				}

				best := outcomeQuotes[0]
				for _, q := range outcomeQuotes[1:] {
					if q.Price > best.Price {
						best = q
					}
				}

				value := best.Price*fairProb - 1
				if value < cfg.MinEV {
					continue
				}
				if cfg.MaxEV > 0 && value > cfg.MaxEV {
					continue // implausible edge, likely a stale price
				}
				if hoursToStart > cfg.MaxHoursToStart && value < cfg.MajorEVOverride {
					continue
				}

				opportunities = append(opportunities, Opportunity{
					EventID:      event.ID,
					SportKey:     event.SportKey,
					HomeTeam:     event.HomeTeam,
					AwayTeam:     event.AwayTeam,
					CommenceTime: event.CommenceTime,
					Market:       market,
					Outcome:      best.Outcome,
					Point:        best.Point,
					FairProb:     fairProb,
					BestPrice:    best.Price,
					BestBook:     best.Book,
					EV:           value,
				})
			}
		}
	}

	return opportunities
}
