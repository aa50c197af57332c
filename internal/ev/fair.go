package ev

import (
	"errors"

	"valuebot/internal/feed"
)

// ErrInsufficientQuotes means fewer than two distinct trusted books priced
// the outcome. Expected and common, not logged as an error.
var ErrInsufficientQuotes = errors.New("need at least two distinct trusted quotes")

// ErrOutlierSpread means the trusted books disagree too widely. Wide
// disagreement among sharp books signals a data problem, not an edge.
var ErrOutlierSpread = errors.New("trusted prices exceed outlier ratio")

// FairProbability estimates the true win probability of one outcome as the
// arithmetic mean of 1/price over the trusted books' quotes. Each trusted
// book's inverse price is a noisy probability estimate; averaging several
// reduces the variance.
func FairProbability(quotes []feed.Quote, trusted map[string]bool, outlierRatio float64) (float64, error) {
	seen := make(map[string]bool)
	var prices []float64
	for _, q := range quotes {
		if !trusted[q.Book] || seen[q.Book] {
			continue
		}
		seen[q.Book] = true
		prices = append(prices, q.Price)
	}

	if len(prices) < 2 {
		return 0, ErrInsufficientQuotes
	}

	minPrice, maxPrice := prices[0], prices[0]
	sum := 0.0
	for _, p := range prices {
		if p < minPrice {
			minPrice = p
		}
		if p > maxPrice {
			maxPrice = p
		}
		sum += 1.0 / p
	}

	if maxPrice/minPrice > outlierRatio {
		return 0, ErrOutlierSpread
	}

	return sum / float64(len(prices)), nil
}
