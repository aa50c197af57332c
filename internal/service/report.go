package service

import (
	"fmt"
	"time"

	"valuebot/internal/storage"
)

// Summary aggregates settled records over a window.
type Summary struct {
	Bets   int
	Wins   int
	Losses int
	Voids  int
	Staked float64
	Profit float64
	ROI    float64 // percent
}

// Summarize computes profit and ROI over settled records. Wins contribute
// (odds-1)*stake, losses -stake, voids nothing (stake returned, so voids are
// excluded from the staked total as well).
func Summarize(records []*storage.BetRecord) Summary {
	var s Summary
	for _, rec := range records {
		switch rec.Result {
		case storage.ResultWin:
			s.Wins++
			s.Staked += rec.Stake
			s.Profit += (rec.Odds - 1) * rec.Stake
		case storage.ResultLoss:
			s.Losses++
			s.Staked += rec.Stake
			s.Profit -= rec.Stake
		case storage.ResultVoid:
			s.Voids++
		default:
			continue
		}
		s.Bets++
	}
	if s.Staked > 0 {
		s.ROI = s.Profit / s.Staked * 100
	}
	return s
}

// WindowStart maps a report keyword to the window's start instant. "all"
// means everything ever settled.
func WindowStart(keyword string, now time.Time) (time.Time, string, error) {
	switch keyword {
	case "day":
		return now.Add(-24 * time.Hour), "last 24 hours", nil
	case "", "week":
		return now.Add(-7 * 24 * time.Hour), "last 7 days", nil
	case "month":
		return now.AddDate(0, -1, 0), "last month", nil
	case "year":
		return now.AddDate(-1, 0, 0), "last year", nil
	case "all":
		return time.Time{}, "all time", nil
	default:
		return time.Time{}, "", fmt.Errorf("unknown report window %q", keyword)
	}
}

// GenerateReport builds the formatted ROI report for a window keyword.
func GenerateReport(keyword string, now time.Time) (string, error) {
	start, label, err := WindowStart(keyword, now)
	if err != nil {
		return "", err
	}

	records, err := storage.GetSettledSince(start)
	if err != nil {
		return "", fmt.Errorf("failed to load settled bets: %w", err)
	}

	return FormatReport(label, Summarize(records), now), nil
}
