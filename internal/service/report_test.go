package service

import (
	"math"
	"testing"
	"time"

	"valuebot/internal/storage"
)

func settledRecord(betID string, odds, stake float64, result storage.Result) *storage.BetRecord {
	now := time.Now()
	return &storage.BetRecord{
		BetID:     betID,
		Odds:      odds,
		Stake:     stake,
		Result:    result,
		SettledAt: &now,
	}
}

func TestSummarizeProfitAndROI(t *testing.T) {
	records := []*storage.BetRecord{
		settledRecord("a", 2.0, 1, storage.ResultWin),
		settledRecord("b", 1.8, 2, storage.ResultLoss),
	}

	s := Summarize(records)
	// profit = (2.0-1)*1 - 2 = -1.0; staked = 3; roi = -33.33%
	if math.Abs(s.Profit-(-1.0)) > 1e-9 {
		t.Errorf("Expected profit -1.0, got %f", s.Profit)
	}
	if s.Staked != 3 {
		t.Errorf("Expected staked 3, got %f", s.Staked)
	}
	if math.Abs(s.ROI-(-33.333333)) > 0.001 {
		t.Errorf("Expected ROI -33.33%%, got %f", s.ROI)
	}
	if s.Bets != 2 || s.Wins != 1 || s.Losses != 1 {
		t.Errorf("Unexpected counts: %+v", s)
	}
}

func TestSummarizeVoidsExcludedFromStake(t *testing.T) {
	records := []*storage.BetRecord{
		settledRecord("a", 2.0, 1, storage.ResultWin),
		settledRecord("b", 1.9, 5, storage.ResultVoid),
	}

	s := Summarize(records)
	if s.Staked != 1 {
		t.Errorf("Expected void stake excluded, staked=%f", s.Staked)
	}
	if s.Profit != 1.0 {
		t.Errorf("Expected profit 1.0, got %f", s.Profit)
	}
	if s.Voids != 1 {
		t.Errorf("Expected one void, got %d", s.Voids)
	}
}

func TestSummarizeEmptyWindow(t *testing.T) {
	s := Summarize(nil)
	if s.ROI != 0 {
		t.Errorf("Expected ROI 0 with no staked units, got %f", s.ROI)
	}
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	start, _, err := WindowStart("day", now)
	if err != nil {
		t.Fatalf("WindowStart failed: %v", err)
	}
	if !start.Equal(now.Add(-24 * time.Hour)) {
		t.Errorf("Unexpected day window start: %v", start)
	}

	// Empty keyword defaults to week.
	start, label, err := WindowStart("", now)
	if err != nil {
		t.Fatalf("WindowStart failed: %v", err)
	}
	if !start.Equal(now.Add(-7 * 24 * time.Hour)) {
		t.Errorf("Unexpected default window start: %v", start)
	}
	if label != "last 7 days" {
		t.Errorf("Unexpected label: %s", label)
	}

	start, _, err = WindowStart("all", now)
	if err != nil {
		t.Fatalf("WindowStart failed: %v", err)
	}
	if !start.IsZero() {
		t.Errorf("Expected zero time for all-time window, got %v", start)
	}

	if _, _, err := WindowStart("fortnight", now); err == nil {
		t.Error("Expected error for unknown window keyword")
	}
}
