package service

import (
	"testing"

	"valuebot/internal/oddsapi"
	"valuebot/internal/storage"
)

func finalScore(home, away string, homeScore, awayScore string) *oddsapi.Score {
	return &oddsapi.Score{
		ID:        "evt1",
		HomeTeam:  home,
		AwayTeam:  away,
		Completed: true,
		Scores: []oddsapi.SideScore{
			{Name: home, Score: homeScore},
			{Name: away, Score: awayScore},
		},
	}
}

func betOn(market, pick string, point *float64) *storage.BetRecord {
	return &storage.BetRecord{
		BetID:   "bet1",
		EventID: "evt1",
		Market:  market,
		Pick:    pick,
		Point:   point,
	}
}

func TestDetermineResultHeadToHead(t *testing.T) {
	score := finalScore("Arsenal", "Spurs", "2", "1")

	result, ok := DetermineResult(betOn("h2h", "Arsenal", nil), score)
	if !ok || result != storage.ResultWin {
		t.Errorf("Expected win for winning pick, got %s ok=%v", result, ok)
	}

	result, ok = DetermineResult(betOn("h2h", "Spurs", nil), score)
	if !ok || result != storage.ResultLoss {
		t.Errorf("Expected loss for losing pick, got %s ok=%v", result, ok)
	}
}

func TestDetermineResultDraw(t *testing.T) {
	score := finalScore("Arsenal", "Spurs", "1", "1")

	result, ok := DetermineResult(betOn("h2h", "Draw", nil), score)
	if !ok || result != storage.ResultWin {
		t.Errorf("Expected draw pick to win a drawn game, got %s ok=%v", result, ok)
	}

	result, ok = DetermineResult(betOn("h2h", "Arsenal", nil), score)
	if !ok || result != storage.ResultVoid {
		t.Errorf("Expected side pick to push on a draw, got %s ok=%v", result, ok)
	}
}

func TestDetermineResultTotals(t *testing.T) {
	line := 2.5
	score := finalScore("Arsenal", "Spurs", "2", "1") // total 3

	result, ok := DetermineResult(betOn("totals", "Over", &line), score)
	if !ok || result != storage.ResultWin {
		t.Errorf("Expected over 2.5 to win with total 3, got %s ok=%v", result, ok)
	}

	result, ok = DetermineResult(betOn("totals", "Under", &line), score)
	if !ok || result != storage.ResultLoss {
		t.Errorf("Expected under 2.5 to lose with total 3, got %s ok=%v", result, ok)
	}

	// Exact line pushes.
	exact := 3.0
	result, ok = DetermineResult(betOn("totals", "Over", &exact), score)
	if !ok || result != storage.ResultVoid {
		t.Errorf("Expected push on exact line, got %s ok=%v", result, ok)
	}

	// No line recorded: no rule, stays open.
	if _, ok := DetermineResult(betOn("totals", "Over", nil), score); ok {
		t.Error("Expected totals without a line to have no settlement rule")
	}
}

func TestDetermineResultSpreads(t *testing.T) {
	spread := -3.5
	score := finalScore("Lakers", "Celtics", "110", "105")

	result, ok := DetermineResult(betOn("spreads", "Lakers", &spread), score)
	if !ok || result != storage.ResultWin {
		t.Errorf("Expected Lakers -3.5 to cover a 5-point win, got %s ok=%v", result, ok)
	}

	tight := -5.0
	result, ok = DetermineResult(betOn("spreads", "Lakers", &tight), score)
	if !ok || result != storage.ResultVoid {
		t.Errorf("Expected exact cover to push, got %s ok=%v", result, ok)
	}

	plus := 3.5
	result, ok = DetermineResult(betOn("spreads", "Celtics", &plus), score)
	if !ok || result != storage.ResultLoss {
		t.Errorf("Expected Celtics +3.5 to lose by 5, got %s ok=%v", result, ok)
	}
}

func TestDetermineResultUnknownMarketStaysOpen(t *testing.T) {
	score := finalScore("Arsenal", "Spurs", "2", "1")
	if _, ok := DetermineResult(betOn("player_props", "Saka", nil), score); ok {
		t.Error("Expected market without a settlement rule to stay unset")
	}
}

func TestDetermineResultMissingScores(t *testing.T) {
	score := &oddsapi.Score{
		ID:        "evt1",
		HomeTeam:  "Arsenal",
		AwayTeam:  "Spurs",
		Completed: true,
		// scores list absent
	}
	if _, ok := DetermineResult(betOn("h2h", "Arsenal", nil), score); ok {
		t.Error("Expected missing side scores to defer settlement")
	}
}
