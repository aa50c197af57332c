package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"valuebot/internal/logger"
	"valuebot/internal/oddsapi"
	"valuebot/internal/storage"
)

// SettlementWorker reconciles open bet records against authoritative final
// scores. It runs on its own interval, independent of the detection cycle.
// An event that has not finished stays open and is retried next cycle; there
// is no retry limit, since games get delayed.
type SettlementWorker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	ticker   *time.Ticker
	client   *oddsapi.Client
	daysFrom int
}

// NewSettlementWorker creates a settlement worker.
func NewSettlementWorker(client *oddsapi.Client, daysFrom int, interval time.Duration) *SettlementWorker {
	ctx, cancel := context.WithCancel(context.Background())
	return &SettlementWorker{
		ctx:      ctx,
		cancel:   cancel,
		ticker:   time.NewTicker(interval),
		client:   client,
		daysFrom: daysFrom,
	}
}

// Start begins the background worker
func (w *SettlementWorker) Start() {
	logger.Debug("settlement_worker_started", fmt.Sprintf("days_from=%d", w.daysFrom))

	// Run immediately on start
	w.settleAll()

	// Then run on ticker
	go func() {
		for {
			select {
			case <-w.ticker.C:
				w.settleAll()
			case <-w.ctx.Done():
				logger.Debug("settlement_worker_stopped", "")
				return
			}
		}
	}()
}

// Stop stops the background worker
func (w *SettlementWorker) Stop() {
	w.ticker.Stop()
	w.cancel()
}

// settleAll settles open records sport by sport. A score-fetch failure skips
// that sport for the cycle only.
func (w *SettlementWorker) settleAll() {
	sports, err := storage.OpenSports()
	if err != nil {
		logger.Error("settlement_query_failed", err)
		return
	}

	for _, sport := range sports {
		if err := w.settleSport(sport); err != nil {
			logger.Error("settle_sport_failed", fmt.Errorf("sport=%s: %w", sport, err))
		}
	}
}

func (w *SettlementWorker) settleSport(sport string) error {
	open, err := storage.GetOpenBets(sport)
	if err != nil {
		return err
	}
	if len(open) == 0 {
		return nil
	}

	scores, err := w.client.FetchScores(w.ctx, sport, w.daysFrom)
	if err != nil {
		return err
	}

	byEvent := make(map[string]oddsapi.Score, len(scores))
	for _, sc := range scores {
		byEvent[sc.ID] = sc
	}

	settled := 0
	for _, rec := range open {
		score, ok := byEvent[rec.EventID]
		if !ok || !score.Completed {
			continue // not finished yet, retry next cycle
		}

		result, ok := DetermineResult(rec, &score)
		if !ok {
			// No settlement rule for this market. Leave the record open
			// rather than guess; it stays out of ROI until resolved.
			continue
		}

		if err := storage.SetResult(rec.BetID, result); err != nil {
			if errors.Is(err, storage.ErrAlreadySettled) || errors.Is(err, storage.ErrNotFound) {
				// Contract violation, surface as a bug rather than retry.
				logger.Error("settlement_contract_violation", fmt.Errorf("bet_id=%s: %w", rec.BetID, err))
				continue
			}
			logger.Error("set_result_failed", fmt.Errorf("bet_id=%s: %w", rec.BetID, err))
			continue
		}
		settled++
		logger.Debug("bet_settled", fmt.Sprintf("bet_id=%s result=%s", rec.BetID, result))
	}

	if settled > 0 {
		logger.Debug("settlement_cycle_done", fmt.Sprintf("sport=%s settled=%d open=%d", sport, settled, len(open)))
	}
	return nil
}

// DetermineResult resolves a record against a final score. The second return
// is false when the market has no settlement rule; such records stay unset.
// Price is never used to infer the outcome, only the authoritative score.
func DetermineResult(rec *storage.BetRecord, score *oddsapi.Score) (storage.Result, bool) {
	homeScore, okHome := score.SideScoreValue(score.HomeTeam)
	awayScore, okAway := score.SideScoreValue(score.AwayTeam)
	if !okHome || !okAway {
		return "", false
	}

	switch rec.Market {
	case "h2h":
		return settleHeadToHead(rec, score, homeScore, awayScore), true
	case "totals":
		return settleTotal(rec, homeScore, awayScore)
	case "spreads":
		return settleSpread(rec, score, homeScore, awayScore)
	default:
		return "", false
	}
}

func settleHeadToHead(rec *storage.BetRecord, score *oddsapi.Score, homeScore, awayScore int) storage.Result {
	if homeScore == awayScore {
		// Drawn game: an explicit draw pick wins, side picks push.
		if rec.Pick == "Draw" {
			return storage.ResultWin
		}
		return storage.ResultVoid
	}

	winner := score.HomeTeam
	if awayScore > homeScore {
		winner = score.AwayTeam
	}
	if rec.Pick == winner {
		return storage.ResultWin
	}
	return storage.ResultLoss
}

func settleTotal(rec *storage.BetRecord, homeScore, awayScore int) (storage.Result, bool) {
	if rec.Point == nil {
		return "", false
	}
	total := float64(homeScore + awayScore)
	line := *rec.Point

	switch rec.Pick {
	case "Over":
		if total > line {
			return storage.ResultWin, true
		}
		if total == line {
			return storage.ResultVoid, true
		}
		return storage.ResultLoss, true
	case "Under":
		if total < line {
			return storage.ResultWin, true
		}
		if total == line {
			return storage.ResultVoid, true
		}
		return storage.ResultLoss, true
	default:
		return "", false
	}
}

func settleSpread(rec *storage.BetRecord, score *oddsapi.Score, homeScore, awayScore int) (storage.Result, bool) {
	if rec.Point == nil {
		return "", false
	}

	var own, other float64
	switch rec.Pick {
	case score.HomeTeam:
		own, other = float64(homeScore), float64(awayScore)
	case score.AwayTeam:
		own, other = float64(awayScore), float64(homeScore)
	default:
		return "", false
	}

	adjusted := own + *rec.Point
	if adjusted > other {
		return storage.ResultWin, true
	}
	if adjusted == other {
		return storage.ResultVoid, true
	}
	return storage.ResultLoss, true
}
