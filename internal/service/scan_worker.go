package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"valuebot/internal/ev"
	"valuebot/internal/feed"
	"valuebot/internal/logger"
	"valuebot/internal/oddsapi"
	"valuebot/internal/storage"
)

// ScanWorker drives the detection cycle: fetch odds per sport, normalize,
// estimate fair prices, detect EV, stake, dedup, persist, notify. Sports are
// scanned in parallel; the API client's rate limiter keeps the request
// budget intact.
type ScanWorker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	ticker   *time.Ticker
	client   *oddsapi.Client
	sports   map[string][]string
	detector ev.Config
	bands    []ev.Band
	ledger   *DedupLedger
	notifier Notifier
}

// NewScanWorker creates a scan worker.
func NewScanWorker(client *oddsapi.Client, sports map[string][]string, detector ev.Config, bands []ev.Band, ledger *DedupLedger, notifier Notifier, interval time.Duration) *ScanWorker {
	ctx, cancel := context.WithCancel(context.Background())
	return &ScanWorker{
		ctx:      ctx,
		cancel:   cancel,
		ticker:   time.NewTicker(interval),
		client:   client,
		sports:   sports,
		detector: detector,
		bands:    bands,
		ledger:   ledger,
		notifier: notifier,
	}
}

// Start begins the background worker
func (w *ScanWorker) Start() {
	logger.Debug("scan_worker_started", fmt.Sprintf("sports=%d", len(w.sports)))

	// Run immediately on start
	w.scanAll()

	// Then run on ticker
	go func() {
		for {
			select {
			case <-w.ticker.C:
				w.scanAll()
			case <-w.ctx.Done():
				logger.Debug("scan_worker_stopped", "")
				return
			}
		}
	}()
}

// Stop stops the background worker
func (w *ScanWorker) Stop() {
	w.ticker.Stop()
	w.cancel()
}

// scanAll runs one detection cycle across every configured sport. A failure
// in one sport never blocks or aborts the others.
func (w *ScanWorker) scanAll() {
	var wg sync.WaitGroup
	for sport, markets := range w.sports {
		wg.Add(1)
		go func(sport string, markets []string) {
			defer wg.Done()
			if err := w.scanSport(sport, markets); err != nil {
				logger.Error("scan_sport_failed", fmt.Errorf("sport=%s: %w", sport, err))
			}
		}(sport, markets)
	}
	wg.Wait()
}

// scanSport runs the pipeline for one sport. Transport and malformed-data
// failures skip this sport for the cycle; the next tick retries.
func (w *ScanWorker) scanSport(sport string, markets []string) error {
	raw, err := w.client.FetchOdds(w.ctx, sport, markets)
	if err != nil {
		return err
	}

	events, err := feed.ParseSnapshot(raw)
	if err != nil {
		return err
	}

	opportunities := ev.Detect(events, w.detector, time.Now())
	if len(opportunities) == 0 {
		return nil
	}
	logger.Debug("opportunities_detected", fmt.Sprintf("sport=%s count=%d", sport, len(opportunities)))

	for _, opp := range opportunities {
		if err := w.accept(sport, opp); err != nil {
			logger.Error("accept_opportunity_failed", fmt.Errorf("bet_id=%s: %w", storage.BetID(opp.EventID, opp.Market, opp.Outcome, opp.Point), err))
		}
	}

	return nil
}

// accept stakes an opportunity, runs it through the dedup gate and notifies
// on first sight. The store's idempotent insert is the gate's authority;
// the ledger only short-circuits known repeats.
func (w *ScanWorker) accept(sport string, opp ev.Opportunity) error {
	betID := storage.BetID(opp.EventID, opp.Market, opp.Outcome, opp.Point)
	if w.ledger.Seen(betID) {
		return nil
	}

	rec := &storage.BetRecord{
		BetID:        betID,
		EventID:      opp.EventID,
		Sport:        sport,
		Event:        fmt.Sprintf("%s vs %s", opp.HomeTeam, opp.AwayTeam),
		CommenceTime: opp.CommenceTime,
		Market:       opp.Market,
		Pick:         opp.Outcome,
		Point:        opp.Point,
		Odds:         opp.BestPrice,
		Book:         opp.BestBook,
		Stake:        ev.Stake(opp.EV, w.bands),
		EV:           opp.EV,
		Result:       storage.ResultUnset,
	}

	created, err := storage.CreateBetIfAbsent(rec)
	if err != nil {
		return err
	}
	w.ledger.Remember(betID)
	if !created {
		return nil
	}

	logger.Debug("bet_recorded", fmt.Sprintf("bet_id=%s ev=%.4f stake=%.1f", betID, rec.EV, rec.Stake))
	if err := w.notifier.Notify(FormatAlert(rec)); err != nil {
		logger.Error("notify_failed", fmt.Errorf("bet_id=%s: %w", betID, err))
	}
	return nil
}
