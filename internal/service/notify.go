package service

import (
	"fmt"
	"strings"
	"time"

	"valuebot/internal/storage"
)

// Notifier delivers one formatted text message. The pipeline does not know
// or care how messages reach the chat.
type Notifier interface {
	Notify(text string) error
}

// FormatAlert renders the one message sent per accepted opportunity.
func FormatAlert(rec *storage.BetRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎯 Value bet found!\n\n")
	fmt.Fprintf(&b, "🏟 %s (%s)\n", rec.Event, rec.Sport)
	fmt.Fprintf(&b, "🕒 Starts: %s\n\n", rec.CommenceTime.UTC().Format("Mon 02 Jan 15:04 MST"))
	fmt.Fprintf(&b, "Market: %s\n", rec.Market)
	fmt.Fprintf(&b, "Pick: %s @ %.2f (%s)\n", rec.Description(), rec.Odds, rec.Book)
	fmt.Fprintf(&b, "EV: %+.2f%%\n", rec.EV*100)
	fmt.Fprintf(&b, "Stake: %.1f units", rec.Stake)
	return b.String()
}

// FormatOpenBets renders the /open command response.
func FormatOpenBets(bets []*storage.BetRecord) string {
	if len(bets) == 0 {
		return "📭 No open bets."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Open bets (%d)\n", len(bets))
	for _, rec := range bets {
		fmt.Fprintf(&b, "\n• %s — %s %s @ %.2f (%s), %.1fu, EV %+.1f%%",
			rec.Event, rec.Market, rec.Description(), rec.Odds, rec.Book, rec.Stake, rec.EV*100)
	}
	return b.String()
}

// FormatReport renders the ROI report for one window.
func FormatReport(label string, s Summary, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 ROI report — %s\n", label)
	fmt.Fprintf(&b, "Generated: %s\n\n", now.UTC().Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "Settled bets: %d (W %d / L %d / V %d)\n", s.Bets, s.Wins, s.Losses, s.Voids)
	fmt.Fprintf(&b, "Staked: %.1f units\n", s.Staked)
	fmt.Fprintf(&b, "Profit: %+.2f units\n", s.Profit)
	fmt.Fprintf(&b, "ROI: %+.2f%%", s.ROI)
	return b.String()
}
