package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"valuebot/internal/logger"
	"valuebot/internal/service"
	"valuebot/internal/storage"
)

// roiResponse is the API shape of one ROI summary.
type roiResponse struct {
	Window string  `json:"window"`
	Bets   int     `json:"bets"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	Voids  int     `json:"voids"`
	Staked float64 `json:"staked"`
	Profit float64 `json:"profit"`
	ROI    float64 `json:"roi_percent"`
}

// HandleROI serves the ROI summary for a window keyword
// (?window=day|week|month|year|all, default week).
func HandleROI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start, label, err := service.WindowStart(r.URL.Query().Get("window"), time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := storage.GetSettledSince(start)
	if err != nil {
		logger.Error("api_roi_failed", err)
		http.Error(w, "Failed to load settled bets", http.StatusInternalServerError)
		return
	}

	s := service.Summarize(records)
	resp := roiResponse{
		Window: label,
		Bets:   s.Bets,
		Wins:   s.Wins,
		Losses: s.Losses,
		Voids:  s.Voids,
		Staked: s.Staked,
		Profit: s.Profit,
		ROI:    s.ROI,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
