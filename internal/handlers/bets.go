package handlers

import (
	"encoding/json"
	"net/http"

	"valuebot/internal/logger"
	"valuebot/internal/storage"
)

// HandleBets serves the open bet records as JSON. Read-only: records are
// created and settled by the workers, never through the API.
func HandleBets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sport := r.URL.Query().Get("sport")
	bets, err := storage.GetOpenBets(sport)
	if err != nil {
		logger.Error("api_bets_failed", err)
		http.Error(w, "Failed to load bets", http.StatusInternalServerError)
		return
	}
	if bets == nil {
		bets = []*storage.BetRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bets)
}
