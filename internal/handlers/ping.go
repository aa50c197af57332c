package handlers

import (
	"encoding/json"
	"net/http"
)

// PingHandler responds to health checks
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
