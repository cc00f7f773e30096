package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseDateRange reads start/end query params as YYYY-MM-DD dates.
// start defaults to 90 days ago, end to today.
func parseDateRange(r *http.Request) (string, string, error) {
	const layout = "2006-01-02"
	now := time.Now()

	end := r.URL.Query().Get("end")
	if end == "" {
		end = now.Format(layout)
	} else if _, err := time.Parse(layout, end); err != nil {
		return "", "", fmt.Errorf("invalid end date %q, want YYYY-MM-DD", end)
	}

	start := r.URL.Query().Get("start")
	if start == "" {
		start = now.AddDate(0, 0, -90).Format(layout)
	} else if _, err := time.Parse(layout, start); err != nil {
		return "", "", fmt.Errorf("invalid start date %q, want YYYY-MM-DD", start)
	}

	if start > end {
		return "", "", fmt.Errorf("start %s is after end %s", start, end)
	}
	return start, end, nil
}
