package controllers

import (
	"fmt"
	"mafiabot/internal/services"
	"net/http"
	"time"
)

type HealthController struct {
	core      services.CoreInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Posts         int     `json:"posts"`
	BotStatus     string  `json:"bot_status"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Posts:         len(hc.core.ListPosts()),
		BotStatus:     hc.core.Status(),
	})
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(core services.CoreInterface) *HealthController {
	return &HealthController{
		core:      core,
		startTime: time.Now(),
	}
}
