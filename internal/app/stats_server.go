package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// ServiceStats is the JSON shape served at /stats.
type ServiceStats struct {
	Build struct {
		Commit    string `json:"commit"`
		Time      string `json:"time,omitempty"`
		GoVersion string `json:"go_version"`
	} `json:"build"`

	StartTime string `json:"start_time"`
	Uptime    string `json:"uptime"`
	UptimeSec int64  `json:"uptime_seconds"`

	Channel struct {
		State         string `json:"state"`
		MessageCount  uint64 `json:"message_count"`
		LastMessageAt string `json:"last_message_at,omitempty"`
	} `json:"channel"`

	Page struct {
		Markets  int `json:"markets"`
		Trades   int `json:"trades"`
		Listings int `json:"listings"`
		Toasts   int `json:"toasts"`
		Unread   int `json:"unread"`
	} `json:"page"`

	Theme string `json:"theme"`
}

// GetStats assembles the current service statistics.
func (r *Runner) GetStats() ServiceStats {
	var stats ServiceStats

	stats.Build.Commit = BuildCommit
	stats.Build.Time = BuildTime
	stats.Build.GoVersion = runtime.Version()

	stats.StartTime = r.startTime.UTC().Format(time.RFC3339)
	uptime := time.Since(r.startTime)
	stats.Uptime = uptime.Round(time.Second).String()
	stats.UptimeSec = int64(uptime.Seconds())

	stats.Channel.State = r.bridge.State().String()
	if r.clients.PlatformEvents != nil {
		cs := r.clients.PlatformEvents.Stats()
		stats.Channel.MessageCount = cs.MessageCount
		if !cs.LastMessageAt.IsZero() {
			stats.Channel.LastMessageAt = cs.LastMessageAt.UTC().Format(time.RFC3339)
		}
	}

	snap := r.bridge.Page().Snapshot()
	stats.Page.Markets = len(snap.Markets)
	stats.Page.Trades = len(snap.Trades)
	stats.Page.Listings = len(snap.Listings)
	stats.Page.Toasts = len(snap.Toasts)
	stats.Page.Unread = snap.Unread

	stats.Theme = r.theme

	return stats
}

// startStatsServer serves /health, /stats and the current page snapshot.
func (r *Runner) startStatsServer(port int) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(r.GetStats())
	})

	// The reconciled view model, for renderers and debugging.
	mux.HandleFunc("/page", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(r.bridge.Page().Snapshot())
	})

	r.statsSrv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		if err := r.statsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.clients.Logger.Error("stats server error", zap.Error(err))
		}
	}()

	r.clients.Logger.Info("stats server started", zap.Int("port", port))
}

func (r *Runner) stopStatsServer() {
	if r.statsSrv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = r.statsSrv.Shutdown(ctx)
}
