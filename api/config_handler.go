// Package api — configuration endpoints.
package api

import (
	"net/http"

	"github.com/mvbarbosa/soywatch/internal/config"
)

// handleGetConfig returns a sanitized view of the running configuration.
// The NewsAPI key itself is never exposed, only whether one is set.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.cfg
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"newsapi": map[string]interface{}{
				"key_set":       cfg.NewsAPI.Key != "",
				"base_url":      cfg.NewsAPI.BaseURL,
				"language":      cfg.NewsAPI.Language,
				"page_size":     cfg.NewsAPI.PageSize,
				"lookback_days": cfg.NewsAPI.LookbackDays,
			},
			"feeds": map[string]interface{}{
				"enabled": cfg.Feeds.Enabled,
				"urls":    cfg.Feeds.URLs,
			},
			"monitor": map[string]interface{}{
				"tickers":          cfg.Monitor.Tickers,
				"interval_seconds": cfg.Monitor.IntervalSeconds,
				"keywords":         len(cfg.Monitor.Keywords),
				"analyzer":         cfg.Monitor.Analyzer,
				"log_file":         cfg.Monitor.LogFile,
			},
			"server": map[string]interface{}{
				"addr":         cfg.Server.Addr,
				"cors_origins": cfg.Server.CORSOrigins,
			},
		},
	})
}

// handleGetConfigKeys returns the status of every sensitive API key.
func (s *Server) handleGetConfigKeys(w http.ResponseWriter, r *http.Request) {
	keys := config.CheckAPIKeys(s.cfg)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    keys,
	})
}
