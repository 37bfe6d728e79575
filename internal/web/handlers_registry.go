package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/JonMunkholm/siruta/internal/core"
	"github.com/JonMunkholm/siruta/internal/logging"
	"github.com/JonMunkholm/siruta/internal/web/templates"
)

// RegistryResponse describes the active registry and the last reload attempt.
type RegistryResponse struct {
	Loaded      bool           `json:"loaded"`
	LoadID      string         `json:"load_id,omitempty"`
	Source      string         `json:"source,omitempty"`
	LoadedAt    *time.Time     `json:"loaded_at,omitempty"`
	Records     int            `json:"records"`
	Counties    int            `json:"counties"`
	Rows        int            `json:"rows"`
	Skipped     int            `json:"skipped"`
	BytesRead   int64          `json:"bytes_read"`
	DurationMS  int64          `json:"duration_ms"`
	Diagnostics map[string]int `json:"diagnostics"`
	Diacritics  string         `json:"diacritics"`
	LastError   string         `json:"last_error,omitempty"`
}

func (s *Server) registryInfo() RegistryResponse {
	diags, lastErr := s.store.LastResult()
	resp := RegistryResponse{
		Diagnostics: make(map[string]int),
		Diacritics:  s.diacritics.String(),
	}
	for _, d := range diags {
		resp.Diagnostics[string(d.Kind)]++
	}
	if lastErr != nil {
		resp.LastError = core.FormatUserError(lastErr)
	}

	reg := s.store.Current()
	if reg == nil {
		return resp
	}
	stats := reg.Stats()
	loadedAt := reg.LoadedAt()
	resp.Loaded = true
	resp.LoadID = reg.ID().String()
	resp.Source = reg.Source()
	resp.LoadedAt = &loadedAt
	resp.Records = stats.Records
	resp.Counties = stats.Counties
	resp.Rows = stats.Rows
	resp.Skipped = stats.Skipped
	resp.BytesRead = stats.BytesRead
	resp.DurationMS = stats.Duration.Milliseconds()
	return resp
}

// handleRegistry returns load metadata and diagnostic counts.
func (s *Server) handleRegistry(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registryInfo())
}

// handleReload reloads the registry file. A request that cannot start within
// the configured wait, because another reload is running, gets REQ002.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	defer s.reloads.Begin()()

	// The reload and its observers finish even if the client goes away.
	ctx := context.WithoutCancel(r.Context())
	if _, _, err := s.store.ReloadWithin(ctx, s.cfg.Registry.ReloadWait); err != nil {
		logging.FromContext(ctx).Warn("reload requested over HTTP failed", "error", err)
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.registryInfo())
}

// handleHealth reports 200 once a registry is loaded, 503 before.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reg := s.store.Current()
	if reg == nil {
		s.respondError(w, r, core.ErrNoRegistry)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"load_id": reg.ID().String(),
		"records": reg.Len(),
		"reloads": s.reloads.Active(),
	})
}

// handleCountiesPage renders the county index as an HTML table.
func (s *Server) handleCountiesPage(w http.ResponseWriter, r *http.Request) {
	h, err := s.queryHandle(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	counties := countyEntries(h, withPrefix(r))
	rows := make([]templates.CountyRow, len(counties))
	for i, c := range counties {
		rows[i] = templates.CountyRow{Number: c.Number, Code: c.Code, Name: c.Name}
	}

	reg := h.Registry()
	data := templates.CountiesPageData{
		Rows:     rows,
		LoadID:   reg.ID().String(),
		Source:   reg.Source(),
		LoadedAt: reg.LoadedAt(),
		Records:  reg.Len(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.CountiesPage(data).Render(r.Context(), w); err != nil && !errors.Is(err, context.Canceled) {
		logging.FromContext(r.Context()).Error("render counties page", "error", err)
	}
}
