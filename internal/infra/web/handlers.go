package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"telegram-job-applier/internal/domain"
	"telegram-job-applier/internal/domain/model"
)

type applicationResponse struct {
	ID          int64          `json:"id"`
	UserID      string         `json:"user_id"`
	JobURL      string         `json:"job_url"`
	Status      string         `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type historyEntryResponse struct {
	ID        string         `json:"id"`
	EventType string         `json:"event_type"`
	EventData map[string]any `json:"event_data"`
	Timestamp time.Time      `json:"timestamp"`
}

func toApplicationResponse(a *model.JobApplication) applicationResponse {
	return applicationResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		JobURL:      a.JobURL,
		Status:      string(a.Status),
		StartedAt:   a.StartedAt,
		CompletedAt: a.CompletedAt,
		Metadata:    a.Metadata,
	}
}

func (s *Server) applicationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid application id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := s.applicationID(w, r)
	if !ok {
		return
	}
	app, err := s.appUC.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Application not found", http.StatusNotFound)
			return
		}
		s.log.Error().Err(err).Int64("application_id", id).Msg("get application")
		http.Error(w, "Failed to get application", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.applicationID(w, r)
	if !ok {
		return
	}
	entries, err := s.appUC.History(r.Context(), id)
	if err != nil {
		s.log.Error().Err(err).Int64("application_id", id).Msg("get history")
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}
	items := make([]historyEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, historyEntryResponse{
			ID:        e.ID,
			EventType: string(e.EventType),
			EventData: e.EventData,
			Timestamp: e.Timestamp,
		})
	}
	writeJSON(w, http.StatusOK, struct {
		Items []historyEntryResponse `json:"items"`
	}{Items: items})
}

func (s *Server) handleCancelApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := s.applicationID(w, r)
	if !ok {
		return
	}
	if err := s.appUC.Cancel(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Application not found", http.StatusNotFound)
			return
		}
		s.log.Error().Err(err).Int64("application_id", id).Msg("cancel application")
		http.Error(w, "Failed to cancel application", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(model.ApplicationStatusCancelled)})
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	apps, err := s.appUC.ListByUser(r.Context(), userID, limit)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("list applications")
		http.Error(w, "Failed to list applications", http.StatusInternalServerError)
		return
	}
	items := make([]applicationResponse, 0, len(apps))
	for _, a := range apps {
		items = append(items, toApplicationResponse(a))
	}
	writeJSON(w, http.StatusOK, struct {
		Items []applicationResponse `json:"items"`
	}{Items: items})
}

// handleAdminLogin exchanges the shared admin key for a session: a JWT set as
// the admin_session cookie and also returned for Bearer use.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if s.cfg.APIKey == "" {
		s.log.Error().Msg("admin API key is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Key), []byte(s.cfg.APIKey)) != 1 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if _, err := s.auth.Mint(w); err != nil {
		s.log.Error().Err(err).Msg("mint admin session")
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
