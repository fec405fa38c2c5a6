package server

import (
	"net/http"

	"go.uber.org/zap"
)

// UpdateSettingRequest is the body of PUT /api/settings/{key}.
type UpdateSettingRequest struct {
	Value *string `json:"value" validate:"required"`
}

// sessionStatus is the response of POST /api/settings/test-linkedin.
type sessionStatus struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	all, err := s.deps.Settings.All(r.Context())
	if err != nil {
		s.domainError(w, r, err)
		return
	}

	resp := make(map[string]any, len(all)+1)
	for k, v := range all {
		resp[k] = v
	}
	status := s.checkSession(r)
	resp["linkedin_session_valid"] = status.Valid

	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.domainError(w, r, err)
		return
	}

	if err := s.deps.Settings.Set(r.Context(), r.PathValue("key"), *req.Value); err != nil {
		s.domainError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleTestSession(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.checkSession(r))
}

// checkSession validates the stored cookie. Failures read as an invalid session.
func (s *Server) checkSession(r *http.Request) sessionStatus {
	cookie, err := s.deps.Settings.SessionCookie(r.Context())
	if err != nil {
		s.logger.Warn("failed to read session cookie", zap.Error(err))
		return sessionStatus{Error: "Could not read session cookie"}
	}
	if cookie == "" {
		return sessionStatus{Error: "No cookie set"}
	}

	valid, err := s.deps.Session.Check(r.Context(), cookie)
	if err != nil {
		s.logger.Warn("session check failed", zap.Error(err))
		return sessionStatus{Error: err.Error()}
	}
	return sessionStatus{Valid: valid}
}
