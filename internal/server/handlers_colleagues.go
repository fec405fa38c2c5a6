package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jonathan/network-overlap/internal/enrichment"
	"github.com/jonathan/network-overlap/internal/types"
	"go.uber.org/zap"
)

// maxImportBytes caps the size of an uploaded connections export.
const maxImportBytes = 10 << 20

// SSE event names for batch enrichment.
const (
	eventProgress = "progress"
	eventItem     = "item"
	eventComplete = "complete"
)

// enrichResponse is the body of a successful single enrichment.
type enrichResponse struct {
	Success  bool             `json:"success"`
	State    enrichment.State `json:"state"`
	Name     string           `json:"name,omitempty"`
	Headline string           `json:"headline,omitempty"`
	Count    int              `json:"count"`
}

// colleagueDetail always carries work_history, empty for colleagues that
// were never enriched. List responses omit it.
type colleagueDetail struct {
	*types.Colleague
	WorkHistory []types.EmploymentPeriod `json:"work_history"`
}

func (s *Server) handleListColleagues(w http.ResponseWriter, r *http.Request) {
	colleagues, err := s.deps.Store.ListColleagues(r.Context())
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	if colleagues == nil {
		colleagues = []types.Colleague{}
	}
	s.jsonResponse(w, http.StatusOK, colleagues)
}

func (s *Server) handleGetColleague(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.domainError(w, r, err)
		return
	}

	colleague, err := s.deps.Store.GetColleague(r.Context(), id)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	if colleague == nil {
		s.errorResponse(w, http.StatusNotFound, "Not found")
		return
	}
	detail := colleagueDetail{Colleague: colleague, WorkHistory: colleague.WorkHistory}
	if detail.WorkHistory == nil {
		detail.WorkHistory = []types.EmploymentPeriod{}
	}
	s.jsonResponse(w, http.StatusOK, detail)
}

func (s *Server) handleDeleteColleague(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.domainError(w, r, err)
		return
	}

	deleted, err := s.deps.Store.DeleteColleague(r.Context(), id)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleImportColleagues(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close() //nolint:errcheck

	result, err := s.deps.Importer.Import(r.Context(), file)
	if err != nil {
		s.logger.Warn("import failed", zap.Error(err))
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleEnrichColleague(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.domainError(w, r, err)
		return
	}

	result, err := s.deps.Enricher.Enrich(r.Context(), id)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, enrichResponse{
		Success:  true,
		State:    result.State,
		Name:     result.Name,
		Headline: result.Headline,
		Count:    result.Count,
	})
}

// handleEnrichAll streams batch progress as server-sent events. A "progress"
// event precedes each colleague, an "item" event follows it, and a final
// "complete" event carries the summary.
func (s *Server) handleEnrichAll(w http.ResponseWriter, r *http.Request) {
	if s.batches.Running() {
		s.domainError(w, r, enrichment.ErrBatchRunning)
		return
	}
	includeEnriched, _ := strconv.ParseBool(r.URL.Query().Get("include_enriched"))

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	opts := enrichment.BatchOptions{
		IncludeEnriched: includeEnriched,
		OnProgress: func(event enrichment.ProgressEvent) {
			name := eventProgress
			if event.Phase == enrichment.PhaseFinished {
				name = eventItem
			}
			if err := sse.WriteEvent(name, event); err != nil {
				s.logger.Debug("failed to write progress event", zap.Error(err))
			}
		},
	}

	summary, err := s.batches.Run(r.Context(), s.deps.Enricher, opts)
	if err != nil {
		if !errors.Is(err, enrichment.ErrBatchRunning) {
			s.logger.Error("batch enrichment failed", zap.Error(err))
		}
		sse.WriteError(ErrorCode(err), userMessage(err))
		return
	}
	sse.WriteEvent(eventComplete, summary) //nolint:errcheck
}

func (s *Server) handleCancelEnrichAll(w http.ResponseWriter, _ *http.Request) {
	cancelled := s.batches.Cancel()
	s.jsonResponse(w, http.StatusOK, map[string]bool{"cancelled": cancelled})
}
