package server

import (
	"net/http"

	"github.com/jonathan/network-overlap/internal/types"
)

// CreateCandidateRequest is the body of POST /api/candidates.
type CreateCandidateRequest struct {
	ProfileURL string `json:"linkedin_url" validate:"required"`
}

// CreateCandidateFromResumeRequest is the body of POST /api/candidates/resume.
type CreateCandidateFromResumeRequest struct {
	Name       string `json:"name" validate:"max=200"`
	ResumeText string `json:"resume_text" validate:"required"`
}

// candidateResponse is a candidate plus whether it was already stored.
type candidateResponse struct {
	*types.Candidate
	Existing bool `json:"existing"`
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := s.deps.Store.ListCandidates(r.Context())
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	if candidates == nil {
		candidates = []types.Candidate{}
	}
	s.jsonResponse(w, http.StatusOK, candidates)
}

func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req CreateCandidateRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.domainError(w, r, err)
		return
	}

	lookup, err := s.deps.Enricher.LookupCandidate(r.Context(), req.ProfileURL)
	if err != nil {
		s.domainError(w, r, err)
		return
	}

	status := http.StatusCreated
	if lookup.Existing {
		status = http.StatusOK
	}
	s.jsonResponse(w, status, candidateResponse{Candidate: withHistory(lookup.Candidate), Existing: lookup.Existing})
}

func (s *Server) handleCreateCandidateFromResume(w http.ResponseWriter, r *http.Request) {
	var req CreateCandidateFromResumeRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.domainError(w, r, err)
		return
	}

	candidate, err := s.deps.Enricher.CandidateFromResume(r.Context(), req.Name, req.ResumeText)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, candidateResponse{Candidate: withHistory(candidate)})
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.domainError(w, r, err)
		return
	}

	candidate, err := s.deps.Store.GetCandidate(r.Context(), id)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	if candidate == nil {
		s.errorResponse(w, http.StatusNotFound, "Not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, withHistory(candidate))
}

func (s *Server) handleGetOverlaps(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.domainError(w, r, err)
		return
	}

	facts, err := s.deps.Overlaps.ResolveOverlaps(r.Context(), id)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	if facts == nil {
		facts = []types.OverlapFact{}
	}
	s.jsonResponse(w, http.StatusOK, facts)
}

func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.domainError(w, r, err)
		return
	}

	deleted, err := s.deps.Store.DeleteCandidate(r.Context(), id)
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

// withHistory makes sure the history serializes as an array.
func withHistory(c *types.Candidate) *types.Candidate {
	if c != nil && c.History == nil {
		c.History = []types.EmploymentPeriod{}
	}
	return c
}
