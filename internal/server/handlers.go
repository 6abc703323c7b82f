package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ghost-job-detector/internal/company"
	"github.com/jonathan/ghost-job-detector/internal/db"
	"github.com/jonathan/ghost-job-detector/internal/fetch"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

// AnalyzeRequest is the POST /analyze payload.
type AnalyzeRequest struct {
	Title       string `json:"title" validate:"max=500"`
	Company     string `json:"company" validate:"max=500"`
	Description string `json:"description" validate:"max=50000"`
	Location    string `json:"location" validate:"max=500"`
	Remote      bool   `json:"remote"`
	PostedAt    string `json:"posted_at" validate:"omitempty"`
	SourceURL   string `json:"source_url" validate:"omitempty,url"`
}

// AnalyzeResponse wraps the analysis outcome with request-level context.
type AnalyzeResponse struct {
	AnalysisID *uuid.UUID             `json:"analysis_id,omitempty"`
	Platform   string                 `json:"platform"`
	Outcome    types.FusionOutcome    `json:"outcome"`
	Degraded   bool                   `json:"degraded"`
	Duplicate  *types.SimilarityScore `json:"duplicate,omitempty"`
}

// handleAnalyze scores one posting and, when a database is configured,
// records it into posting history and the analysis log.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	facts, err := req.toFacts()
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := AnalyzeResponse{
		Platform: string(fetch.DetectPlatform(facts.SourceURL)),
	}

	// Duplicate check against stored postings for the same company runs
	// before the new posting is recorded.
	if s.db != nil {
		resp.Duplicate = s.findStoredDuplicate(r, facts)
	}

	outcome, err := s.analyzer.Analyze(r.Context(), facts)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	resp.Outcome = *outcome
	resp.Degraded = outcome.Degraded()

	if s.db != nil {
		postingID := uuid.Nil
		stored, _, err := s.db.RecordPosting(r.Context(), facts)
		if err != nil {
			log.Printf("Warning: failed to record posting: %v", err)
		} else {
			postingID = stored.ID
		}

		analysis, err := s.db.SaveAnalysis(r.Context(), facts, outcome, postingID)
		if err != nil {
			log.Printf("Warning: failed to save analysis: %v", err)
		} else {
			resp.AnalysisID = &analysis.ID
		}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) findStoredDuplicate(r *http.Request, facts *types.JobFacts) *types.SimilarityScore {
	normalized := company.NewNormalizer(s.db).Normalize(r.Context(), facts.Company)
	if normalized.IsUnknown() {
		return nil
	}

	candidates, err := s.db.ListCandidatesByCompany(r.Context(), normalized.NormalizedKey, db.DefaultHistoryLimit)
	if err != nil {
		log.Printf("Warning: duplicate candidate lookup failed: %v", err)
		return nil
	}
	return s.deduper.FindDuplicate(r.Context(), facts, candidates)
}

// handleHistory returns stored analyses, optionally filtered by company and
// risk level.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "history requires a configured database")
		return
	}

	filter := db.HistoryFilter{
		Company: r.URL.Query().Get("company"),
	}
	if level := r.URL.Query().Get("risk_level"); level != "" {
		switch types.RiskLevel(level) {
		case types.RiskLow, types.RiskMedium, types.RiskHigh:
			filter.RiskLevel = types.RiskLevel(level)
		default:
			s.errorResponse(w, http.StatusBadRequest, "risk_level must be low, medium, or high")
			return
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	analyses, err := s.db.History(r.Context(), filter)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load history")
		log.Printf("Error loading history: %v", err)
		return
	}
	if analyses == nil {
		analyses = []db.Analysis{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"analyses": analyses,
		"count":    len(analyses),
	})
}

// handleStats returns aggregate risk-tier statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "stats require a configured database")
		return
	}

	stats, err := s.db.GetStats(r.Context(), 10)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to aggregate stats")
		log.Printf("Error aggregating stats: %v", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}

// toFacts converts the request into immutable analysis input. The posted_at
// field accepts RFC 3339 timestamps or plain dates.
func (r *AnalyzeRequest) toFacts() (*types.JobFacts, error) {
	facts := &types.JobFacts{
		Title:       strings.TrimSpace(r.Title),
		Company:     strings.TrimSpace(r.Company),
		Description: r.Description,
		Location:    strings.TrimSpace(r.Location),
		Remote:      r.Remote,
		SourceURL:   strings.TrimSpace(r.SourceURL),
	}

	if r.PostedAt != "" {
		postedAt, err := parsePostedAt(r.PostedAt)
		if err != nil {
			return nil, err
		}
		facts.PostedAt = &postedAt
	}
	return facts, nil
}

func parsePostedAt(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, &ErrValidation{Field: "posted_at", Message: "must be RFC 3339 or YYYY-MM-DD"}
	}
	return t, nil
}
