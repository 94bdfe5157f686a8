package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/jobscout-cli/internal/blacklist"
	"github.com/sells-group/jobscout-cli/internal/model"
	"github.com/sells-group/jobscout-cli/internal/pipeline"
	"github.com/sells-group/jobscout-cli/internal/report"
	"github.com/sells-group/jobscout-cli/internal/resolve"
)

type jobsResponse struct {
	RunID   string                 `json:"run_id"`
	Count   int                    `json:"count"`
	Rows    []model.Row            `json:"rows"`
	Reports []pipeline.StageReport `json:"reports"`
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	minRating, err := parseFloatParam(r, "min_rating", s.deps.MinRating)
	if err != nil {
		writeError(w, http.StatusBadRequest, eris.New("min_rating must be a number"))
		return
	}
	opts := pipeline.Options{MinRating: minRating}
	if err := opts.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.deps.Pipeline.Run(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	rows := res.Rows
	if rows == nil {
		rows = []model.Row{}
	}
	report.Sort(rows)
	writeJSON(w, http.StatusOK, jobsResponse{RunID: res.RunID, Count: len(rows), Rows: rows, Reports: res.Reports})
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.deps.Companies.GetCompanies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if r.URL.Query().Get("missing_ratings") == "true" {
		companies = report.MissingRatings(companies)
	}
	if companies == nil {
		companies = []model.CompanyRecord{}
	}
	writeJSON(w, http.StatusOK, companies)
}

type matchRequest struct {
	Queries   []string `json:"queries"`
	TopN      *int     `json:"top_n,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.New("invalid request body"))
		return
	}
	if len(req.Queries) == 0 {
		writeError(w, http.StatusBadRequest, eris.New("queries is required"))
		return
	}
	if len(req.Queries) > maxMatchQueries {
		writeError(w, http.StatusBadRequest, eris.Errorf("at most %d queries per request", maxMatchQueries))
		return
	}

	m := s.deps.Matcher
	if req.TopN != nil {
		m.TopN = *req.TopN
	}
	if req.Threshold != nil {
		m.Threshold = *req.Threshold
	}
	if err := m.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	companies, err := s.deps.Companies.GetCompanies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	results, err := m.MatchAll(req.Queries, companies)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, resolve.Report{Threshold: m.Threshold, TopN: m.TopN, Entries: results})
}

func (s *Server) blacklistStore(w http.ResponseWriter, r *http.Request) (blacklist.Store, bool) {
	kind, err := blacklist.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	bl, ok := s.deps.Blacklists[kind]
	if !ok || bl == nil {
		writeError(w, http.StatusNotFound, eris.Errorf("blacklist %s is not configured", kind))
		return nil, false
	}
	return bl, true
}

// blacklistValue returns the decoded {value} segment. chi matches on RawPath
// when the request has one (e.g. an encoded slash), and then the parameter
// is still escaped.
func blacklistValue(r *http.Request) (string, error) {
	v := chi.URLParam(r, "value")
	if r.URL.RawPath != "" {
		var err error
		if v, err = url.PathUnescape(v); err != nil {
			return "", eris.Wrap(err, "invalid value")
		}
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", eris.New("value is required")
	}
	return v, nil
}

func (s *Server) handleBlacklistList(w http.ResponseWriter, r *http.Request) {
	bl, ok := s.blacklistStore(w, r)
	if !ok {
		return
	}
	set, err := bl.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Sorted())
}

func (s *Server) handleBlacklistAdd(w http.ResponseWriter, r *http.Request) {
	s.mutateBlacklist(w, r, blacklist.Store.Add)
}

func (s *Server) handleBlacklistRemove(w http.ResponseWriter, r *http.Request) {
	s.mutateBlacklist(w, r, blacklist.Store.Remove)
}

func (s *Server) mutateBlacklist(w http.ResponseWriter, r *http.Request, op func(blacklist.Store, context.Context, string) error) {
	bl, ok := s.blacklistStore(w, r)
	if !ok {
		return
	}
	v, err := blacklistValue(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := op(bl, r.Context(), v); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
