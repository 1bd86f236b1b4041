package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/url-analyzer/internal/discovery"
	"github.com/jonathan/url-analyzer/internal/proposal"
	"github.com/jonathan/url-analyzer/internal/types"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies; both request types are tiny.
const maxBodyBytes = 1 << 20

// handleAnalyze analyzes a single page
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if !s.decode(w, r, &req) {
		return
	}

	report, err := s.analyzer.AnalyzeURL(r.Context(), req)
	if err != nil {
		s.failed(w, "analyze", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleSiteMap classifies the pages of a domain
func (s *Server) handleSiteMap(w http.ResponseWriter, r *http.Request) {
	var req types.SiteMapRequest
	if !s.decode(w, r, &req) {
		return
	}

	m, err := s.analyzer.MapSite(r.Context(), req)
	if err != nil {
		s.failed(w, "site map", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, m)
}

// handleAdLibraries returns ad transparency links for ?domain=
func (s *Server) handleAdLibraries(w http.ResponseWriter, r *http.Request) {
	domain, err := discovery.NormalizeDomain(r.URL.Query().Get("domain"))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, proposal.AdLibraryLinks(domain))
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.failed(w, "decode request", decodeError(err))
		return false
	}
	return true
}

func (s *Server) failed(w http.ResponseWriter, operation string, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(operation+" failed", zap.Error(err), zap.Int("status", status))
	} else {
		s.logger.Info(operation+" rejected", zap.Error(err), zap.Int("status", status))
	}
	s.errorResponse(w, status, err.Error())
}
