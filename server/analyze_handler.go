package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/cnosuke/tag-audit/analyzer"
	"github.com/cnosuke/tag-audit/fetcher"
	ierrors "github.com/cnosuke/tag-audit/internal/errors"
	"github.com/cnosuke/tag-audit/types"
)

const maxRequestBytes = 1 << 20

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	log := zap.S().With("request_id", RequestID(r.Context()))

	var req types.AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		log.Warnw("invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: "URL is required"})
		return
	}

	log.Infow("analyze request", "url", req.URL, "sector", req.Sector, "hit_count", req.HitCount)

	resp, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		var failure *analyzer.Failure
		switch {
		case ierrors.As(err, &failure):
			writeJSON(w, http.StatusOK, failure.Response)
		case ierrors.Is(err, analyzer.ErrMissingURL):
			writeJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: "URL is required"})
		case ierrors.Is(err, fetcher.ErrInvalidURL):
			writeJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: "invalid url", Message: err.Error()})
		default:
			log.Errorw("analysis failed", "url", req.URL, "error", err)
			writeJSON(w, http.StatusInternalServerError, types.ErrorResponse{Error: "analysis failed", Message: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.S().Warnw("failed to write response", "error", err)
	}
}
