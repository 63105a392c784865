package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchcryptid/cross-domain-correlator/internal/domain"
)

// maxRequestBody bounds the correlation request body.
const maxRequestBody = 64 << 10

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	series, err := s.svc.RefreshWeather(r.Context(), r.URL.Query().Get("city"))
	s.writeSeries(w, r, series, err)
}

func (s *Server) handleFinancial(w http.ResponseWriter, r *http.Request) {
	series, err := s.svc.RefreshFinancial(r.Context())
	s.writeSeries(w, r, series, err)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	series, err := s.svc.RefreshHealth(r.Context())
	s.writeSeries(w, r, series, err)
}

func (s *Server) handleTechCompanies(w http.ResponseWriter, r *http.Request) {
	companies, ok := s.svc.TechCompanies(r.PathValue("category"))
	if !ok {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

func (s *Server) handleTechData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	series, err := s.svc.RefreshTech(r.Context(), q.Get("category"), q.Get("company"))
	s.writeSeries(w, r, series, err)
}

func (s *Server) handleCrops(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Crops())
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	regions, ok := s.svc.Regions(r.PathValue("crop"))
	if !ok {
		writeJSON(w, http.StatusNotFound, []string{})
		return
	}
	writeJSON(w, http.StatusOK, regions)
}

func (s *Server) handleAgricultureData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	series, err := s.svc.RefreshAgriculture(r.Context(), q.Get("crop"), q.Get("region"))
	s.writeSeries(w, r, series, err)
}

type correlationRequest struct {
	Dataset1 string `json:"dataset1"`
	Dataset2 string `json:"dataset2"`
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	var req correlationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid datasets")
		return
	}

	result, err := s.svc.Correlate(req.Dataset1, req.Dataset2)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDataset) || errors.Is(err, domain.ErrEmptyDataset) {
			writeError(w, http.StatusBadRequest, "Invalid datasets")
			return
		}
		s.logger.Error("correlation failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDatasets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Datasets())
}

// writeSeries renders a refreshed series or maps the refresh failure to a
// status code and message.
func (s *Server) writeSeries(w http.ResponseWriter, r *http.Request, series domain.Series, err error) {
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("request failed", "path", r.URL.Path, "kind", domain.Kind(err), "error", err)
		}
		writeError(w, status, errorMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidDataset),
		errors.Is(err, domain.ErrEmptyDataset),
		errors.Is(err, domain.ErrProviderRejected):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage prefers the user-facing text carried by request and provider
// errors over the wrapped chain.
func errorMessage(err error) string {
	var reqErr *domain.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}
	var provErr *domain.ProviderError
	if errors.As(err, &provErr) {
		return provErr.Message
	}
	return err.Error()
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
