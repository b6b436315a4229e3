package scan

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JuhanKuusk/vietnam-fast-visa/internal/passport"
	"github.com/JuhanKuusk/vietnam-fast-visa/internal/scanning"
)

const (
	// multipart framing on top of MaxFileSize
	maxRequestSize = MaxFileSize + 1<<20

	defaultListLimit = 50

	msgNotConfigured = "Passport scanning is not configured. Please enter your details manually."
	msgNoMRZ         = "Could not read passport MRZ. Please ensure the MRZ (machine readable zone at the bottom of the passport) is clearly visible and try again."
	msgNoData        = "Could not read passport data. Please take a clearer photo of the passport data page."
	msgTimeout       = "Passport scanning took too long. Please try again or enter details manually."
	msgScanFailed    = "Failed to scan passport. Please try again or enter details manually."
)

// scanResponse is the success body of a passport scan
type scanResponse struct {
	Success bool           `json:"success"`
	Data    *passport.Data `json:"data"`
	Method  string         `json:"method"`
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

// handleScan reads the uploaded passport page and returns the extracted fields
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	if err := r.ParseMultipartForm(maxRequestSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "File too large. Maximum size is 10MB.")
			return
		}
		slog.Error("Error parsing multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Error parsing form")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err)
		writeError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	result, err := s.service.Scan(r.Context(), header.Filename, data, header.Header.Get("Content-Type"))
	if err != nil {
		code, message := scanErrorResponse(result, err)
		if code == http.StatusInternalServerError {
			slog.Error("Passport scan error", "error", err)
		}
		writeError(w, code, message)
		return
	}

	writeJSON(w, http.StatusOK, scanResponse{
		Success: true,
		Data:    result.Data,
		Method:  result.Method,
	})
}

// scanErrorResponse maps a scan failure to a status code and user message.
// A missing result names the secondary provider or the MRZ reader, whichever
// ran last.
func scanErrorResponse(result *scanning.Result, err error) (int, string) {
	var validation *ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.Is(err, scanning.ErrNotConfigured):
		return http.StatusServiceUnavailable, msgNotConfigured
	case errors.Is(err, scanning.ErrTimeout):
		return http.StatusRequestTimeout, msgTimeout
	case errors.Is(err, scanning.ErrNoResult):
		if result != nil && result.Method == scanning.MethodSecondary {
			return http.StatusUnprocessableEntity, msgNoData
		}
		return http.StatusUnprocessableEntity, msgNoMRZ
	}
	return http.StatusInternalServerError, msgScanFailed
}

// handleListRecords returns the most recent scan records
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	records, err := s.service.ListRecords(limit)
	if err != nil {
		slog.Error("Error listing scan records", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// handleGetRecord returns a single scan record
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	record, err := s.service.GetRecord(r.PathValue("id"))
	if errors.Is(err, ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "Scan not found")
		return
	}
	if err != nil {
		slog.Error("Error getting scan record", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleHealth reports liveness and whether any provider is configured
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"configured": s.service.Configured(),
	})
}
