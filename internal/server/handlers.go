package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vegasq/securecheck/dataset"
	"github.com/vegasq/securecheck/output"
	"github.com/vegasq/securecheck/query"
	"github.com/vegasq/securecheck/reader"
	"github.com/vegasq/securecheck/submission"
)

var (
	errRateLimited    = errors.New("rate limit exceeded")
	errUnknownSession = errors.New("unknown session")
	errNoFormat       = errors.New("format or filename query parameter is required")
)

type errorResponse struct {
	Error  string `json:"error"`
	Column string `json:"column,omitempty"`
}

type queryInfo struct {
	ID       int              `json:"id"`
	Name     string           `json:"name"`
	Title    string           `json:"title"`
	Requires []dataset.Column `json:"requires"`
}

type uploadResponse struct {
	Session string   `json:"session"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

type datasetResponse struct {
	Session  string    `json:"session"`
	Source   string    `json:"source,omitempty"`
	Uploaded time.Time `json:"uploaded"`
	reader.Summary
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListQueries(w http.ResponseWriter, _ *http.Request) {
	ids := query.All()
	out := make([]queryInfo, 0, len(ids))
	for _, id := range ids {
		out = append(out, queryInfo{
			ID:       int(id),
			Name:     id.String(),
			Title:    id.Title(),
			Requires: id.Requires(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	filename := params.Get("filename")

	var (
		format reader.Format
		err    error
	)
	switch {
	case params.Get("format") != "":
		format, err = reader.ParseFormat(params.Get("format"))
	case filename != "":
		format, err = reader.FormatFromPath(filename)
	default:
		err = errNoFormat
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	ds, err := reader.Read(body, format)
	if err != nil {
		s.metrics.uploads.WithLabelValues(string(format), "error").Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.metrics.uploads.WithLabelValues(string(format), "ok").Inc()

	sess := s.sessions.add(filename, ds)
	s.log.WithFields(logrus.Fields{
		"session": sess.id,
		"format":  format,
		"rows":    ds.Len(),
		"columns": len(ds.Columns()),
	}).Info("dataset uploaded")

	writeJSON(w, http.StatusCreated, uploadResponse{
		Session: sess.id,
		Rows:    ds.Len(),
		Columns: ds.Columns(),
	})
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.get(r.PathValue("session"))
	if !ok {
		writeError(w, http.StatusNotFound, errUnknownSession)
		return
	}
	writeJSON(w, http.StatusOK, datasetResponse{
		Session:  sess.id,
		Source:   sess.source,
		Uploaded: sess.uploaded,
		Summary:  reader.Summarize(sess.dataset),
	})
}

func (s *Server) handleGetRecords(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.get(r.PathValue("session"))
	if !ok {
		writeError(w, http.StatusNotFound, errUnknownSession)
		return
	}
	limitRows, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, output.NewRecords(sess.dataset, limitRows))
}

func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.remove(r.PathValue("session")) {
		writeError(w, http.StatusNotFound, errUnknownSession)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRunQuery(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.get(r.PathValue("session"))
	if !ok {
		writeError(w, http.StatusNotFound, errUnknownSession)
		return
	}

	id, err := query.Parse(r.PathValue("query"))
	if err != nil {
		s.metrics.queries.WithLabelValues("unknown", "unknown_query").Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}

	limitRows, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := query.Run(sess.dataset, id)
	if err != nil {
		var missing *dataset.MissingColumnError
		if errors.As(err, &missing) {
			s.metrics.queries.WithLabelValues(id.String(), "missing_column").Inc()
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:  err.Error(),
				Column: missing.Column.String(),
			})
			return
		}
		s.metrics.queries.WithLabelValues(id.String(), "error").Inc()
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.metrics.queries.WithLabelValues(id.String(), res.Kind.String()).Inc()
	writeJSON(w, http.StatusOK, res.Truncate(limitRows))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var form submission.Form
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&form); err != nil {
		s.metrics.submits.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid submission body: %w", err))
		return
	}

	ack, err := submission.Submit(s.predictor, form)
	if err != nil {
		var fieldErr *submission.FieldError
		if errors.As(err, &fieldErr) {
			s.metrics.submits.WithLabelValues("invalid").Inc()
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.metrics.submits.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.metrics.submits.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, ack)
}

// parseLimit reads the optional ?limit; 0 means no limit
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("limit must be a non-negative integer, got %q", raw)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
