package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"humidor/journal"
	"humidor/storage"

	"github.com/rs/zerolog"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Cigars    int       `json:"cigars"`
	Timestamp time.Time `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("api request failed")
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeFields(w http.ResponseWriter, r *http.Request) (journal.Fields, error) {
	var f journal.Fields
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return f, errors.Join(journal.ErrInvalidFields, err)
	}
	return f, nil
}

func (s *Server) apiList(w http.ResponseWriter, r *http.Request) {
	view, ok := journal.ParseView(r.URL.Query().Get("view"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown view " + r.URL.Query().Get("view")})
		return
	}
	o := slices.Collect(s.store.Filter(view, r.URL.Query().Get("q")))
	if o == nil {
		o = []storage.Record{}
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) apiGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	rec, err := s.store.Get(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) apiAdd(w http.ResponseWriter, r *http.Request) {
	f, err := decodeFields(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := s.store.Add(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.store.Get(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/cigars/"+strconv.Itoa(id))
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) apiUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	f, err := decodeFields(w, r)
	if err == nil {
		err = s.store.Update(r.Context(), id, f)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.store.Get(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) apiDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err = s.store.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiStats(w http.ResponseWriter, r *http.Request) {
	view, ok := journal.ParseView(r.URL.Query().Get("view"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown view " + r.URL.Query().Get("view")})
		return
	}
	writeJSON(w, http.StatusOK, journal.Aggregate(s.store.Filter(view, r.URL.Query().Get("q"))))
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Cigars: s.store.Len(), Timestamp: time.Now()})
}
