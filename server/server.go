// Package server serves the humidor as a web form and a JSON API.
package server

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"humidor/journal"
	"humidor/lookup"
	"humidor/pairing"
	"humidor/storage"
	"humidor/transform/dimension"

	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templatesFS embed.FS

const defaultLookupTimeout = 30 * time.Second

type Option func(*Server)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logs = l }
}

// WithLookup sets the service used to pre-fill the add form, and the time it is given to answer.
func WithLookup(p lookup.Provider, timeout time.Duration) Option {
	return func(s *Server) {
		s.lookup = p
		if timeout > 0 {
			s.lookupTimeout = timeout
		}
	}
}

type Server struct {
	store         *journal.Store
	lookup        lookup.Provider
	lookupTimeout time.Duration
	logs          zerolog.Logger
	pages         map[string]*template.Template
}

func New(store *journal.Store, opts ...Option) (*Server, error) {
	s := &Server{
		store:         store,
		lookup:        lookup.Unavailable{},
		lookupTimeout: defaultLookupTimeout,
		logs:          zerolog.Nop(),
		pages:         map[string]*template.Template{},
	}
	for _, opt := range opts {
		opt(s)
	}

	funcs := template.FuncMap{"options": newSelect}
	for _, name := range []string{pageHumidor, pageJournal, pagePairings} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, err
		}
		s.pages[name] = t
	}
	return s, nil
}

// Handler returns the routes wrapped in the request id, access log and recovery middlewares.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHumidor)
	mux.HandleFunc("POST /cigars", s.handleAdd)
	mux.HandleFunc("POST /cigars/{id}/smoke", s.handleSmoke)
	mux.HandleFunc("POST /cigars/{id}/unsmoke", s.handleUnsmoke)
	mux.HandleFunc("POST /cigars/{id}/rate", s.handleRate)
	mux.HandleFunc("POST /cigars/{id}/favorite", s.handleFavorite)
	mux.HandleFunc("POST /cigars/{id}/delete", s.handleDelete)
	mux.HandleFunc("GET /lookup", s.handleLookup)
	mux.HandleFunc("GET /journal", s.handleJournal)
	mux.HandleFunc("GET /pairings", s.handlePairings)

	mux.HandleFunc("GET /api/cigars", s.apiList)
	mux.HandleFunc("POST /api/cigars", s.apiAdd)
	mux.HandleFunc("GET /api/cigars/{id}", s.apiGet)
	mux.HandleFunc("PUT /api/cigars/{id}", s.apiUpdate)
	mux.HandleFunc("DELETE /api/cigars/{id}", s.apiDelete)
	mux.HandleFunc("GET /api/stats", s.apiStats)
	mux.HandleFunc("GET /healthz", s.health)

	return Chain(RequestID(s.logs), AccessLog, Recovery)(mux)
}

const (
	pageHumidor  = "humidor"
	pageJournal  = "journal"
	pagePairings = "pairings"
)

type selectData struct {
	Name     string
	Options  []string
	Selected string
}

func newSelect(name string, options []string, selected string) selectData {
	return selectData{Name: name, Options: options, Selected: selected}
}

type page struct {
	Title string
	Error string
}

type humidorPage struct {
	page
	Form      journal.Fields
	Views     []journal.View
	View      journal.View
	Query     string
	Records   []storage.Record
	Vitolas   []string
	Wrappers  []string
	Origins   []string
	Strengths []string
}

type journalPage struct {
	page
	Stats   journal.Stats
	Unrated []storage.Record
	Entries []storage.Record
}

type pairingsPage struct {
	page
	Pairings []pairing.Pairing
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("page", name).Msg("could not render the page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) newHumidorPage(r *http.Request, form journal.Fields) humidorPage {
	view, _ := journal.ParseView(r.URL.Query().Get("view"))
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if form.Qty == 0 && form.Brand == "" {
		form.Qty = 1
	}
	return humidorPage{
		page:      page{Title: "Humidor"},
		Form:      form,
		Views:     journal.Views(),
		View:      view,
		Query:     query,
		Records:   slices.Collect(s.store.Filter(view, query)),
		Vitolas:   dimension.Vitolas(),
		Wrappers:  dimension.Wrappers(),
		Origins:   dimension.Origins(),
		Strengths: dimension.Strengths(),
	}
}

func (s *Server) handleHumidor(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pageHumidor, s.newHumidorPage(r, journal.Fields{}))
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	brand, name := r.URL.Query().Get("brand"), r.URL.Query().Get("name")
	form := journal.Fields{Brand: brand, Name: name, Qty: 1}

	ctx, cancel := context.WithTimeout(r.Context(), s.lookupTimeout)
	defer cancel()
	sug, err := lookup.Lookup(ctx, s.lookup, brand, name)

	p := s.newHumidorPage(r, form)
	switch err != nil {
	case true:
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("brand", brand).Str("name", name).Msg("lookup failed")
		p.Error = err.Error()
	case false:
		p.Form.Vitola = string(sug.Vitola)
		p.Form.Wrapper = string(sug.Wrapper)
		p.Form.Origin = string(sug.Origin)
		p.Form.Strength = string(sug.Strength)
		p.Form.Notes = sug.Description
	}
	s.render(w, r, http.StatusOK, pageHumidor, p)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f, err := fieldsFromForm(r.PostForm)
	if err == nil {
		_, err = s.store.Add(r.Context(), f)
	}
	if err != nil {
		status := statusOf(err)
		if status >= http.StatusInternalServerError {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("could not add the cigar")
		}
		p := s.newHumidorPage(r, f)
		p.Error = err.Error()
		s.render(w, r, status, pageHumidor, p)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSmoke(w http.ResponseWriter, r *http.Request) {
	s.formAction(w, r, "/", func(ctx context.Context, id int, form url.Values) error {
		rating, err := parseRating(form.Get("rating"))
		if err != nil {
			return err
		}
		return s.store.MarkSmoked(ctx, id, rating, form.Get("comments"), form.Get("date"))
	})
}

func (s *Server) handleUnsmoke(w http.ResponseWriter, r *http.Request) {
	s.formAction(w, r, "/", func(ctx context.Context, id int, _ url.Values) error {
		return s.store.UnmarkSmoked(ctx, id)
	})
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	s.formAction(w, r, "/journal", func(ctx context.Context, id int, form url.Values) error {
		rating, err := parseRating(form.Get("rating"))
		if err != nil {
			return err
		}
		return s.store.Rate(ctx, id, rating, form.Get("comments"))
	})
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request) {
	s.formAction(w, r, "/", func(ctx context.Context, id int, _ url.Values) error {
		_, err := s.store.ToggleFavorite(ctx, id)
		return err
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.formAction(w, r, "/", func(ctx context.Context, id int, _ url.Values) error {
		return s.store.Delete(ctx, id)
	})
}

// formAction runs fn on the record named in the path and redirects to the page the form was posted from, or to
// fallback. Unknown records are ignored.
func (s *Server) formAction(w http.ResponseWriter, r *http.Request, fallback string,
	fn func(ctx context.Context, id int, form url.Values) error) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err = r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = fn(r.Context(), id, r.PostForm)
	switch status := statusOf(err); {
	case err == nil, status == http.StatusNotFound:
		if err != nil {
			zerolog.Ctx(r.Context()).Debug().Err(err).Msg("no-op")
		}
		http.Redirect(w, r, redirectTarget(r, fallback), http.StatusSeeOther)
	case status >= http.StatusInternalServerError:
		zerolog.Ctx(r.Context()).Error().Err(err).Int("id", id).Msg("could not update the cigar")
		http.Error(w, "internal server error", status)
	default:
		http.Error(w, err.Error(), status)
	}
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	smoked := slices.Collect(s.store.Filter(journal.ViewSmoked, ""))
	var unrated []storage.Record
	for _, rec := range smoked {
		if !rec.Rated() {
			unrated = append(unrated, rec)
		}
	}
	s.render(w, r, http.StatusOK, pageJournal, journalPage{
		page:    page{Title: "Journal"},
		Stats:   journal.Aggregate(slices.Values(smoked)),
		Unrated: unrated,
		Entries: journal.SortForJournal(smoked),
	})
}

func (s *Server) handlePairings(w http.ResponseWriter, r *http.Request) {
	p := pairingsPage{page: page{Title: "Pairings"}, Pairings: pairing.All()}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		p.Pairings = pairing.Match(strings.Fields(q)...)
	}
	s.render(w, r, http.StatusOK, pagePairings, p)
}

func fieldsFromForm(form url.Values) (journal.Fields, error) {
	f := journal.Fields{
		Brand:        form.Get("brand"),
		Name:         form.Get("name"),
		Vitola:       form.Get("vitola"),
		Wrapper:      form.Get("wrapper"),
		Origin:       form.Get("origin"),
		Strength:     form.Get("strength"),
		Notes:        form.Get("notes"),
		PurchaseDate: form.Get("purchase_date"),
		Favorite:     form.Get("favorite") == "true" || form.Get("favorite") == "on",
	}
	var err error
	if v := strings.TrimSpace(form.Get("qty")); v != "" {
		if f.Qty, err = strconv.Atoi(v); err != nil {
			return f, errors.Join(journal.ErrInvalidFields, errors.New("quantity must be a whole number"))
		}
	}
	if v := strings.TrimSpace(form.Get("price")); v != "" {
		if f.Price, err = strconv.ParseFloat(v, 64); err != nil {
			return f, errors.Join(journal.ErrInvalidFields, errors.New("price must be a number"))
		}
	}
	return f, nil
}

func parseRating(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	o, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, journal.ErrInvalidRating
	}
	return o, nil
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, errors.New("malformed cigar id")
	}
	return id, nil
}

// redirectTarget returns the local page named by the form's "return" field, or fallback.
func redirectTarget(r *http.Request, fallback string) string {
	v := r.PostForm.Get("return")
	if !strings.HasPrefix(v, "/") || strings.HasPrefix(v, "//") {
		return fallback
	}
	return v
}

// statusOf maps the error onto the http status code of the answer.
func statusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, journal.ErrInvalidFields),
		errors.Is(err, journal.ErrInvalidRating),
		errors.Is(err, journal.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, journal.ErrNotSmoked):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
