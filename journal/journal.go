// Package journal defines the humidor's record store.
//
// The Store owns the whole collection in memory. It is loaded once when the store is opened and persisted in full
// after every mutation; a mutation which could not be persisted leaves the collection as it was.
package journal

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"humidor/storage"
	"humidor/transform/dimension"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidRating = errors.New("rating must be 0, or from 0.5 to 5 in half points")
	ErrInvalidDate   = errors.New("date must be formatted as YYYY-MM-DD")
	ErrNotSmoked     = errors.New("cigar has not been smoked yet")
	ErrInvalidFields = errors.New("invalid cigar")
)

// Fields the user supplied attributes of a cigar.
type Fields struct {
	Brand        string  `json:"brand"`
	Name         string  `json:"name"`
	Vitola       string  `json:"vitola"`
	Wrapper      string  `json:"wrapper"`
	Origin       string  `json:"origin"`
	Strength     string  `json:"strength"`
	Qty          int     `json:"qty"`
	Price        float64 `json:"price"`
	Notes        string  `json:"notes"`
	PurchaseDate string  `json:"purchase_date"`
	Favorite     bool    `json:"favorite"`
}

// Validate checks the fields which can not be defaulted.
func (f Fields) Validate() error {
	var err error
	if strings.TrimSpace(f.Brand) == "" || strings.TrimSpace(f.Name) == "" {
		err = errors.Join(err, fmt.Errorf("%w: brand and name are required", ErrInvalidFields))
	}
	if f.Qty < 0 {
		err = errors.Join(err, fmt.Errorf("%w: quantity must not be negative", ErrInvalidFields))
	}
	if f.Price < 0 || math.IsNaN(f.Price) || math.IsInf(f.Price, 0) {
		err = errors.Join(err, fmt.Errorf("%w: price must not be negative", ErrInvalidFields))
	}
	if f.PurchaseDate != "" {
		if er := validateDate(f.PurchaseDate); er != nil {
			err = errors.Join(err, er)
		}
	}
	err = errors.Join(err,
		checkVocabulary("vitola", f.Vitola, dimension.ParseVitola, dimension.Vitolas),
		checkVocabulary("wrapper", f.Wrapper, dimension.ParseWrapper, dimension.Wrappers),
		checkVocabulary("origin", f.Origin, dimension.ParseOrigin, dimension.Origins),
		checkVocabulary("strength", f.Strength, dimension.ParseStrength, dimension.Strengths),
	)
	return err
}

// checkVocabulary rejects the values which can not be read as a value of the vocabulary. Empty values are accepted,
// the store sets them to the vocabulary's first value.
func checkVocabulary[T ~string](field, v string, parse func(string) (T, bool), values func() []string) error {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	if _, ok := parse(v); !ok {
		return fmt.Errorf("%w: unknown %s %q, expected one of %s", ErrInvalidFields, field, v,
			strings.Join(values(), ", "))
	}
	return nil
}

type Option func(*Store)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logs = l }
}

// WithClock sets the clock used to default the purchase and smoked dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store the process-wide record store.
// It is safe for concurrent use within a process; concurrent processes sharing the same file may lose updates.
type Store struct {
	mu   sync.Mutex
	db   storage.LoadSaver
	c    storage.Collection
	logs zerolog.Logger
	now  func() time.Time
}

// Open loads the collection from db.
func Open(ctx context.Context, db storage.LoadSaver, opts ...Option) (*Store, error) {
	s := &Store{db: db, logs: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	c, err := db.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load the humidor: %w", err)
	}
	var maxID int
	for _, r := range c.Cigars {
		maxID = max(maxID, r.ID)
	}
	if c.NextID <= maxID {
		c.NextID = maxID + 1
	}

	// older documents numbered the records by their count, so deleting and adding could repeat an identifier
	seen := make(map[int]bool, len(c.Cigars))
	var renumbered bool
	for i := range c.Cigars {
		r := &c.Cigars[i]
		if seen[r.ID] {
			s.logs.Warn().Int("id", r.ID).Int("newID", c.NextID).Str("brand", r.Brand).Str("name", r.Name).
				Msg("duplicated identifier, renumbering the cigar")
			r.ID = c.NextID
			c.NextID++
			renumbered = true
		}
		seen[r.ID] = true
		s.warnOutOfVocabulary(*r)
	}
	if renumbered {
		if err = db.Save(ctx, c); err != nil {
			return nil, fmt.Errorf("could not persist the renumbered humidor: %w", err)
		}
	}
	s.c = c
	s.logs.Debug().Int("cigars", len(c.Cigars)).Int("nextID", c.NextID).Msg("humidor loaded")
	return s, nil
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.c.Cigars)
}

// Records returns a copy of all records in insertion order.
func (s *Store) Records() []storage.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.c.Cigars)
}

// Collection returns a copy of the collection as persisted.
func (s *Store) Collection() storage.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Clone()
}

// Get returns the record identified by id.
func (s *Store) Get(id int) (storage.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.findByID(id)
	if err != nil {
		return storage.Record{}, err
	}
	return s.c.Cigars[i], nil
}

func (s *Store) findByID(id int) (int, error) {
	i := slices.IndexFunc(s.c.Cigars, func(r storage.Record) bool { return r.ID == id })
	if i < 0 {
		return i, fmt.Errorf("id %d: %w", id, storage.ErrNotFound)
	}
	return i, nil
}

// Filter returns the records matching the view and the search query.
func (s *Store) Filter(view View, query string) iter.Seq[storage.Record] {
	return Filter(s.Records(), view, query)
}

// Add appends a new, not yet smoked record and returns its identifier.
func (s *Store) Add(ctx context.Context, f Fields) (int, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.c.Clone()
	r := storage.Record{ID: next.NextID}
	s.setFields(&r, f)
	r.Favorite = f.Favorite
	next.Cigars = append(next.Cigars, r)
	next.NextID++

	if err := s.commit(ctx, next); err != nil {
		return 0, err
	}
	s.logs.Info().Int("id", r.ID).Str("brand", r.Brand).Str("name", r.Name).Msg("cigar added")
	return r.ID, nil
}

// Update replaces the descriptive attributes of the record, leaving the smoking history and the favorite flag as
// they are.
func (s *Store) Update(ctx context.Context, id int, f Fields) error {
	if err := f.Validate(); err != nil {
		return err
	}
	return s.mutate(ctx, id, func(r *storage.Record) error {
		s.setFields(r, f)
		return nil
	})
}

// MarkSmoked records the smoke. An empty date stands for today.
func (s *Store) MarkSmoked(ctx context.Context, id int, rating float64, comments, date string) error {
	if date == "" {
		date = s.today()
	}
	if err := errors.Join(validateRating(rating), validateDate(date)); err != nil {
		return err
	}
	return s.mutate(ctx, id, func(r *storage.Record) error {
		r.Smoked = true
		r.Rating = rating
		r.Comments = comments
		r.SmokedDate = date
		return nil
	})
}

// Rate sets the rating of a smoked record. Empty comments leave the existing ones untouched.
func (s *Store) Rate(ctx context.Context, id int, rating float64, comments string) error {
	if err := validateRating(rating); err != nil {
		return err
	}
	return s.mutate(ctx, id, func(r *storage.Record) error {
		if !r.Smoked {
			return fmt.Errorf("id %d: %w", id, ErrNotSmoked)
		}
		r.Rating = rating
		if comments != "" {
			r.Comments = comments
		}
		return nil
	})
}

// UnmarkSmoked moves the record back to the humidor, clearing the rating, the smoked date and the comments.
func (s *Store) UnmarkSmoked(ctx context.Context, id int) error {
	return s.mutate(ctx, id, func(r *storage.Record) error {
		r.Smoked = false
		r.Rating = 0
		r.SmokedDate = ""
		r.Comments = ""
		return nil
	})
}

// ToggleFavorite flips the favorite flag and returns its new value.
func (s *Store) ToggleFavorite(ctx context.Context, id int) (bool, error) {
	var o bool
	err := s.mutate(ctx, id, func(r *storage.Record) error {
		r.Favorite = !r.Favorite
		o = r.Favorite
		return nil
	})
	return o, err
}

// Delete removes the record. The identifier is never assigned again.
func (s *Store) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.findByID(id)
	if err != nil {
		return err
	}
	next := s.c.Clone()
	next.Cigars = slices.Delete(next.Cigars, i, i+1)
	if err = s.commit(ctx, next); err == nil {
		s.logs.Info().Int("id", id).Msg("cigar deleted")
	}
	return err
}

func (s *Store) mutate(ctx context.Context, id int, fn func(r *storage.Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.findByID(id)
	if err != nil {
		return err
	}
	next := s.c.Clone()
	if err = fn(&next.Cigars[i]); err != nil {
		return err
	}
	return s.commit(ctx, next)
}

func (s *Store) commit(ctx context.Context, next storage.Collection) error {
	if err := s.db.Save(ctx, next); err != nil {
		return fmt.Errorf("could not persist the humidor: %w", err)
	}
	s.c = next
	return nil
}

func (s *Store) setFields(r *storage.Record, f Fields) {
	r.Brand = strings.TrimSpace(f.Brand)
	r.Name = strings.TrimSpace(f.Name)
	r.Vitola, _ = dimension.ParseVitola(f.Vitola)
	r.Wrapper, _ = dimension.ParseWrapper(f.Wrapper)
	r.Origin, _ = dimension.ParseOrigin(f.Origin)
	r.Strength, _ = dimension.ParseStrength(f.Strength)
	r.Qty = f.Qty
	r.Price = f.Price
	r.Notes = f.Notes
	r.PurchaseDate = f.PurchaseDate
	if r.PurchaseDate == "" {
		r.PurchaseDate = s.today()
	}
}

func (s *Store) today() string {
	return s.now().Format(storage.DateLayout)
}

// warnOutOfVocabulary logs the attributes read from the file which are not in their vocabulary. They are kept as they
// are.
func (s *Store) warnOutOfVocabulary(r storage.Record) {
	for _, v := range []struct {
		field, value string
		valid        bool
	}{
		{field: "vitola", value: string(r.Vitola), valid: r.Vitola.Valid()},
		{field: "wrapper", value: string(r.Wrapper), valid: r.Wrapper.Valid()},
		{field: "origin", value: string(r.Origin), valid: r.Origin.Valid()},
		{field: "strength", value: string(r.Strength), valid: r.Strength.Valid()},
	} {
		if v.value != "" && !v.valid {
			s.logs.Warn().Int("id", r.ID).Str("field", v.field).Str("value", v.value).
				Msg("value is not in the vocabulary")
		}
	}
}

func validateRating(v float64) error {
	if v == 0 {
		return nil
	}
	if v < 0.5 || v > 5 || math.Mod(v*2, 1) != 0 {
		return fmt.Errorf("%w, got %v", ErrInvalidRating, v)
	}
	return nil
}

func validateDate(v string) error {
	if _, err := time.Parse(storage.DateLayout, v); err != nil {
		return fmt.Errorf("%w, got %q", ErrInvalidDate, v)
	}
	return nil
}
