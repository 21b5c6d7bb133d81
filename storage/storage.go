// Package storage defines the storage port to persist the humidor.
package storage

import (
	"context"
	"errors"

	"humidor/transform/dimension"
)

// ErrNotFound is returned when no record carries the requested identifier.
var ErrNotFound = errors.New("cigar not found")

// DateLayout the layout of the purchase and smoked dates.
const DateLayout = "2006-01-02"

// Record defines a cigar kept in, or smoked from the humidor.
type Record struct {
	// ID identifier, unique for the collection's lifetime.
	ID int `json:"id"`

	// Identification
	Brand string `json:"brand"`
	// Name the cigar's name or line, e.g., 1964 Anniversary.
	Name string `json:"name"`

	// Blend and shape
	Vitola   dimension.Vitola   `json:"vitola"`
	Wrapper  dimension.Wrapper  `json:"wrapper"`
	Origin   dimension.Origin   `json:"origin"`
	Strength dimension.Strength `json:"strength"`

	// Purchase
	// Qty number of sticks left in the humidor.
	Qty int `json:"qty"`
	// Price per stick.
	Price float64 `json:"price"`
	// Notes freetext, e.g., flavours, aroma, construction.
	Notes string `json:"notes"`
	// PurchaseDate formatted as DateLayout.
	PurchaseDate string `json:"purchase_date"`

	// Experience
	Smoked bool `json:"smoked"`
	// Rating 0 for unrated, otherwise from 0.5 to 5 in half points.
	Rating float64 `json:"rating"`
	// SmokedDate formatted as DateLayout, empty unless Smoked.
	SmokedDate string `json:"smoked_date"`
	// Comments personal comments on the smoke.
	Comments string `json:"comments"`
	Favorite bool   `json:"favorite"`
}

// Rated tells if the smoke was given a rating.
func (r Record) Rated() bool {
	return r.Smoked && r.Rating != 0
}

// Collection the persisted document.
type Collection struct {
	// NextID the identifier to assign to the next added record.
	NextID int      `json:"next_id"`
	Cigars []Record `json:"cigars"`
}

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	o := Collection{NextID: c.NextID, Cigars: make([]Record, len(c.Cigars))}
	copy(o.Cigars, c.Cigars)
	return o
}

type Loader interface {
	Load(ctx context.Context) (Collection, error)
}

type Saver interface {
	Save(ctx context.Context, c Collection) error
}

// LoadSaver defines the interface to read and write the whole collection in one go.
type LoadSaver interface {
	Loader
	Saver
}

// Writer defines the interface to export records to a secondary database.
type Writer interface {
	Write(ctx context.Context, r []Record) (ids []string, err error)
}
