// Package lookup defines the port to the services which suggest the attributes of a cigar by its brand and name.
//
// The suggestions are only staged: they pre-fill the add form and are committed to the humidor by the user.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"humidor/transform/dimension"
)

// ErrNotFound is returned when the service knows no cigar by the brand and name.
var ErrNotFound = errors.New("no cigar found")

// Attributes the attributes as suggested by the service, in free text.
type Attributes struct {
	Vitola      string `json:"vitola"`
	Wrapper     string `json:"wrapper"`
	Origin      string `json:"origin"`
	Strength    string `json:"strength"`
	Description string `json:"description"`
}

// Suggestion the attributes mapped onto the vocabularies.
type Suggestion struct {
	Vitola      dimension.Vitola   `json:"vitola"`
	Wrapper     dimension.Wrapper  `json:"wrapper"`
	Origin      dimension.Origin   `json:"origin"`
	Strength    dimension.Strength `json:"strength"`
	Description string             `json:"description"`
}

type Provider interface {
	Lookup(ctx context.Context, brand, name string) (Attributes, error)
}

// Normalize maps the attributes onto the vocabularies. Missing, or unknown values fall back to the first value of
// the vocabulary.
func Normalize(a Attributes) Suggestion {
	o := Suggestion{Description: strings.TrimSpace(a.Description)}
	o.Vitola, _ = dimension.ParseVitola(a.Vitola)
	o.Wrapper, _ = dimension.ParseWrapper(a.Wrapper)
	o.Origin, _ = dimension.ParseOrigin(a.Origin)
	o.Strength, _ = dimension.ParseStrength(a.Strength)
	return o
}

// Lookup asks p for the cigar and normalises the answer.
func Lookup(ctx context.Context, p Provider, brand, name string) (Suggestion, error) {
	brand, name = strings.TrimSpace(brand), strings.TrimSpace(name)
	if brand == "" || name == "" {
		return Suggestion{}, errors.New("brand and name are required for the lookup")
	}
	a, err := p.Lookup(ctx, brand, name)
	if err != nil {
		return Suggestion{}, fmt.Errorf("could not look up %s %s: %w", brand, name, err)
	}
	return Normalize(a), nil
}

// Unavailable is the Provider used when no lookup service is configured.
type Unavailable struct{}

func (Unavailable) Lookup(context.Context, string, string) (Attributes, error) {
	return Attributes{}, errors.New("the lookup service is not configured")
}
