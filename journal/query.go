package journal

import (
	"cmp"
	"iter"
	"slices"
	"strings"

	"humidor/storage"
)

// View a predicate over the records to list.
type View string

const (
	ViewAll       View = "all"
	ViewHumidor   View = "humidor"
	ViewSmoked    View = "smoked"
	ViewFavorites View = "favorites"
)

// Views returns the views in display order.
func Views() []View {
	return []View{ViewAll, ViewHumidor, ViewSmoked, ViewFavorites}
}

// ParseView reads s as a View. An empty s is read as ViewAll.
func ParseView(s string) (View, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ViewAll, true
	case "humidor", "in humidor", "unsmoked":
		return ViewHumidor, true
	case "smoked":
		return ViewSmoked, true
	case "favorites", "favourites", "favorite":
		return ViewFavorites, true
	}
	return ViewAll, false
}

func (v View) Match(r storage.Record) bool {
	switch v {
	case ViewHumidor:
		return !r.Smoked
	case ViewSmoked:
		return r.Smoked
	case ViewFavorites:
		return r.Favorite
	default:
		return true
	}
}

func (v View) String() string {
	switch v {
	case ViewHumidor:
		return "In Humidor"
	case ViewSmoked:
		return "Smoked"
	case ViewFavorites:
		return "Favorites"
	default:
		return "All"
	}
}

// Search tells if query is a case-insensitive substring of the brand followed by the name.
func Search(r storage.Record, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Brand+" "+r.Name), strings.ToLower(query))
}

// Filter returns a lazy sequence over the records matching both the view and the query.
func Filter(records []storage.Record, view View, query string) iter.Seq[storage.Record] {
	return func(yield func(storage.Record) bool) {
		for _, r := range records {
			if view.Match(r) && Search(r, query) && !yield(r) {
				return
			}
		}
	}
}

// Stats the summary of a set of records.
type Stats struct {
	Count     int `json:"count"`
	Rated     int `json:"rated"`
	Unrated   int `json:"unrated"`
	Favorites int `json:"favorites"`
	// AverageRating the mean over the rated records, nil when none is rated.
	AverageRating *float64 `json:"average_rating"`
}

// Aggregate summarises the records. Only the rated records, see storage.Record.Rated, count towards the average,
// and the smoked records without a rating are counted as unrated.
func Aggregate(records iter.Seq[storage.Record]) Stats {
	var (
		o   Stats
		sum float64
	)
	for r := range records {
		o.Count++
		switch {
		case r.Rated():
			o.Rated++
			sum += r.Rating
		case r.Smoked:
			o.Unrated++
		}
		if r.Favorite {
			o.Favorites++
		}
	}
	if o.Rated > 0 {
		avg := sum / float64(o.Rated)
		o.AverageRating = &avg
	}
	return o
}

// SortForJournal returns the records ordered from the latest smoked date to the earliest.
// Records smoked on the same day keep their relative order.
func SortForJournal(records []storage.Record) []storage.Record {
	o := slices.Clone(records)
	slices.SortStableFunc(o, func(a, b storage.Record) int {
		return cmp.Compare(b.SmokedDate, a.SmokedDate)
	})
	return o
}
