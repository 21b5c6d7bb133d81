package journal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"humidor/storage"
	"humidor/storage/fs"
	"humidor/transform/dimension"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 6, 15, 20, 0, 0, 0, time.UTC)

func clock() time.Time { return today }

func newStore(t *testing.T) (*Store, *fs.Client) {
	t.Helper()
	db, err := fs.NewClient(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	s, err := Open(context.TODO(), db, WithClock(clock))
	require.NoError(t, err)
	return s, db
}

type failingDB struct {
	storage.Collection
	err error
}

func (f *failingDB) Load(context.Context) (storage.Collection, error) { return f.Collection, nil }

func (f *failingDB) Save(context.Context, storage.Collection) error { return f.err }

func TestStore_scenario(t *testing.T) {
	s, db := newStore(t)
	ctx := context.TODO()

	id, err := s.Add(ctx, Fields{Brand: "Padron", Name: "1964 Anniversary", Qty: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.False(t, got.Smoked)

	t.Run("mark smoked", func(t *testing.T) {
		require.NoError(t, s.MarkSmoked(ctx, id, 4.5, "great burn", "2024-05-01"))
		got, err := s.Get(id)
		require.NoError(t, err)
		assert.True(t, got.Smoked)
		assert.Equal(t, 4.5, got.Rating)
		assert.Equal(t, "great burn", got.Comments)
		assert.Equal(t, "2024-05-01", got.SmokedDate)
	})

	t.Run("unmark smoked", func(t *testing.T) {
		require.NoError(t, s.UnmarkSmoked(ctx, id))
		got, err := s.Get(id)
		require.NoError(t, err)
		assert.False(t, got.Smoked)
		assert.Equal(t, 0.0, got.Rating)
		assert.Equal(t, "", got.SmokedDate)
		assert.Equal(t, "", got.Comments)
	})

	t.Run("every mutation is persisted", func(t *testing.T) {
		c, err := db.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, s.Collection(), c)
	})
}

func TestStore_Add(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.TODO()

	f := Fields{
		Brand:        " Padron ",
		Name:         "1964 Anniversary",
		Vitola:       "toro",
		Wrapper:      "Maduro",
		Origin:       "Nicaragua",
		Strength:     "medium-full",
		Qty:          3,
		Price:        18.5,
		Notes:        "cocoa, espresso",
		PurchaseDate: "2024-04-20",
	}
	id, err := s.Add(ctx, f)
	require.NoError(t, err)

	got, err := s.Get(id)
	require.NoError(t, err)
	want := storage.Record{
		ID:           id,
		Brand:        "Padron",
		Name:         "1964 Anniversary",
		Vitola:       dimension.Toro,
		Wrapper:      dimension.Maduro,
		Origin:       dimension.Nicaragua,
		Strength:     dimension.MediumFull,
		Qty:          3,
		Price:        18.5,
		Notes:        "cocoa, espresso",
		PurchaseDate: "2024-04-20",
	}
	assert.Equal(t, want, got)

	t.Run("defaults", func(t *testing.T) {
		id, err := s.Add(ctx, Fields{Brand: "Oliva", Name: "Serie V", Favorite: true})
		require.NoError(t, err)
		got, err := s.Get(id)
		require.NoError(t, err)
		assert.Equal(t, dimension.Robusto, got.Vitola)
		assert.Equal(t, dimension.ColoradoClaro, got.Wrapper)
		assert.Equal(t, dimension.Nicaragua, got.Origin)
		assert.Equal(t, dimension.Mild, got.Strength)
		assert.Equal(t, "2024-06-15", got.PurchaseDate)
		assert.True(t, got.Favorite)
		assert.False(t, got.Smoked)
	})

	t.Run("invalid", func(t *testing.T) {
		tests := map[string]Fields{
			"no brand":       {Name: "Serie V"},
			"blank name":     {Brand: "Oliva", Name: "  "},
			"negative qty":   {Brand: "Oliva", Name: "Serie V", Qty: -1},
			"negative price": {Brand: "Oliva", Name: "Serie V", Price: -2},
			"bad date":       {Brand: "Oliva", Name: "Serie V", PurchaseDate: "15/06/2024"},
			"unknown vitola": {Brand: "Oliva", Name: "Serie V", Vitola: "Culebra"},
			"unknown origin": {Brand: "Oliva", Name: "Serie V", Origin: "Atlantis"},
		}
		for name, f := range tests {
			t.Run(name, func(t *testing.T) {
				before := s.Len()
				_, err := s.Add(ctx, f)
				assert.Error(t, err)
				assert.Equal(t, before, s.Len())
			})
		}
	})
}

func TestStore_identifiersAreNotReused(t *testing.T) {
	s, db := newStore(t)
	ctx := context.TODO()

	first, err := s.Add(ctx, Fields{Brand: "A", Name: "1"})
	require.NoError(t, err)
	second, err := s.Add(ctx, Fields{Brand: "B", Name: "2"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, second))

	third, err := s.Add(ctx, Fields{Brand: "C", Name: "3"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, []int{first, second, third})

	t.Run("the counter survives a restart", func(t *testing.T) {
		reopened, err := Open(ctx, db)
		require.NoError(t, err)
		id, err := reopened.Add(ctx, Fields{Brand: "D", Name: "4"})
		require.NoError(t, err)
		assert.Equal(t, 4, id)
	})
}

func TestOpen_legacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cigars": [{"id": 1}, {"id": 7}, {"id": 3}]}`), 0600))
	db, err := fs.NewClient(path)
	require.NoError(t, err)

	s, err := Open(context.TODO(), db)
	require.NoError(t, err)
	id, err := s.Add(context.TODO(), Fields{Brand: "Padron", Name: "1926"})
	require.NoError(t, err)
	assert.Equal(t, 8, id)
}

func TestOpen_duplicatedIdentifiers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"cigars": [{"id": 2, "brand": "A"}, {"id": 2, "brand": "B"}, {"id": 1, "brand": "C"}]}`), 0600))
	db, err := fs.NewClient(path)
	require.NoError(t, err)

	logs := bytes.NewBuffer(nil)
	s, err := Open(context.TODO(), db, WithLogger(zerolog.New(logs)))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "duplicated identifier")

	var got []string
	for _, r := range s.Records() {
		got = append(got, fmt.Sprintf("%d:%s", r.ID, r.Brand))
	}
	assert.Equal(t, []string{"2:A", "3:B", "1:C"}, got)

	ctx := context.TODO()
	require.NoError(t, s.MarkSmoked(ctx, 3, 4, "", "2024-05-01"))
	a, err := s.Get(2)
	require.NoError(t, err)
	assert.False(t, a.Smoked)
	b, err := s.Get(3)
	require.NoError(t, err)
	assert.True(t, b.Smoked)

	t.Run("renumbering is persisted", func(t *testing.T) {
		c, err := db.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, c.NextID)
		assert.Equal(t, 3, c.Cigars[1].ID)

		id, err := s.Add(ctx, Fields{Brand: "D", Name: "4"})
		require.NoError(t, err)
		assert.Equal(t, 4, id)
	})

	t.Run("renumbering which can not be saved fails", func(t *testing.T) {
		_, err := Open(ctx, &failingDB{
			Collection: storage.Collection{Cigars: []storage.Record{{ID: 1}, {ID: 1}}},
			err:        errors.New("disk full"),
		})
		assert.ErrorContains(t, err, "disk full")
	})
}

func TestOpen_outOfVocabularyValuesAreKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"next_id": 2, "cigars": [{"id": 1, "vitola": "Culebra", "origin": "Nicaragua"}]}`), 0600))
	db, err := fs.NewClient(path)
	require.NoError(t, err)

	logs := bytes.NewBuffer(nil)
	s, err := Open(context.TODO(), db, WithLogger(zerolog.New(logs)))
	require.NoError(t, err)

	r, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, dimension.Vitola("Culebra"), r.Vitola)
	assert.Contains(t, logs.String(), `"field":"vitola","value":"Culebra"`)
	assert.NotContains(t, logs.String(), `"field":"origin"`)
}

func TestOpen_corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cigars": [`), 0600))
	db, err := fs.NewClient(path)
	require.NoError(t, err)

	_, err = Open(context.TODO(), db)
	assert.ErrorContains(t, err, path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"cigars": [`, string(content))
}

func TestStore_notFound(t *testing.T) {
	s, db := newStore(t)
	ctx := context.TODO()
	_, err := s.Add(ctx, Fields{Brand: "Padron", Name: "1964 Anniversary", Qty: 3})
	require.NoError(t, err)
	want := s.Collection()

	tests := map[string]func() error{
		"delete":         func() error { return s.Delete(ctx, 42) },
		"mark smoked":    func() error { return s.MarkSmoked(ctx, 42, 3, "", "") },
		"unmark smoked":  func() error { return s.UnmarkSmoked(ctx, 42) },
		"rate":           func() error { return s.Rate(ctx, 42, 3, "") },
		"update":         func() error { return s.Update(ctx, 42, Fields{Brand: "A", Name: "B"}) },
		"favorite":       func() error { _, err := s.ToggleFavorite(ctx, 42); return err },
		"get":            func() error { _, err := s.Get(42); return err },
		"delete twice":   func() error { return s.Delete(ctx, -1) },
		"zero id delete": func() error { return s.Delete(ctx, 0) },
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, fn(), storage.ErrNotFound)
			assert.Equal(t, want, s.Collection())
			got, err := db.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestStore_MarkSmoked(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.TODO()
	id, err := s.Add(ctx, Fields{Brand: "Padron", Name: "1964 Anniversary"})
	require.NoError(t, err)

	t.Run("invalid rating", func(t *testing.T) {
		for _, v := range []float64{-1, 0.3, 4.25, 5.5} {
			assert.ErrorIs(t, s.MarkSmoked(ctx, id, v, "", "2024-05-01"), ErrInvalidRating)
		}
	})

	t.Run("invalid date", func(t *testing.T) {
		assert.ErrorIs(t, s.MarkSmoked(ctx, id, 4, "", "May 1st"), ErrInvalidDate)
		got, err := s.Get(id)
		require.NoError(t, err)
		assert.False(t, got.Smoked)
	})

	t.Run("today without a rating", func(t *testing.T) {
		require.NoError(t, s.MarkSmoked(ctx, id, 0, "", ""))
		got, err := s.Get(id)
		require.NoError(t, err)
		assert.True(t, got.Smoked)
		assert.Equal(t, "2024-06-15", got.SmokedDate)
		assert.False(t, got.Rated())
	})
}

func TestStore_Rate(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.TODO()
	id, err := s.Add(ctx, Fields{Brand: "Padron", Name: "1964 Anniversary"})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Rate(ctx, id, 4, "nice"), ErrNotSmoked)

	require.NoError(t, s.MarkSmoked(ctx, id, 0, "first third was harsh", "2024-05-01"))
	require.NoError(t, s.Rate(ctx, id, 3.5, ""))
	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 3.5, got.Rating)
	assert.Equal(t, "first third was harsh", got.Comments)

	require.NoError(t, s.Rate(ctx, id, 4, "opened up nicely"))
	got, err = s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Rating)
	assert.Equal(t, "opened up nicely", got.Comments)
}

func TestStore_Update(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.TODO()
	id, err := s.Add(ctx, Fields{Brand: "Padron", Name: "1964 Anniversary", Qty: 3, Favorite: true})
	require.NoError(t, err)
	require.NoError(t, s.MarkSmoked(ctx, id, 5, "superb", "2024-05-01"))

	require.NoError(t, s.Update(ctx, id, Fields{Brand: "Padron", Name: "1926 Serie", Vitola: "Torpedo", Qty: 1}))
	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "1926 Serie", got.Name)
	assert.Equal(t, dimension.Torpedo, got.Vitola)
	assert.Equal(t, 1, got.Qty)
	assert.True(t, got.Smoked)
	assert.Equal(t, 5.0, got.Rating)
	assert.True(t, got.Favorite)
}

func TestStore_ToggleFavorite(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.TODO()
	id, err := s.Add(ctx, Fields{Brand: "Padron", Name: "1964 Anniversary"})
	require.NoError(t, err)

	fav, err := s.ToggleFavorite(ctx, id)
	require.NoError(t, err)
	assert.True(t, fav)

	fav, err = s.ToggleFavorite(ctx, id)
	require.NoError(t, err)
	assert.False(t, fav)
}

func TestStore_saveFailureKeepsCollection(t *testing.T) {
	db := &failingDB{
		Collection: storage.Collection{NextID: 2, Cigars: []storage.Record{{ID: 1, Brand: "Padron", Name: "1926"}}},
		err:        errors.New("disk full"),
	}
	s, err := Open(context.TODO(), db)
	require.NoError(t, err)
	want := s.Collection()

	_, err = s.Add(context.TODO(), Fields{Brand: "Oliva", Name: "Serie V"})
	assert.ErrorContains(t, err, "disk full")
	assert.ErrorContains(t, s.Delete(context.TODO(), 1), "disk full")
	assert.ErrorContains(t, s.MarkSmoked(context.TODO(), 1, 4, "", "2024-05-01"), "disk full")
	assert.Equal(t, want, s.Collection())
}

func TestStore_Filter(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.TODO()
	padron, err := s.Add(ctx, Fields{Brand: "Padron", Name: "1964 Anniversary"})
	require.NoError(t, err)
	oliva, err := s.Add(ctx, Fields{Brand: "Oliva", Name: "Serie V Melanio", Favorite: true})
	require.NoError(t, err)
	fuente, err := s.Add(ctx, Fields{Brand: "Arturo Fuente", Name: "Don Carlos"})
	require.NoError(t, err)
	require.NoError(t, s.MarkSmoked(ctx, oliva, 4, "", "2024-05-01"))
	require.NoError(t, s.MarkSmoked(ctx, fuente, 0, "", "2024-06-01"))

	ids := func(view View, query string) []int {
		var o []int
		for r := range s.Filter(view, query) {
			o = append(o, r.ID)
		}
		return o
	}

	assert.Equal(t, []int{padron, oliva, fuente}, ids(ViewAll, ""))
	assert.Equal(t, []int{padron}, ids(ViewHumidor, ""))
	assert.Equal(t, []int{oliva, fuente}, ids(ViewSmoked, ""))
	assert.Equal(t, []int{oliva}, ids(ViewFavorites, ""))
	assert.Equal(t, []int{padron, fuente}, ids(ViewAll, "DON"))
	assert.Equal(t, []int{fuente}, ids(ViewSmoked, "don"))
	assert.Equal(t, []int{padron}, ids(ViewAll, "padron 1964"))
	assert.Empty(t, ids(ViewFavorites, "padron"))
}

func TestStore_roundTrip(t *testing.T) {
	s, db := newStore(t)
	ctx := context.TODO()
	id, err := s.Add(ctx, Fields{Brand: "Padron", Name: "1964 Anniversary", Price: 18.5})
	require.NoError(t, err)
	require.NoError(t, s.MarkSmoked(ctx, id, 4.5, "great burn", "2024-05-01"))
	_, err = s.ToggleFavorite(ctx, id)
	require.NoError(t, err)

	before, err := os.ReadFile(db.Path)
	require.NoError(t, err)
	c, err := db.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, c))
	after, err := os.ReadFile(db.Path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	reopened, err := Open(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, s.Collection(), reopened.Collection())
	assert.True(t, slices.Equal(s.Records(), reopened.Records()))
}
