package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"humidor/storage"
	"humidor/transform/dimension"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test(t *testing.T) {
	dir := t.TempDir()
	c, err := NewClient(filepath.Join(dir, "nested", "data.json"))
	require.NoError(t, err)
	ctx := context.TODO()

	t.Run("read empty storage", func(t *testing.T) {
		got, err := c.Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 0, got.NextID)
		assert.Empty(t, got.Cigars)
		assert.NotNil(t, got.Cigars)
	})

	want := storage.Collection{
		NextID: 3,
		Cigars: []storage.Record{
			{
				ID:           1,
				Brand:        "Padron",
				Name:         "1964 Anniversary",
				Vitola:       dimension.Toro,
				Wrapper:      dimension.Maduro,
				Origin:       dimension.Nicaragua,
				Strength:     dimension.MediumFull,
				Qty:          3,
				Price:        18.5,
				PurchaseDate: "2024-04-20",
			},
			{
				ID:         2,
				Brand:      "Arturo Fuente",
				Name:       "Hemingway",
				Smoked:     true,
				Rating:     4.5,
				SmokedDate: "2024-05-01",
				Comments:   "great burn",
				Favorite:   true,
			},
		},
	}

	t.Run("write and read the collection", func(t *testing.T) {
		require.NoError(t, c.Save(ctx, want))
		got, err := c.Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("save of a loaded collection is a fixed point", func(t *testing.T) {
		before, err := os.ReadFile(c.Path)
		require.NoError(t, err)

		got, err := c.Load(ctx)
		require.NoError(t, err)
		require.NoError(t, c.Save(ctx, got))

		after, err := os.ReadFile(c.Path)
		require.NoError(t, err)
		assert.Equal(t, string(before), string(after))
	})

	t.Run("no temporary files are left behind", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Dir(c.Path))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestClient_LoadLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "cigars": [
    {
      "id": 1, "brand": "Padron", "name": "1964 Anniversary", "vitola": "Robusto", "wrapper": "Maduro",
      "origin": "Nicaragua", "strength": "Full", "qty": 2, "price": 15.0, "notes": "cocoa",
      "purchase_date": "2024-01-10", "smoked": true, "rating": 4, "smoked_date": "2024-02-01"
    }
  ]
}`), 0600))

	c, err := NewClient(path)
	require.NoError(t, err)

	got, err := c.Load(context.TODO())
	require.NoError(t, err)
	require.Len(t, got.Cigars, 1)
	assert.Equal(t, 0, got.NextID)
	assert.Equal(t, 4.0, got.Cigars[0].Rating)
	assert.Equal(t, "", got.Cigars[0].Comments)
	assert.False(t, got.Cigars[0].Favorite)
}

func TestClient_LoadCorrupt(t *testing.T) {
	tests := map[string]string{
		"truncated":   `{"cigars": [{"id": 1,`,
		"wrong shape": `{"cigars": {"id": 1}}`,
		"not json":    `cigars`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0600))
			c, err := NewClient(path)
			require.NoError(t, err)

			_, err = c.Load(context.TODO())
			assert.ErrorContains(t, err, "corrupt")
		})
	}
}

func TestNewClient(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
}
