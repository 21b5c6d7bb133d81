package cigarworld

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"io"
	"net/http"
	"testing"

	"humidor/lookup"
	"humidor/transform/dimension"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/search-padron-1964.html
var searchPadron1964 []byte

//go:embed testdata/details-padron-1964-anniversary-maduro-torpedo.html
var detailsPadron1964MaduroTorpedo []byte

const (
	searchURL  = "https://www.cigarworld.de/en/search?q=Padron+1964+Anniversary"
	detailsURL = "https://www.cigarworld.de/en/zigarren/nicaragua/padron-1964-anniversary-maduro-torpedo-90005033_2960"
)

var wantPadron1964MaduroTorpedo = Details{
	Name:            "Padron 1964 Anniversary Maduro Torpedo",
	URL:             detailsURL,
	Brand:           "Padron",
	Format:          "Torpedos",
	Maker:           "Tabacalera Padron",
	Origin:          "Nicaragua",
	Strength:        "Medium to Full",
	WrapperProperty: "Maduro",
	WrapperOrigin:   []string{"Nicaragua"},
	BinderOrigin:    []string{"Nicaragua"},
	FillerOrigin:    []string{"Nicaragua", "Cuba"},
	Aromas:          []string{"Cocoa", "Coffee", "Sweet"},
}

func body(v []byte) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(v))
}

func TestClient_Read(t *testing.T) {
	c := Client{HTTPClient: lookup.MockHTTP{Body: body(detailsPadron1964MaduroTorpedo)}}
	got, err := c.Read(context.TODO(), detailsURL)
	assert.NoError(t, err)
	assert.Equal(t, wantPadron1964MaduroTorpedo, got)
}

func TestClient_Lookup(t *testing.T) {
	tests := map[string]struct {
		httpClient lookup.HTTPClient
		want       lookup.Attributes
		wantErr    assert.ErrorAssertionFunc
	}{
		"found": {
			httpClient: lookup.MockHTTP{BodyRoute: map[string]io.ReadCloser{
				searchURL:  body(searchPadron1964),
				detailsURL: body(detailsPadron1964MaduroTorpedo),
			}},
			want: lookup.Attributes{
				Vitola:   "Torpedos",
				Wrapper:  "Maduro",
				Origin:   "Nicaragua",
				Strength: "Medium to Full",
				Description: "Padron 1964 Anniversary Maduro Torpedo by Tabacalera Padron. " +
					"Blend: wrapper from Nicaragua; binder from Nicaragua; filler from Nicaragua, Cuba. " +
					"Aromas: Cocoa, Coffee, Sweet.",
			},
			wantErr: assert.NoError,
		},
		"nothing found": {
			httpClient: lookup.MockHTTP{BodyRoute: map[string]io.ReadCloser{
				searchURL: body([]byte(`<html><body><div class="search-results"></div></body></html>`)),
			}},
			wantErr: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorIs(t, err, lookup.ErrNotFound)
			},
		},
		"no product data": {
			httpClient: lookup.MockHTTP{BodyRoute: map[string]io.ReadCloser{
				searchURL:  body(searchPadron1964),
				detailsURL: body([]byte(`<html><body><h1 class="h-alt">Padron</h1></body></html>`)),
			}},
			wantErr: assert.Error,
		},
		"shop is down": {
			httpClient: lookup.MockHTTP{StatusCode: http.StatusServiceUnavailable},
			wantErr: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorContains(t, err, "status 503")
			},
		},
		"network error": {
			httpClient: lookup.MockHTTP{Err: errors.New("connection refused")},
			wantErr: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorContains(t, err, "connection refused")
			},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := Client{HTTPClient: tt.httpClient}
			got, err := c.Lookup(context.TODO(), "Padron", "1964 Anniversary")
			tt.wantErr(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_LookupNormalized(t *testing.T) {
	c := Client{HTTPClient: lookup.MockHTTP{BodyRoute: map[string]io.ReadCloser{
		searchURL:  body(searchPadron1964),
		detailsURL: body(detailsPadron1964MaduroTorpedo),
	}}}
	got, err := lookup.Lookup(context.TODO(), c, "Padron", "1964 Anniversary")
	require.NoError(t, err)
	assert.Equal(t, dimension.Torpedo, got.Vitola)
	assert.Equal(t, dimension.Maduro, got.Wrapper)
	assert.Equal(t, dimension.Nicaragua, got.Origin)
	assert.Equal(t, dimension.MediumFull, got.Strength)
}

func TestDetails_description(t *testing.T) {
	assert.Equal(t, "", Details{}.description())
	assert.Equal(t, "Aromas: Cedar.", Details{Aromas: []string{"Cedar"}}.description())
	assert.Equal(t, "Oliva Serie V.", Details{Name: "Oliva Serie V"}.description())
}
