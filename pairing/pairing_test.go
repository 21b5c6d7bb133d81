package pairing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAll(t *testing.T) {
	got := All()
	assert.Len(t, got, 6)
	assert.Equal(t, "Full-bodied Nicaraguan", got[0].Cigar)
	assert.Equal(t, "Añejo Tequila or Mezcal", got[5].Spirit)

	got[0].Cigar = "changed"
	assert.Equal(t, "Full-bodied Nicaraguan", All()[0].Cigar)
}

func TestMatch(t *testing.T) {
	tests := map[string]struct {
		words []string
		want  []string
	}{
		"wrapper":   {words: []string{"Maduro"}, want: []string{"Maduro Wrapper"}},
		"origin":    {words: []string{"Natural", "Nicaragua"}, want: []string{"Full-bodied Nicaraguan"}},
		"two hits":  {words: []string{"cameroon", "corona"}, want: []string{"Cuban-style Corona", "Cameroon Wrapper"}},
		"no words":  {words: nil, want: nil},
		"no match":  {words: []string{"Panama"}, want: nil},
		"empty arg": {words: []string{""}, want: nil},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var got []string
			for _, p := range Match(tt.words...) {
				got = append(got, p.Cigar)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
