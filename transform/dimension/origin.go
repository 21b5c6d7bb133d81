package dimension

// Origin the country the cigar is rolled in.
type Origin string

const (
	Nicaragua         Origin = "Nicaragua"
	Cuba              Origin = "Cuba"
	DominicanRepublic Origin = "Dominican Republic"
	Honduras          Origin = "Honduras"
	Ecuador           Origin = "Ecuador"
	Mexico            Origin = "Mexico"
	Cameroon          Origin = "Cameroon"
	USA               Origin = "USA"
	Panama            Origin = "Panama"
	Brazil            Origin = "Brazil"
)

var origins = vocabulary[Origin]{
	values: []Origin{Nicaragua, Cuba, DominicanRepublic, Honduras, Ecuador, Mexico, Cameroon, USA, Panama, Brazil},
	aliases: map[string]Origin{
		"dr":    DominicanRepublic,
		"cuban": Cuba,
		"us":    USA,
		"nica":  Nicaragua,
	},
}

// Origins returns the vocabulary in display order.
func Origins() []string { return origins.strings() }

// ParseOrigin reads s as an Origin, translating German and abbreviated country names through Country first.
// The second value is false when s is not known, in which case the fallback is returned.
func ParseOrigin(s string) (Origin, bool) {
	if o, ok := origins.parse(s); ok {
		return o, ok
	}
	return origins.parse(Country(s).Convert())
}

func (v Origin) Valid() bool { return origins.contains(v) }
