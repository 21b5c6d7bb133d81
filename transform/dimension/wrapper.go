package dimension

// Wrapper the outer leaf's shade.
type Wrapper string

const (
	ColoradoClaro  Wrapper = "Colorado Claro"
	Colorado       Wrapper = "Colorado"
	ColoradoMaduro Wrapper = "Colorado Maduro"
	Maduro         Wrapper = "Maduro"
	Natural        Wrapper = "Natural"
	Claro          Wrapper = "Claro"
	Oscuro         Wrapper = "Oscuro"
	Candela        Wrapper = "Candela"
)

var wrappers = vocabulary[Wrapper]{
	values: []Wrapper{ColoradoClaro, Colorado, ColoradoMaduro, Maduro, Natural, Claro, Oscuro, Candela},
	aliases: map[string]Wrapper{
		"rosado":            Colorado,
		"habano":            Colorado,
		"corojo":            Colorado,
		"broadleaf":         Maduro,
		"connecticut":       Claro,
		"connecticut shade": Claro,
		"shade":             Claro,
		"shade grown":       Claro,
		"sun grown":         Natural,
		"sungrown":          Natural,
		"double claro":      Candela,
		"claro claro":       Candela,
		"double maduro":     Oscuro,
		"maduro maduro":     Oscuro,
	},
}

// Wrappers returns the vocabulary in display order.
func Wrappers() []string { return wrappers.strings() }

// ParseWrapper reads s as a Wrapper. The second value is false when s is not known, in which case the fallback is
// returned.
func ParseWrapper(s string) (Wrapper, bool) { return wrappers.parse(s) }

func (v Wrapper) Valid() bool { return wrappers.contains(v) }
