package dimension

// Vitola the cigar's shape and size class.
type Vitola string

const (
	Robusto      Vitola = "Robusto"
	Toro         Vitola = "Toro"
	Churchill    Vitola = "Churchill"
	Corona       Vitola = "Corona"
	Lonsdale     Vitola = "Lonsdale"
	Belicoso     Vitola = "Belicoso"
	Torpedo      Vitola = "Torpedo"
	Lancero      Vitola = "Lancero"
	PetiteCorona Vitola = "Petite Corona"
	Gordo        Vitola = "Gordo"
)

var vitolas = vocabulary[Vitola]{
	values: []Vitola{Robusto, Toro, Churchill, Corona, Lonsdale, Belicoso, Torpedo, Lancero, PetiteCorona, Gordo},
	aliases: map[string]Vitola{
		"robustos":       Robusto,
		"toros":          Toro,
		"churchills":     Churchill,
		"coronas":        Corona,
		"lonsdales":      Lonsdale,
		"belicosos":      Belicoso,
		"torpedos":       Torpedo,
		"torpedoes":      Torpedo,
		"lanceros":       Lancero,
		"petit corona":   PetiteCorona,
		"petite coronas": PetiteCorona,
		"petit coronas":  PetiteCorona,
		"gordos":         Gordo,
		"double robusto": Gordo,
		"sixty":          Gordo,
	},
}

// Vitolas returns the vocabulary in display order.
func Vitolas() []string { return vitolas.strings() }

// ParseVitola reads s as a Vitola. The second value is false when s is not known, in which case the fallback is returned.
func ParseVitola(s string) (Vitola, bool) { return vitolas.parse(s) }

func (v Vitola) Valid() bool { return vitolas.contains(v) }
