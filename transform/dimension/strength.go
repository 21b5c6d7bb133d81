package dimension

// Strength the subjective body of the smoke.
type Strength string

const (
	Mild       Strength = "Mild"
	MildMedium Strength = "Mild-Medium"
	Medium     Strength = "Medium"
	MediumFull Strength = "Medium-Full"
	Full       Strength = "Full"
)

var strengths = vocabulary[Strength]{
	values: []Strength{Mild, MildMedium, Medium, MediumFull, Full},
	aliases: map[string]Strength{
		"light":             Mild,
		"leicht":            Mild,
		"mild to medium":    MildMedium,
		"light medium":      MildMedium,
		"leicht mittel":     MildMedium,
		"mittel":            Medium,
		"medium to full":    MediumFull,
		"mittel kräftig":    MediumFull,
		"full bodied":       Full,
		"strong":            Full,
		"kräftig":           Full,
		"stark":             Full,
		"light to medium":   MildMedium,
		"medium aromatisch": Medium,
	},
}

// Strengths returns the vocabulary from the mildest to the fullest.
func Strengths() []string { return strengths.strings() }

// ParseStrength reads s as a Strength. The second value is false when s is not known, in which case the fallback is
// returned.
func ParseStrength(s string) (Strength, bool) { return strengths.parse(s) }

func (v Strength) Valid() bool { return strengths.contains(v) }
