package dimension

import "strings"

// Country free text country name, in English or German.
type Country string

var countries = map[string]string{
	"ecuador":                 "Ecuador",
	"nicaragua":               "Nicaragua",
	"honduras":                "Honduras",
	"dominikanische republik": "Dominican Republic",
	"dom rep":                 "Dominican Republic",
	"dom. rep.":               "Dominican Republic",
	"dominican rep":           "Dominican Republic",
	"kuba":                    "Cuba",
	"habana":                  "Cuba",
	"brasilien":               "Brazil",
	"brasil":                  "Brazil",
	"usa":                     "USA",
	"united states":           "USA",
	"u.s.a.":                  "USA",
	"mexiko":                  "Mexico",
	"kamerun":                 "Cameroon",
	"sumatra":                 "Sumatra",
	"costa rica":              "Costa Rica",
	"indonesien":              "Indonesia",
	"panama":                  "Panama",
	"indonesia":               "Indonesia",
	"peru":                    "Peru",
	"java":                    "Java",
	"philippinen":             "Philippines",
	"san andres":              "San Andres",
	"italien":                 "Italy",
	"deutschland":             "Germany",
	"pennsylvania":            "Pennsylvania",
	"karibik":                 "Caribbean",
	"kanaren":                 "Canary Islands",
	"kanarische inseln":       "Canary Islands",
	"mosambik":                "Mozambique",
	"kolumbien":               "Colombia",
	"unbekannt / geheim":      "",
	"unbekannt":               "",
	"geheim":                  "",
	"ohne":                    "",
}

// Convert returns the English name of the country. Unknown names are returned capitalised.
func (s Country) Convert() string {
	tmp := strings.ToLower(strings.TrimSpace(string(s)))
	tmp = strings.NewReplacer("_", " ", "-", " ").Replace(tmp)
	o, ok := countries[tmp]
	if !ok {
		o = toCapFirstLetters(tmp)
	}
	return o
}
