// Package pairing holds the static cigar and spirit pairing guide.
package pairing

import "strings"

// Pairing a cigar style matched with a spirit.
type Pairing struct {
	Cigar       string `json:"cigar"`
	Spirit      string `json:"spirit"`
	Description string `json:"description"`
}

var guide = []Pairing{
	{
		Cigar:       "Full-bodied Nicaraguan",
		Spirit:      "Aged Rum or Single Malt Scotch",
		Description: "The earthiness and pepper of a Nicaraguan pairs beautifully with the caramel and oak of aged rum, or the smoky depth of an Islay Scotch.",
	},
	{
		Cigar:       "Mild Connecticut Shade",
		Spirit:      "Champagne or Light Bourbon",
		Description: "A creamy, mild cigar won't overpower a delicate sparkling wine. A wheated bourbon like Maker's Mark is another great match.",
	},
	{
		Cigar:       "Maduro Wrapper",
		Spirit:      "Bourbon or Amaro",
		Description: "The natural sweetness of a maduro wrapper echoes the vanilla and caramel in bourbon. An herbal amaro like Averna also complements the dark, earthy notes.",
	},
	{
		Cigar:       "Cuban-style Corona",
		Spirit:      "Single Malt Scotch (Highland)",
		Description: "A classic pairing: the grassy, floral notes of a Cuban-style cigar balance well against the fruit and honey of a Highland Scotch like Dalmore or Glenmorangie.",
	},
	{
		Cigar:       "Cameroon Wrapper",
		Spirit:      "Cognac or Armagnac",
		Description: "The cedar, spice, and sweetness of a Cameroon wrapper is a natural companion to aged French brandy, a true old-world combination.",
	},
	{
		Cigar:       "Habano Wrapper",
		Spirit:      "Añejo Tequila or Mezcal",
		Description: "The spice and complexity of a Habano wrapper finds a match in the agave-forward depth of an añejo or the smoky character of a mezcal.",
	},
}

// All returns the guide in display order.
func All() []Pairing {
	o := make([]Pairing, len(guide))
	copy(o, guide)
	return o
}

// Match returns the pairings whose cigar style mentions any of the words, e.g., a wrapper or an origin.
func Match(words ...string) []Pairing {
	var o []Pairing
	for _, p := range guide {
		style := strings.ToLower(p.Cigar)
		for _, w := range words {
			if w != "" && strings.Contains(style, strings.ToLower(w)) {
				o = append(o, p)
				break
			}
		}
	}
	return o
}
