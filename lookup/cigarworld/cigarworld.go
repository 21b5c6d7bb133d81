// Package cigarworld looks the cigars up in the catalogue of cigarworld.de.
package cigarworld

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"humidor/htmlfilter"
	"humidor/lookup"
	"humidor/transform/dimension"

	"golang.org/x/net/html"
)

const DefaultBaseURL = "https://www.cigarworld.de"

// Client defines the client to cigarworld.de to fetch data from.
type Client struct {
	HTTPClient lookup.HTTPClient
	// BaseURL the shop's address, DefaultBaseURL if empty.
	BaseURL string
}

// Lookup searches the shop for the cigar and reads the attributes from the first product found.
func (c Client) Lookup(ctx context.Context, brand, name string) (lookup.Attributes, error) {
	link, err := c.search(ctx, brand+" "+name)
	if err != nil {
		return lookup.Attributes{}, err
	}
	d, err := c.Read(ctx, link)
	if err != nil {
		return lookup.Attributes{}, err
	}
	return d.attributes(), nil
}

// Read reads the product page.
func (c Client) Read(ctx context.Context, link string) (Details, error) {
	var d Details
	err := c.get(ctx, link, func(doc htmlfilter.Node) error {
		return readDetailsPage(doc, &d)
	})
	if err == nil {
		d.URL = link
	}
	return d, err
}

func (c Client) search(ctx context.Context, query string) (string, error) {
	base, err := url.Parse(c.baseURL())
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	u := base.JoinPath("en", "search")
	u.RawQuery = url.Values{"q": []string{query}}.Encode()

	var link string
	err = c.get(ctx, u.String(), func(doc htmlfilter.Node) error {
		n, ok := doc.First("a.search-result-link")
		if !ok {
			return fmt.Errorf("%w: %s", lookup.ErrNotFound, query)
		}
		href, _ := n.Attr("href")
		if href == "" {
			return errors.New("the search result carries no product link")
		}
		ref, er := url.Parse(href)
		if er != nil {
			return fmt.Errorf("invalid product link %q: %w", href, er)
		}
		link = base.ResolveReference(ref).String()
		return nil
	})
	return link, err
}

func (c Client) get(ctx context.Context, link string, fn func(doc htmlfilter.Node) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not fetch %s: %w", link, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("could not fetch %s: status %d", link, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return fmt.Errorf("could not parse %s: %w", link, err)
	}
	return fn(htmlfilter.Node{Node: doc})
}

func (c Client) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}

// Details the product's attributes as listed by the shop.
type Details struct {
	Name            string
	URL             string
	Brand           string
	Format          string
	Maker           string
	Origin          string
	Strength        string
	WrapperProperty string
	WrapperOrigin   []string
	BinderOrigin    []string
	FillerOrigin    []string
	Aromas          []string
}

func (d Details) attributes() lookup.Attributes {
	return lookup.Attributes{
		Vitola:      d.Format,
		Wrapper:     d.WrapperProperty,
		Origin:      d.Origin,
		Strength:    d.Strength,
		Description: d.description(),
	}
}

func (d Details) description() string {
	var o []string
	if d.Name != "" {
		s := d.Name
		if d.Maker != "" {
			s += " by " + d.Maker
		}
		o = append(o, s+".")
	}
	var blend []string
	for _, el := range []struct {
		leaf      string
		countries []string
	}{
		{leaf: "wrapper", countries: d.WrapperOrigin},
		{leaf: "binder", countries: d.BinderOrigin},
		{leaf: "filler", countries: d.FillerOrigin},
	} {
		if len(el.countries) > 0 {
			blend = append(blend, el.leaf+" from "+strings.Join(el.countries, ", "))
		}
	}
	if len(blend) > 0 {
		o = append(o, "Blend: "+strings.Join(blend, "; ")+".")
	}
	if len(d.Aromas) > 0 {
		o = append(o, "Aromas: "+strings.Join(d.Aromas, ", ")+".")
	}
	return strings.Join(o, " ")
}

func readDetailsPage(doc htmlfilter.Node, o *Details) error {
	if n, ok := doc.First("h1.h-alt"); ok {
		o.Name = n.Text()
	}
	table, ok := doc.First("div#tab-pane-data")
	if !ok {
		return errors.New("no product data found")
	}
	for group := range table.Find("div.VariantInfo-item") {
		for row := range group.Find("div.ws-g.ws-c") {
			var k, v string
			if n, ok := row.First("div.VariantInfo-itemName"); ok {
				k = n.Text()
			}
			if n, ok := row.First("div.VariantInfo-itemValue"); ok {
				v = n.Text()
			}
			if k != "" && v != "" {
				setAttribute(o, k, v)
			}
		}
	}
	return nil
}

func setAttribute(o *Details, k string, v string) {
	switch k {
	case "Brand", "Marke":
		o.Brand = v

	case "Item", "Produkt", "Format":
		o.Format = v

	case "Tabacalera":
		o.Maker = v

	case "Origin", "Herkunft", "Country of origin", "Herkunftsland":
		o.Origin = dimension.Country(v).Convert()

	case "Strength", "Stärke":
		o.Strength = v

	case "Topsheet / -leave property", "Deckblatt Eigenschaft":
		o.WrapperProperty = v

	case "Wrapper origin", "Deckblatt Land":
		o.WrapperOrigin = countries(v)

	case "Binder origin", "Umblatt Land":
		o.BinderOrigin = countries(v)

	case "Filler origin", "Einlage Land":
		o.FillerOrigin = countries(v)

	case "Aroma", "Flavours":
		for _, el := range strings.Split(v, ",") {
			if el = strings.TrimSpace(el); el != "" {
				o.Aromas = append(o.Aromas, el)
			}
		}
	}
}

func countries(v string) []string {
	var o []string
	for _, el := range strings.Split(v, ",") {
		if c := dimension.Country(el).Convert(); c != "" {
			o = append(o, c)
		}
	}
	return o
}
