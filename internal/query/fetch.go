// Package query parses a chart's data description and fetch expression into
// the data definition a build works against.
package query

import (
	"encoding/xml"
	"fmt"
	"strings"
)

type fetchXML struct {
	XMLName   xml.Name  `xml:"fetch"`
	Aggregate string    `xml:"aggregate,attr"`
	Entity    entityXML `xml:"entity"`
}

type entityXML struct {
	Name         string          `xml:"name,attr"`
	Attributes   []attributeXML  `xml:"attribute"`
	LinkEntities []linkEntityXML `xml:"link-entity"`
	Orders       []orderXML      `xml:"order"`
}

type linkEntityXML struct {
	Name         string          `xml:"name,attr"`
	From         string          `xml:"from,attr"`
	To           string          `xml:"to,attr"`
	Alias        string          `xml:"alias,attr"`
	LinkType     string          `xml:"link-type,attr"`
	Attributes   []attributeXML  `xml:"attribute"`
	LinkEntities []linkEntityXML `xml:"link-entity"`
}

type attributeXML struct {
	Name         string `xml:"name,attr"`
	Alias        string `xml:"alias,attr"`
	Aggregate    string `xml:"aggregate,attr"`
	GroupBy      string `xml:"groupby,attr"`
	DateGrouping string `xml:"dategrouping,attr"`
}

type orderXML struct {
	Attribute  string `xml:"attribute,attr"`
	Alias      string `xml:"alias,attr"`
	Descending string `xml:"descending,attr"`
}

type dataDefinitionXML struct {
	XMLName    xml.Name      `xml:"datadefinition"`
	Fetches    []fetchXML    `xml:"fetchcollection>fetch"`
	Categories []categoryXML `xml:"categorycollection>category"`
}

type categoryXML struct {
	Alias    string       `xml:"alias,attr"`
	Measures []measureXML `xml:"measurecollection>measure"`
}

type measureXML struct {
	Alias string `xml:"alias,attr"`
}

// Attribute is one attribute requested by the query.
type Attribute struct {
	EntityName   string // logical name of the owning entity
	EntityAlias  string // link-entity alias, empty for the primary entity
	LogicalName  string
	Alias        string
	Aggregate    string
	GroupBy      bool
	DateGrouping string
}

// Column returns the name the attribute's value appears under in result rows.
func (a Attribute) Column() string {
	if a.Alias != "" {
		return a.Alias
	}
	if a.EntityAlias != "" {
		return a.EntityAlias + "." + a.LogicalName
	}
	return a.LogicalName
}

// IsMeasure reports whether the attribute carries an aggregate function.
func (a Attribute) IsMeasure() bool {
	return a.Aggregate != ""
}

// LinkEntity is a joined entity.
type LinkEntity struct {
	Name     string
	From     string
	To       string
	Alias    string
	LinkType string
}

// Order is a sort instruction.
type Order struct {
	Attribute  string
	Alias      string
	Descending bool
}

// Fetch is the parsed query.
type Fetch struct {
	EntityName string
	Aggregate  bool
	Attributes []Attribute
	Links      []LinkEntity
	Orders     []Order
}

// Category groups measures under one category column.
type Category struct {
	Alias    string
	Measures []string
}

func parseFetchElement(fx fetchXML) (*Fetch, error) {
	if fx.Entity.Name == "" {
		return nil, fmt.Errorf("fetch has no entity name")
	}

	f := &Fetch{
		EntityName: fx.Entity.Name,
		Aggregate:  parseBool(fx.Aggregate),
	}
	for _, a := range fx.Entity.Attributes {
		attr, err := newAttribute(a, fx.Entity.Name, "")
		if err != nil {
			return nil, err
		}
		f.Attributes = append(f.Attributes, attr)
	}
	for _, o := range fx.Entity.Orders {
		f.Orders = append(f.Orders, Order{
			Attribute:  o.Attribute,
			Alias:      o.Alias,
			Descending: parseBool(o.Descending),
		})
	}
	if err := f.addLinks(fx.Entity.LinkEntities); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Fetch) addLinks(links []linkEntityXML) error {
	for _, l := range links {
		if l.Name == "" {
			return fmt.Errorf("link-entity has no name")
		}
		alias := l.Alias
		if alias == "" {
			alias = l.Name
		}
		f.Links = append(f.Links, LinkEntity{
			Name:     l.Name,
			From:     l.From,
			To:       l.To,
			Alias:    alias,
			LinkType: l.LinkType,
		})
		for _, a := range l.Attributes {
			attr, err := newAttribute(a, l.Name, alias)
			if err != nil {
				return err
			}
			f.Attributes = append(f.Attributes, attr)
		}
		if err := f.addLinks(l.LinkEntities); err != nil {
			return err
		}
	}
	return nil
}

func newAttribute(a attributeXML, entity, entityAlias string) (Attribute, error) {
	if a.Name == "" {
		return Attribute{}, fmt.Errorf("attribute of entity %q has no name", entity)
	}
	return Attribute{
		EntityName:   entity,
		EntityAlias:  entityAlias,
		LogicalName:  a.Name,
		Alias:        a.Alias,
		Aggregate:    strings.ToLower(a.Aggregate),
		GroupBy:      parseBool(a.GroupBy),
		DateGrouping: a.DateGrouping,
	}, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true
	default:
		return false
	}
}

// ParseFetch parses a standalone fetch expression.
func ParseFetch(fetch string) (*Fetch, error) {
	var fx fetchXML
	if err := xml.Unmarshal([]byte(fetch), &fx); err != nil {
		return nil, fmt.Errorf("invalid fetch expression: %w", err)
	}
	return parseFetchElement(fx)
}

// ParseDataDescription parses a data description into its fetch and
// category list.
func ParseDataDescription(dataDescription string) (*Fetch, []Category, error) {
	var dd dataDefinitionXML
	if err := xml.Unmarshal([]byte(dataDescription), &dd); err != nil {
		return nil, nil, fmt.Errorf("invalid data description: %w", err)
	}
	if len(dd.Fetches) == 0 {
		return nil, nil, fmt.Errorf("data description has no fetch")
	}

	f, err := parseFetchElement(dd.Fetches[0])
	if err != nil {
		return nil, nil, err
	}

	categories := make([]Category, 0, len(dd.Categories))
	for _, c := range dd.Categories {
		cat := Category{Alias: c.Alias}
		for _, m := range c.Measures {
			if m.Alias == "" {
				return nil, nil, fmt.Errorf("measure has no alias")
			}
			cat.Measures = append(cat.Measures, m.Alias)
		}
		categories = append(categories, cat)
	}
	return f, categories, nil
}
