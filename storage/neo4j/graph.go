package neo4j

import (
	"fmt"
	"maps"
	"strings"

	"humidor/storage"
)

// Node labels.
const (
	TypeCigar   = "Cigar"
	TypeBrand   = "Brand"
	TypeOrigin  = "Origin"
	TypeWrapper = "Wrapper"
	TypeVitola  = "Vitola"
)

// Edge types.
const (
	EdgeMadeBy    = "MADE_BY"
	EdgeRolledIn  = "ROLLED_IN"
	EdgeWrappedIn = "WRAPPED_IN"
	EdgeShapedAs  = "SHAPED_AS"
)

type Node struct {
	Identifier string         `json:"identifier"`
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters"`
}

const (
	neo4jPropIdentifier = "identifier"
	neo4jPropType       = "type"
)

func (r Node) toWriteObject() map[string]any {
	// 2 = identifier+type
	var o = make(map[string]any, 2+len(r.Parameters))
	maps.Copy(o, r.Parameters)
	o[neo4jPropIdentifier] = r.Identifier
	o[neo4jPropType] = r.Type
	return o
}

type Edge struct {
	Identifier string `json:"identifier"`
	Type       string `json:"type"`
	FromID     string `json:"fromID"`
	ToID       string `json:"toID"`
}

const (
	neo4jEdgePropFromID = "fromID"
	neo4jEdgePropToID   = "toID"
)

func (r Edge) toWriteObject() map[string]any {
	return map[string]any{
		neo4jPropIdentifier: r.Identifier,
		neo4jPropType:       r.Type,
		neo4jEdgePropFromID: r.FromID,
		neo4jEdgePropToID:   r.ToID,
	}
}

type Graph struct {
	Nodes map[string]Node
	Edges map[string]Edge
}

func cigarID(r storage.Record) string {
	return fmt.Sprintf("cigar:%d", r.ID)
}

func dimensionID(t, v string) string {
	return strings.ToLower(t) + ":" + strings.ToLower(strings.Join(strings.Fields(v), "-"))
}

func newGraph(records []storage.Record) (Graph, error) {
	g := Graph{Nodes: map[string]Node{}, Edges: map[string]Edge{}}
	for _, r := range records {
		params, err := fromRecord(r)
		if err != nil {
			return g, fmt.Errorf("could not flatten cigar %d: %w", r.ID, err)
		}
		cigar := Node{Identifier: cigarID(r), Type: TypeCigar, Parameters: params}
		g.Nodes[cigar.Identifier] = cigar

		for _, dim := range []struct {
			nodeType, edgeType, value string
		}{
			{nodeType: TypeBrand, edgeType: EdgeMadeBy, value: r.Brand},
			{nodeType: TypeOrigin, edgeType: EdgeRolledIn, value: string(r.Origin)},
			{nodeType: TypeWrapper, edgeType: EdgeWrappedIn, value: string(r.Wrapper)},
			{nodeType: TypeVitola, edgeType: EdgeShapedAs, value: string(r.Vitola)},
		} {
			if strings.TrimSpace(dim.value) == "" {
				continue
			}
			n := Node{
				Identifier: dimensionID(dim.nodeType, dim.value),
				Type:       dim.nodeType,
				Parameters: map[string]any{"name": dim.value},
			}
			g.Nodes[n.Identifier] = n

			e := Edge{
				Identifier: cigar.Identifier + "-" + dim.edgeType + "->" + n.Identifier,
				Type:       dim.edgeType,
				FromID:     cigar.Identifier,
				ToID:       n.Identifier,
			}
			g.Edges[e.Identifier] = e
		}
	}
	return g, nil
}
