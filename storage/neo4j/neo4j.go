// Package neo4j exports the humidor to a Neo4j graph: a node per cigar linked to its brand, origin, wrapper
// and vitola.
package neo4j

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"

	"humidor/storage"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type ConnectionConfig struct {
	DbURI      string
	DbPassword string
	DbName     string
	DbUser     string
}

type Client struct {
	driver    neo4j.DriverWithContext
	dbSession neo4j.SessionWithContext
}

func NewClient(ctx context.Context, cfg ConnectionConfig) (c Client, err error) {
	d, err := neo4j.NewDriverWithContext(cfg.DbURI, neo4j.BasicAuth(cfg.DbUser, cfg.DbPassword, ""))
	switch err != nil {
	case true:
		err = fmt.Errorf("could not init neo4j driver: %w", err)
	case false:
		if err = d.VerifyConnectivity(ctx); err != nil {
			_ = d.Close(ctx)
			err = fmt.Errorf("could not connect to neo4j: %w", err)
		} else {
			sess := d.NewSession(ctx, neo4j.SessionConfig{DatabaseName: cfg.DbName, AccessMode: neo4j.AccessModeWrite})
			c = Client{driver: d, dbSession: sess}
		}
	}
	return c, err
}

// Write merges the records into the graph and returns the identifiers of the cigar nodes.
// The records are the whole collection: the cigar nodes of the records no longer in it are deleted, so are the
// brand, origin, wrapper and vitola nodes left without a cigar.
func (c Client) Write(ctx context.Context, r []storage.Record) (ids []string, err error) {
	g, err := newGraph(r)
	if err != nil {
		return nil, err
	}
	queries := writeQueries(g)
	_, err = c.dbSession.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, q := range queries {
			res, er := tx.Run(ctx, q.cypher, q.params)
			if er != nil {
				return nil, er
			}
			if _, er = res.Consume(ctx); er != nil {
				return nil, er
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not write to neo4j: %w", err)
	}

	ids = make([]string, len(r))
	for i, rec := range r {
		ids[i] = cigarID(rec)
	}
	return ids, nil
}

// Close closes the session and the driver.
func (c Client) Close(ctx context.Context) error {
	var err error
	if c.dbSession != nil {
		err = c.dbSession.Close(ctx)
	}
	if c.driver != nil {
		err = cmp.Or(err, c.driver.Close(ctx))
	}
	return err
}

type query struct {
	cypher string
	params map[string]any
}

// writeQueries returns one query per node label and edge type, nodes first, followed by the clean-up of the nodes
// which are not in g.
// Labels and relationship types can not be parametrised, hence they are formatted into the statements; both come
// from the package's constants.
func writeQueries(g Graph) []query {
	nodes := map[string][]map[string]any{}
	for _, id := range slices.Sorted(maps.Keys(g.Nodes)) {
		n := g.Nodes[id]
		nodes[n.Type] = append(nodes[n.Type], n.toWriteObject())
	}
	edges := map[string][]map[string]any{}
	for _, id := range slices.Sorted(maps.Keys(g.Edges)) {
		e := g.Edges[id]
		edges[e.Type] = append(edges[e.Type], e.toWriteObject())
	}

	var o []query
	for _, t := range slices.Sorted(maps.Keys(nodes)) {
		o = append(o, query{
			cypher: fmt.Sprintf(`UNWIND $records AS rec
MERGE (n:%s{identifier: rec.identifier})
ON CREATE SET n.createdAt = timestamp()
SET n += rec, n.updatedAt = timestamp()`, t),
			params: map[string]any{"records": nodes[t]},
		})
	}
	for _, t := range slices.Sorted(maps.Keys(edges)) {
		o = append(o, query{
			cypher: fmt.Sprintf(`UNWIND $records AS rec
MATCH (from{identifier: rec.fromID}), (to{identifier: rec.toID})
MERGE (from)-[e:%s{identifier: rec.identifier}]->(to)
ON CREATE SET e.createdAt = timestamp()
SET e.updatedAt = timestamp()`, t),
			params: map[string]any{"records": edges[t]},
		})
	}

	cigars := []string{}
	for _, id := range slices.Sorted(maps.Keys(g.Nodes)) {
		if g.Nodes[id].Type == TypeCigar {
			cigars = append(cigars, id)
		}
	}
	o = append(o,
		query{
			cypher: fmt.Sprintf(`MATCH (n:%s)
WHERE NOT n.identifier IN $identifiers
DETACH DELETE n`, TypeCigar),
			params: map[string]any{"identifiers": cigars},
		},
		query{
			cypher: fmt.Sprintf(`MATCH (n)
WHERE (n:%s OR n:%s OR n:%s OR n:%s) AND NOT (n)--()
DELETE n`, TypeBrand, TypeOrigin, TypeWrapper, TypeVitola),
			params: map[string]any{},
		},
	)
	return o
}
