package main

import (
	"errors"
	"fmt"

	"humidor/storage/neo4j"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the humidor to the Neo4j graph database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			if a.cfg.Neo4j.URI == "" {
				return errors.New("neo4j.uri, or DB_URI, must be set to export")
			}
			to, err := neo4j.NewClient(cmd.Context(), neo4j.ConnectionConfig{
				DbURI:      a.cfg.Neo4j.URI,
				DbPassword: a.cfg.Neo4j.Password,
				DbName:     a.cfg.Neo4j.Database,
				DbUser:     a.cfg.Neo4j.User,
			})
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, to.Close(cmd.Context())) }()

			ids, err := to.Write(cmd.Context(), a.store.Records())
			if err != nil {
				return err
			}
			a.logs.Info().Int("cigars", len(ids)).Str("uri", a.cfg.Neo4j.URI).Msg("humidor exported")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "exported %d cigars\n", len(ids))
			return err
		},
	}
}
