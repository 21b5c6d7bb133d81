package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"humidor/server"

	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the web form and the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := newProvider(a.cfg.Lookup)
			if err != nil {
				return err
			}
			s, err := server.New(a.store,
				server.WithLogger(a.logs),
				server.WithLookup(p, a.cfg.Lookup.Timeout),
			)
			if err != nil {
				return fmt.Errorf("could not initialise the server: %w", err)
			}

			srv := &http.Server{
				Addr:         a.cfg.Server.Addr(),
				Handler:      s.Handler(),
				ReadTimeout:  a.cfg.Server.ReadTimeout,
				WriteTimeout: a.cfg.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logs.Info().Str("addr", srv.Addr).Str("data", a.cfg.Store.Path).
					Str("lookup", a.cfg.Lookup.Provider).Msg("serving the humidor")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err = <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			a.logs.Info().Msg("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
}
