package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"humidor/config"
	"humidor/lookup"
	"humidor/lookup/cigarworld"
	"humidor/lookup/genai"

	"github.com/spf13/cobra"
)

// newProvider returns the lookup service set in the config.
func newProvider(cfg config.LookupConfig) (lookup.Provider, error) {
	switch cfg.Provider {
	case config.LookupGenAI:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		c, err := genai.NewClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("could not initialise the genai client: %w", err)
		}
		return c, nil
	case config.LookupCigarWorld:
		return cigarworld.Client{
			HTTPClient: &http.Client{Timeout: cfg.Timeout},
			BaseURL:    cfg.BaseURL,
		}, nil
	case config.LookupNone, "":
		return lookup.Unavailable{}, nil
	}
	return nil, fmt.Errorf("unknown lookup provider %q", cfg.Provider)
}

func lookupContext(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

func newLookupCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "lookup <brand> <name>",
		Short: "Suggest the attributes of a cigar from the lookup service",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newProvider(a.cfg.Lookup)
			if err != nil {
				return err
			}
			ctx, cancel := lookupContext(cmd, a.cfg.Lookup.Timeout)
			defer cancel()
			s, err := lookup.Lookup(ctx, p, args[0], args[1])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "vitola: %s\nwrapper: %s\norigin: %s\nstrength: %s\ndescription: %s\n",
				s.Vitola, s.Wrapper, s.Origin, s.Strength, s.Description)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
