// Command humidor keeps the cigar journal: a web form, a JSON API and a command line over one data file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"humidor/config"
	"humidor/journal"
	"humidor/logger"
	"humidor/storage/fs"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app the state shared by the subcommands, set up before each of them runs.
type app struct {
	configPath string
	cfg        *config.Config
	logs       zerolog.Logger
	store      *journal.Store
}

// commands which need neither the config nor the store
var standalone = map[string]bool{"help": true, "completion": true, "pairings": true}

// commands which do not open the store
var storeless = map[string]bool{"config": true, "lookup": true}

func newRootCmd() *cobra.Command {
	a := &app{logs: zerolog.Nop()}
	root := &cobra.Command{
		Use:   "humidor",
		Short: "Personal cigar inventory and smoking journal",
		Long: `Keeps the cigars in the humidor, the ones smoked from it with their ratings and comments, and the favorites.
The collection is one JSON file; serve it as a web form, or edit it from the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if standalone[cmd.Name()] {
				return nil
			}
			return a.setup(cmd.Context(), !storeless[cmd.Name()])
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to the YAML config, CONFIG_PATH if empty")

	root.AddCommand(
		newServeCmd(a),
		newAddCmd(a),
		newUpdateCmd(a),
		newListCmd(a),
		newSmokeCmd(a),
		newUnsmokeCmd(a),
		newRateCmd(a),
		newFavCmd(a),
		newDeleteCmd(a),
		newJournalCmd(a),
		newStatsCmd(a),
		newPairingsCmd(),
		newLookupCmd(a),
		newExportCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) setup(ctx context.Context, openStore bool) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("could not load the config: %w", err)
	}
	a.cfg = cfg

	a.logs, err = logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return err
	}
	if !openStore {
		return nil
	}

	db, err := fs.NewClient(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("could not initialise the data file: %w", err)
	}
	a.store, err = journal.Open(ctx, db, journal.WithLogger(a.logs))
	return err
}
