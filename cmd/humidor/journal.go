package main

import (
	"fmt"
	"slices"
	"strconv"
	"text/tabwriter"

	"humidor/journal"
	"humidor/pairing"
	"humidor/storage"

	"github.com/spf13/cobra"
)

func newJournalCmd(a *app) *cobra.Command {
	var unrated bool
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show the smoked cigars, latest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := journal.SortForJournal(slices.Collect(a.store.Filter(journal.ViewSmoked, "")))
			if unrated {
				entries = slices.DeleteFunc(entries, func(r storage.Record) bool { return r.Rated() })
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "SMOKED\tID\tCIGAR\tRATING\tCOMMENTS")
			for _, r := range entries {
				rating := "-"
				if r.Rated() {
					rating = strconv.FormatFloat(r.Rating, 'f', -1, 64)
				}
				_, _ = fmt.Fprintf(tw, "%s\t%d\t%s %s\t%s\t%s\n", r.SmokedDate, r.ID, r.Brand, r.Name, rating, r.Comments)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&unrated, "unrated", false, "only the smoked cigars waiting for a rating")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var view string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, ok := journal.ParseView(view)
			if !ok {
				return fmt.Errorf("unknown view %q, expected one of %v", view, journal.Views())
			}
			s := journal.Aggregate(a.store.Filter(v, ""))
			avg := "n/a"
			if s.AverageRating != nil {
				avg = strconv.FormatFloat(*s.AverageRating, 'f', 2, 64)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "cigars: %d\nrated: %d\nunrated: %d\nfavorites: %d\naverage rating: %s\n",
				s.Count, s.Rated, s.Unrated, s.Favorites, avg)
			return err
		},
	}
	cmd.Flags().StringVar(&view, "view", string(journal.ViewSmoked), "all, humidor, smoked or favorites")
	return cmd
}

func newPairingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pairings [word...]",
		Short: "Show the cigar and spirit pairings, optionally those matching a wrapper or an origin",
		RunE: func(cmd *cobra.Command, args []string) error {
			pp := pairing.All()
			if len(args) > 0 {
				pp = pairing.Match(args...)
			}
			for _, p := range pp {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s with %s\n  %s\n", p.Cigar, p.Spirit, p.Description); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
