package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"humidor/journal"
	"humidor/lookup"
	"humidor/storage"
	"humidor/transform/dimension"

	"github.com/spf13/cobra"
)

func addFieldFlags(cmd *cobra.Command, f *journal.Fields) {
	flags := cmd.Flags()
	flags.StringVar(&f.Brand, "brand", "", "brand, e.g., Padron")
	flags.StringVar(&f.Name, "name", "", "name or line, e.g., 1964 Anniversary")
	flags.StringVar(&f.Vitola, "vitola", "", "one of: "+strings.Join(dimension.Vitolas(), ", "))
	flags.StringVar(&f.Wrapper, "wrapper", "", "one of: "+strings.Join(dimension.Wrappers(), ", "))
	flags.StringVar(&f.Origin, "origin", "", "one of: "+strings.Join(dimension.Origins(), ", "))
	flags.StringVar(&f.Strength, "strength", "", "one of: "+strings.Join(dimension.Strengths(), ", "))
	flags.IntVar(&f.Qty, "qty", 1, "number of sticks")
	flags.Float64Var(&f.Price, "price", 0, "price per stick")
	flags.StringVar(&f.Notes, "notes", "", "notes")
	flags.StringVar(&f.PurchaseDate, "purchased", "", "purchase date as YYYY-MM-DD, today if empty")
}

func newAddCmd(a *app) *cobra.Command {
	var (
		f         journal.Fields
		useLookup bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a cigar to the humidor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if useLookup {
				p, err := newProvider(a.cfg.Lookup)
				if err != nil {
					return err
				}
				ctx, cancel := lookupContext(cmd, a.cfg.Lookup.Timeout)
				defer cancel()
				sug, err := lookup.Lookup(ctx, p, f.Brand, f.Name)
				if err != nil {
					return err
				}
				prefill(cmd, &f, sug)
			}
			id, err := a.store.Add(cmd.Context(), f)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added cigar %d\n", id)
			return err
		},
	}
	addFieldFlags(cmd, &f)
	cmd.Flags().BoolVar(&f.Favorite, "favorite", false, "mark as favorite")
	cmd.Flags().BoolVar(&useLookup, "lookup", false, "fill in the attributes not set by flags from the lookup service")
	_ = cmd.MarkFlagRequired("brand")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// prefill sets the suggested attributes which were not given on the command line.
func prefill(cmd *cobra.Command, f *journal.Fields, s lookup.Suggestion) {
	for flag, v := range map[string]struct {
		dst *string
		val string
	}{
		"vitola":   {dst: &f.Vitola, val: string(s.Vitola)},
		"wrapper":  {dst: &f.Wrapper, val: string(s.Wrapper)},
		"origin":   {dst: &f.Origin, val: string(s.Origin)},
		"strength": {dst: &f.Strength, val: string(s.Strength)},
		"notes":    {dst: &f.Notes, val: s.Description},
	} {
		if !cmd.Flags().Changed(flag) {
			*v.dst = v.val
		}
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var f journal.Fields
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the attributes of a cigar",
		Long:  "Update the attributes of a cigar. The flags which are not set keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := a.store.Get(id)
			if err != nil {
				return err
			}
			current := journal.Fields{
				Brand:        r.Brand,
				Name:         r.Name,
				Vitola:       string(r.Vitola),
				Wrapper:      string(r.Wrapper),
				Origin:       string(r.Origin),
				Strength:     string(r.Strength),
				Qty:          r.Qty,
				Price:        r.Price,
				Notes:        r.Notes,
				PurchaseDate: r.PurchaseDate,
			}
			merge(cmd, &current, f)
			if err = a.store.Update(cmd.Context(), id, current); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "updated cigar %d\n", id)
			return err
		},
	}
	addFieldFlags(cmd, &f)
	return cmd
}

// merge copies the fields set on the command line from src to dst.
func merge(cmd *cobra.Command, dst *journal.Fields, src journal.Fields) {
	changed := cmd.Flags().Changed
	if changed("brand") {
		dst.Brand = src.Brand
	}
	if changed("name") {
		dst.Name = src.Name
	}
	if changed("vitola") {
		dst.Vitola = src.Vitola
	}
	if changed("wrapper") {
		dst.Wrapper = src.Wrapper
	}
	if changed("origin") {
		dst.Origin = src.Origin
	}
	if changed("strength") {
		dst.Strength = src.Strength
	}
	if changed("qty") {
		dst.Qty = src.Qty
	}
	if changed("price") {
		dst.Price = src.Price
	}
	if changed("notes") {
		dst.Notes = src.Notes
	}
	if changed("purchased") {
		dst.PurchaseDate = src.PurchaseDate
	}
}

func newListCmd(a *app) *cobra.Command {
	var (
		view, search string
		asJSON       bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the cigars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, ok := journal.ParseView(view)
			if !ok {
				return fmt.Errorf("unknown view %q, expected one of %v", view, journal.Views())
			}
			records := slices.Collect(a.store.Filter(v, search))
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			return printRecords(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().StringVar(&view, "view", string(journal.ViewAll), "all, humidor, smoked or favorites")
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive search over the brand and the name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newSmokeCmd(a *app) *cobra.Command {
	var (
		rating         float64
		comments, date string
	)
	cmd := &cobra.Command{
		Use:   "smoke <id>",
		Short: "Mark a cigar as smoked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err = a.store.MarkSmoked(cmd.Context(), id, rating, comments, date); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "smoked cigar %d\n", id)
			return err
		},
	}
	cmd.Flags().Float64VarP(&rating, "rating", "r", 0, "rating from 0.5 to 5 in half points, 0 to rate later")
	cmd.Flags().StringVar(&comments, "comments", "", "comments on the smoke")
	cmd.Flags().StringVar(&date, "date", "", "smoked date as YYYY-MM-DD, today if empty")
	return cmd
}

func newUnsmokeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unsmoke <id>",
		Short: "Move a smoked cigar back to the humidor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err = a.store.UnmarkSmoked(cmd.Context(), id); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "cigar %d is back in the humidor\n", id)
			return err
		},
	}
}

func newRateCmd(a *app) *cobra.Command {
	var comments string
	cmd := &cobra.Command{
		Use:   "rate <id> <rating>",
		Short: "Rate a smoked cigar",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rating, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("%w, got %q", journal.ErrInvalidRating, args[1])
			}
			if err = a.store.Rate(cmd.Context(), id, rating, comments); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "rated cigar %d: %v\n", id, rating)
			return err
		},
	}
	cmd.Flags().StringVar(&comments, "comments", "", "comments on the smoke, the existing ones are kept if empty")
	return cmd
}

func newFavCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fav <id>",
		Short: "Toggle the favorite flag of a cigar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fav, err := a.store.ToggleFavorite(cmd.Context(), id)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "cigar %d favorite: %t\n", id, fav)
			return err
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a cigar",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err = a.store.Delete(cmd.Context(), id); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted cigar %d\n", id)
			return err
		},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("malformed cigar id %q", s)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRecords(w io.Writer, records []storage.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tCIGAR\tVITOLA\tWRAPPER\tORIGIN\tSTRENGTH\tQTY\tSMOKED\tRATING\tFAV")
	for _, r := range records {
		var smoked, rating, fav string
		if r.Smoked {
			smoked = r.SmokedDate
		}
		if r.Rated() {
			rating = strconv.FormatFloat(r.Rating, 'f', -1, 64)
		}
		if r.Favorite {
			fav = "*"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			r.ID, r.Brand, r.Name, r.Vitola, r.Wrapper, r.Origin, r.Strength, r.Qty, smoked, rating, fav)
	}
	return tw.Flush()
}
