package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/CodeStranger-Fred/efemaze/store"
)

func newRunsCmd(a *app) *cobra.Command {
	var (
		f     runFlags
		limit int
	)
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.apply(cmd, a.cfg)
			s, err := store.Open(cmd.Context(), a.cfg.Store.Driver, a.cfg.Store.DSN)
			if err != nil {
				return err
			}
			defer s.Close()
			recs, err := s.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tSEED\tVARIANT\tGENERATOR\tSIZE\tSTATUS\tSTEPS")
			for _, r := range recs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%d\t%s\t%d\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Seed, r.Variant, r.Generator, r.Size, r.Status, r.Steps)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&f.storeDriver, "store-driver", "sqlite", "run store driver: sqlite or postgres")
	cmd.Flags().StringVar(&f.storeDSN, "store-dsn", "efemaze.db", "sqlite path or postgres DSN")
	cmd.Flags().IntVar(&limit, "limit", 20, "rows to show")
	return cmd
}
