// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pagemill/internal/manifest"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List past conversions recorded in the manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := manifest.Open(manifestPath())
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.List()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No conversions recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STATUS\tPAGES\tDURATION\tCONVERTED\tSOURCE")
		for _, rec := range records {
			pages := fmt.Sprintf("%d", rec.Pages)
			if rec.FailedPages > 0 {
				pages = fmt.Sprintf("%d (%d failed)", rec.Pages, rec.FailedPages)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				rec.Status, pages, rec.Duration.Round(time.Millisecond),
				rec.ConvertedAt.Local().Format("2006-01-02 15:04"), rec.SourcePath)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
