package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ogurasousui/turnover-analytics/internal/core/analytics"
	"github.com/spf13/cobra"
)

func newTitlesCmd(root *rootOptions) *cobra.Command {
	var (
		src              fileSourceOptions
		unclassifiedOnly bool
	)

	cmd := &cobra.Command{
		Use:   "titles",
		Short: "List role titles with their category and classification progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			svc, closeFn, err := loadSnapshot(ctx, cfg, src)
			if err != nil {
				return err
			}
			defer closeFn()

			view, err := analytics.NewService(svc).TitleCatalog(ctx)
			if err != nil {
				return err
			}
			return printCatalog(cmd.OutOrStdout(), view, unclassifiedOnly)
		},
	}

	src.bind(cmd, "Read the roster from this file instead of the latest stored snapshot")
	cmd.Flags().BoolVar(&unclassifiedOnly, "unclassified", false, "Only list titles that fell back to OUTROS / Não Classificado")

	return cmd
}

func printCatalog(w io.Writer, view *analytics.CatalogView, unclassifiedOnly bool) error {
	c := view.Catalog

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tCATEGORY\tHEADCOUNT")
	for _, t := range c.Titles {
		if unclassifiedOnly && t.Classified {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", t.Title, t.Category, t.Headcount)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "classified %d/%d titles (%.1f%%)\n", c.Classified, c.Total, c.Percent)
	return nil
}

func newReplacementsCmd(root *rootOptions) *cobra.Command {
	var (
		src    fileSourceOptions
		window analytics.Window
	)

	cmd := &cobra.Command{
		Use:   "replacements",
		Short: "Match terminations in a date window to their replacement hires",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			svc, closeFn, err := loadSnapshot(ctx, cfg, src)
			if err != nil {
				return err
			}
			defer closeFn()

			view, err := analytics.NewService(svc).Replacements(ctx, window)
			if err != nil {
				return err
			}
			return printReplacements(cmd.OutOrStdout(), view)
		},
	}

	src.bind(cmd, "Read the roster from this file instead of the latest stored snapshot")
	cmd.Flags().StringVar(&window.Start, "start", "", "First termination date of the window (dd/mm/yyyy or yyyy-mm-dd)")
	cmd.Flags().StringVar(&window.End, "end", "", "Last termination date of the window (dd/mm/yyyy or yyyy-mm-dd)")

	return cmd
}

func printReplacements(w io.Writer, view *analytics.ReplacementView) error {
	s := view.Summary

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DEPARTING\tTERMINATED\tARRIVING\tHIRED\tDAYS\tROLE\tCOST CENTER\tSHIFT")
	for _, p := range s.Pairs {
		fmt.Fprintf(tw, "%s (%s)\t%s\t%s (%s)\t%s\t%d\t%s\t%s\t%s\n",
			p.Departing.PersonName, p.Departing.PersonID, p.TerminatedAt.Format(time.DateOnly),
			p.Arriving.PersonName, p.Arriving.PersonID, p.HiredAt.Format(time.DateOnly),
			p.DaysToReplace, p.RoleTitle, p.CostCenter, p.ShiftID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "replaced %d of %d terminations (%.1f%%), average %.1f days\n",
		s.Replaced, s.EligibleTerminations, s.Rate*100, s.AvgDaysToReplace)
	return nil
}
