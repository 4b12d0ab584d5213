package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/helixir/comic-metadata-service/internal/domain"
)

type queryFlags struct {
	issue string
	year  int
}

func (f *queryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.issue, "issue", "i", "", "Issue number, for example 1000 or #1")
	cmd.Flags().IntVarP(&f.year, "year", "y", 0, "Cover or start year")
}

func (f *queryFlags) query(args []string) domain.SearchQuery {
	return domain.SearchQuery{
		Series:      strings.Join(args, " "),
		IssueNumber: f.issue,
		Year:        f.year,
	}
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var flags queryFlags
	cmd := &cobra.Command{
		Use:   "search <series>",
		Short: "Search issues directly by series text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := flags.query(args)
			return ctx.withService(cmd, func(c context.Context, svc searcher) error {
				issues, err := svc.SearchIssues(c, q)
				if err != nil {
					return err
				}
				return printIssues(cmd, ctx, issues)
			})
		},
	}
	flags.bind(cmd)
	return cmd
}

func newEnhancedCommand(ctx *commandContext) *cobra.Command {
	var flags queryFlags
	cmd := &cobra.Command{
		Use:   "enhanced <series>",
		Short: "Find an issue by locating its volume first",
		Long: "Find an issue by locating its volume first. Without --issue this is the\n" +
			"same as search. When no volume yields the issue, a direct search is used.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := flags.query(args)
			return ctx.withService(cmd, func(c context.Context, svc searcher) error {
				issues, err := svc.SearchEnhanced(c, q)
				if err != nil {
					return err
				}
				return printIssues(cmd, ctx, issues)
			})
		},
	}
	flags.bind(cmd)
	return cmd
}

func newVolumesCommand(ctx *commandContext) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "volumes <series>",
		Short: "Search volumes (series runs) ranked by similarity",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series := strings.Join(args, " ")
			return ctx.withService(cmd, func(c context.Context, svc searcher) error {
				volumes, err := svc.SearchVolumes(c, series, year)
				if err != nil {
					return err
				}
				if ctx.wantJSON() {
					return writeJSON(cmd, volumes)
				}
				if len(volumes) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No volumes found")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), volumeTable(volumes))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Start year")
	return cmd
}

func printIssues(cmd *cobra.Command, ctx *commandContext, issues []domain.IssueCandidate) error {
	if ctx.wantJSON() {
		if issues == nil {
			issues = []domain.IssueCandidate{}
		}
		return writeJSON(cmd, issues)
	}
	if len(issues) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No issues found")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), issueTable(issues))
	return nil
}
