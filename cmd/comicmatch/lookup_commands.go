package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/helixir/comic-metadata-service/internal/domain"
)

func parseIDArg(name, raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

func newIssueCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "issue <issue-id>",
		Short: "Show full metadata for one issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("issue id", args[0])
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(c context.Context, svc searcher) error {
				meta, err := svc.GetIssueMetadata(c, id)
				if err != nil {
					return err
				}
				if ctx.wantJSON() {
					return writeJSON(cmd, meta)
				}
				fmt.Fprint(cmd.OutOrStdout(), renderIssueMetadata(meta))
				return nil
			})
		},
	}
}

func newVolumeIssuesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "volume-issues <volume-id>",
		Short: "List the issues of a volume in reading order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("volume id", args[0])
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(c context.Context, svc searcher) error {
				issues, err := svc.GetVolumeIssues(c, id)
				if err != nil {
					return err
				}
				return printIssues(cmd, ctx, issues)
			})
		},
	}
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show catalog quota use recorded by this process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(_ context.Context, svc searcher) error {
				status := svc.RateLimitStatus()
				if status == nil {
					status = []domain.EndpointStatus{}
				}
				if ctx.wantJSON() {
					return writeJSON(cmd, map[string]any{"endpoints": status})
				}
				if len(status) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No catalog requests recorded")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), statusTable(status))
				return nil
			})
		},
	}
}
