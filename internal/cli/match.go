package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/vreg/internal/ports/primary"
	"github.com/example/vreg/internal/wire"
)

// MatchCmd returns the match command group.
func MatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Review suspected duplicate registrations",
		Long:  "List, inspect, and rule on dedup matches produced by the biometric matcher",
	}

	cmd.AddCommand(matchListCmd())
	cmd.AddCommand(matchShowCmd())
	cmd.AddCommand(matchReviewCmd())
	cmd.AddCommand(matchFlagCmd())
	return cmd
}

func matchListCmd() *cobra.Command {
	var status, matchType, priority, search, since, until string
	var limit int
	var watch bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dedup matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchOrOnce(cmd, watch, func(ctx context.Context) error {
				return wire.MatchAdapter().List(ctx, primary.MatchFilters{
					Status:    status,
					MatchType: matchType,
					Priority:  priority,
					Search:    search,
					Since:     since,
					Until:     until,
					Limit:     limit,
				})
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&matchType, "type", "", "Filter by match type")
	cmd.Flags().StringVar(&priority, "priority", "", "Filter by priority")
	cmd.Flags().StringVar(&search, "search", "", "Search match and voter IDs")
	cmd.Flags().StringVar(&since, "since", "", "Only matches created at or after this RFC3339 time")
	cmd.Flags().StringVar(&until, "until", "", "Only matches created at or before this RFC3339 time")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Refresh on the configured poll interval")
	return cmd
}

func matchShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [match-id]",
		Short: "Show match details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.MatchAdapter().Show(cmd.Context(), args[0])
		},
	}
}

func matchReviewCmd() *cobra.Command {
	var justification string

	cmd := &cobra.Command{
		Use:   "review [match-id] [confirmed_match|false_positive]",
		Short: "Apply a review decision to a pending match",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.MatchAdapter().Review(actorContext(cmd), args[0], args[1], justification)
		},
	}
	cmd.Flags().StringVarP(&justification, "justification", "j", "", "Reason for the decision (required)")
	cmd.MarkFlagRequired("justification")
	return cmd
}

func matchFlagCmd() *cobra.Command {
	var justification string

	cmd := &cobra.Command{
		Use:   "flag-exception [match-id]",
		Short: "Flag a pending match for manual exception ruling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.MatchAdapter().FlagException(actorContext(cmd), args[0], justification)
		},
	}
	cmd.Flags().StringVarP(&justification, "justification", "j", "", "Reason for flagging (required)")
	cmd.MarkFlagRequired("justification")
	return cmd
}
