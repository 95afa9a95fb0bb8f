package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/vreg/internal/ports/primary"
	"github.com/example/vreg/internal/wire"
)

// ExceptionCmd returns the exception command group.
func ExceptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exception",
		Short: "Rule on capture exceptions",
		Long:  "List, claim, approve, reject, and escalate capture exceptions raised in the field",
	}

	cmd.AddCommand(exceptionListCmd())
	cmd.AddCommand(exceptionShowCmd())
	cmd.AddCommand(exceptionClaimCmd())
	cmd.AddCommand(exceptionReviewCmd())
	cmd.AddCommand(exceptionEscalateCmd())
	return cmd
}

func exceptionListCmd() *cobra.Command {
	var status, excType, priority, search, since, until string
	var limit int
	var watch bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List exceptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchOrOnce(cmd, watch, func(ctx context.Context) error {
				return wire.ExceptionAdapter().List(ctx, primary.ExceptionFilters{
					Status:        status,
					ExceptionType: excType,
					Priority:      priority,
					Search:        search,
					Since:         since,
					Until:         until,
					Limit:         limit,
				})
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&excType, "type", "", "Filter by exception type")
	cmd.Flags().StringVar(&priority, "priority", "", "Filter by priority")
	cmd.Flags().StringVar(&search, "search", "", "Search IDs and descriptions")
	cmd.Flags().StringVar(&since, "since", "", "Only exceptions created at or after this RFC3339 time")
	cmd.Flags().StringVar(&until, "until", "", "Only exceptions created at or before this RFC3339 time")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Refresh on the configured poll interval")
	return cmd
}

func exceptionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [exception-id]",
		Short: "Show exception details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ExceptionAdapter().Show(cmd.Context(), args[0])
		},
	}
}

func exceptionClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim [exception-id]",
		Short: "Claim an open exception for review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ExceptionAdapter().Claim(actorContext(cmd), args[0])
		},
	}
}

func exceptionReviewCmd() *cobra.Command {
	var justification string

	cmd := &cobra.Command{
		Use:   "review [exception-id] [approved|rejected]",
		Short: "Approve or reject an actionable exception",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ExceptionAdapter().Review(actorContext(cmd), args[0], args[1], justification)
		},
	}
	cmd.Flags().StringVarP(&justification, "justification", "j", "", "Reason for the ruling (required)")
	cmd.MarkFlagRequired("justification")
	return cmd
}

func exceptionEscalateCmd() *cobra.Command {
	var justification string

	cmd := &cobra.Command{
		Use:   "escalate [exception-id] [target-role]",
		Short: "Escalate an exception to a higher authority",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ExceptionAdapter().Escalate(actorContext(cmd), args[0], args[1], justification)
		},
	}
	cmd.Flags().StringVarP(&justification, "justification", "j", "", "Reason for escalation (required)")
	cmd.MarkFlagRequired("justification")
	return cmd
}
