package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/vreg/internal/ports/primary"
	"github.com/example/vreg/internal/wire"
)

// AuditCmd returns the audit command group.
func AuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit trail",
	}

	cmd.AddCommand(auditListCmd())
	cmd.AddCommand(auditHistoryCmd())
	return cmd
}

func auditListCmd() *cobra.Command {
	var actor, entityType, action, since, until string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AuditAdapter().List(cmd.Context(), primary.AuditFilters{
				Actor:      actor,
				EntityType: entityType,
				Action:     action,
				Since:      since,
				Until:      until,
				Limit:      limit,
			})
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "Filter by acting user")
	cmd.Flags().StringVar(&entityType, "entity-type", "", "Filter by entity type")
	cmd.Flags().StringVar(&action, "action", "", "Filter by action")
	cmd.Flags().StringVar(&since, "since", "", "Only entries at or after this RFC3339 time")
	cmd.Flags().StringVar(&until, "until", "", "Only entries at or before this RFC3339 time")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows")
	return cmd
}

func auditHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [entity-type] [entity-id]",
		Short: "Show the full history of one entity in append order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AuditAdapter().History(cmd.Context(), args[0], args[1])
		},
	}
}
