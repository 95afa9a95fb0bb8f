package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/vreg/internal/ports/primary"
	"github.com/example/vreg/internal/wire"
)

// WorkOrderCmd returns the workorder command group.
func WorkOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workorder",
		Short: "Track device maintenance work orders",
		Long:  "Create, list, progress, and annotate maintenance work orders",
	}

	cmd.AddCommand(workOrderCreateCmd())
	cmd.AddCommand(workOrderListCmd())
	cmd.AddCommand(workOrderShowCmd())
	cmd.AddCommand(workOrderStatusCmd())
	cmd.AddCommand(workOrderNoteCmd())
	return cmd
}

func workOrderCreateCmd() *cobra.Command {
	var priority, description string

	cmd := &cobra.Command{
		Use:   "create [device-id] [type]",
		Short: "Open a work order against a device",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.WorkOrderAdapter().Create(actorContext(cmd), primary.CreateWorkOrderRequest{
				DeviceID:    args[0],
				Type:        args[1],
				Priority:    priority,
				Description: description,
			})
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", "medium", "Priority: low, medium, high, critical")
	cmd.Flags().StringVarP(&description, "description", "d", "", "What needs doing")
	return cmd
}

func workOrderListCmd() *cobra.Command {
	var deviceID, status, woType, search, since, until string
	var limit int
	var watch bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchOrOnce(cmd, watch, func(ctx context.Context) error {
				return wire.WorkOrderAdapter().List(ctx, primary.WorkOrderFilters{
					DeviceID: deviceID,
					Status:   status,
					Type:     woType,
					Search:   search,
					Since:    since,
					Until:    until,
					Limit:    limit,
				})
			})
		},
	}
	cmd.Flags().StringVar(&deviceID, "device", "", "Filter by device ID")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&woType, "type", "", "Filter by type")
	cmd.Flags().StringVar(&search, "search", "", "Search IDs and descriptions")
	cmd.Flags().StringVar(&since, "since", "", "Only work orders created at or after this RFC3339 time")
	cmd.Flags().StringVar(&until, "until", "", "Only work orders created at or before this RFC3339 time")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Refresh on the configured poll interval")
	return cmd
}

func workOrderShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [work-order-id]",
		Short: "Show work order details and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.WorkOrderAdapter().Show(cmd.Context(), args[0])
		},
	}
}

func workOrderStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [work-order-id] [new-status]",
		Short: "Move a work order along its lifecycle",
		Long:  "Valid moves: open→in_progress|cancelled, in_progress→completed|awaiting_parts|cancelled, awaiting_parts→in_progress|cancelled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.WorkOrderAdapter().UpdateStatus(actorContext(cmd), args[0], args[1])
		},
	}
}

func workOrderNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note [work-order-id] [text]",
		Short: "Append a note to a work order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.WorkOrderAdapter().AddNote(actorContext(cmd), args[0], args[1])
		},
	}
}
