package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/vreg/internal/ports/primary"
	"github.com/example/vreg/internal/wire"
)

// DeviceCmd returns the device command group.
func DeviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Manage the registration device fleet",
	}

	cmd.AddCommand(deviceRegisterCmd())
	cmd.AddCommand(deviceListCmd())
	cmd.AddCommand(deviceShowCmd())
	cmd.AddCommand(deviceStatusCmd())
	return cmd
}

func deviceRegisterCmd() *cobra.Command {
	var location, ipAddress string

	cmd := &cobra.Command{
		Use:   "register [name]",
		Short: "Add a device to the fleet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DeviceAdapter().Register(actorContext(cmd), args[0], location, ipAddress)
		},
	}
	cmd.Flags().StringVarP(&location, "location", "l", "", "Deployment location")
	cmd.Flags().StringVar(&ipAddress, "ip", "", "Device IP address")
	return cmd
}

func deviceListCmd() *cobra.Command {
	var status, location, search string
	var limit int
	var watch bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchOrOnce(cmd, watch, func(ctx context.Context) error {
				return wire.DeviceAdapter().List(ctx, primary.DeviceFilters{
					Status:   status,
					Location: location,
					Search:   search,
					Limit:    limit,
				})
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&location, "location", "", "Filter by exact deployment location")
	cmd.Flags().StringVar(&search, "search", "", "Search name, ID, location, IP")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Refresh on the configured poll interval")
	return cmd
}

func deviceShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [device-id]",
		Short: "Show device details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DeviceAdapter().Show(cmd.Context(), args[0])
		},
	}
}

func deviceStatusCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "status [device-id] [online|offline|degraded|maintenance]",
		Short: "Set a device status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DeviceAdapter().SetStatus(actorContext(cmd), args[0], args[1], reason)
		},
	}
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Why the status changed")
	return cmd
}
