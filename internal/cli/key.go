package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/vreg/internal/ports/primary"
	"github.com/example/vreg/internal/wire"
)

// KeyCmd returns the key command group.
func KeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the hardware security key inventory",
	}

	cmd.AddCommand(keyAddCmd())
	cmd.AddCommand(keyListCmd())
	cmd.AddCommand(keyShowCmd())
	cmd.AddCommand(keyAssignCmd())
	cmd.AddCommand(keyReturnCmd())
	cmd.AddCommand(keyRevokeCmd())
	cmd.AddCommand(keyLostCmd())
	return cmd
}

func keyAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [serial] [fido2|piv|otp]",
		Short: "Register a new key in stock",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SecurityKeyAdapter().Add(actorContext(cmd), args[0], args[1])
		},
	}
}

func keyListCmd() *cobra.Command {
	var status, kind, search string
	var limit int
	var watch bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchOrOnce(cmd, watch, func(ctx context.Context) error {
				return wire.SecurityKeyAdapter().List(ctx, primary.SecurityKeyFilters{
					Status: status,
					Kind:   kind,
					Search: search,
					Limit:  limit,
				})
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&kind, "kind", "", "Filter by kind")
	cmd.Flags().StringVar(&search, "search", "", "Search ID, serial, assignee")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Refresh on the configured poll interval")
	return cmd
}

func keyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [key-id]",
		Short: "Show key details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SecurityKeyAdapter().Show(cmd.Context(), args[0])
		},
	}
}

func keyAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign [key-id] [person]",
		Short: "Issue an in-stock key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SecurityKeyAdapter().Assign(actorContext(cmd), args[0], args[1])
		},
	}
}

func keyReturnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return [key-id]",
		Short: "Take an assigned key back into stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SecurityKeyAdapter().Return(actorContext(cmd), args[0])
		},
	}
}

func keyRevokeCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "revoke [key-id]",
		Short: "Permanently revoke an assigned key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SecurityKeyAdapter().Revoke(actorContext(cmd), args[0], reason)
		},
	}
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Why the key is revoked")
	return cmd
}

func keyLostCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "lost [key-id]",
		Short: "Mark a key as lost",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SecurityKeyAdapter().MarkLost(actorContext(cmd), args[0], reason)
		},
	}
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Circumstances of the loss")
	return cmd
}
