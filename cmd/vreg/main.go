package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/vreg/internal/cli"
	"github.com/example/vreg/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "vreg",
		Short:   "vreg - voter registration operations backend",
		Version: version.String(),
		Long: `vreg is the operations backend for the voter registration program.
It manages deduplication match review, registration exceptions, device
work orders, the device fleet, security keys, and the audit trail, and can
serve the same operations over HTTP.`,
	}

	rootCmd.PersistentFlags().String("actor", "", "Acting user recorded in the audit trail (defaults to the OS user)")

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.MatchCmd())
	rootCmd.AddCommand(cli.ExceptionCmd())
	rootCmd.AddCommand(cli.WorkOrderCmd())
	rootCmd.AddCommand(cli.DeviceCmd())
	rootCmd.AddCommand(cli.KeyCmd())
	rootCmd.AddCommand(cli.AuditCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
