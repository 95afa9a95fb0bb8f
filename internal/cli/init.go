package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/vreg/internal/db"
	"github.com/example/vreg/internal/wire"
)

// InitCmd returns the init command.
func InitCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the vreg database",
		Long:  `Initialize the vreg database with the required schema. The path comes from configuration (VREG_DB_PATH) and defaults to ~/.vreg/vreg.db.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := wire.Config().DBPath
			if path == "" {
				var err error
				path, err = db.DefaultPath()
				if err != nil {
					return err
				}
			}

			fmt.Printf("Initializing database at %s\n", path)

			conn, err := db.Open(path)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			fmt.Println("✓ Database initialized successfully")

			if seed {
				if err := db.SeedFixtures(conn); err != nil {
					return fmt.Errorf("failed to seed fixtures: %w", err)
				}
				fmt.Println("✓ Sample data loaded")
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  vreg match list")
			fmt.Println("  vreg serve")

			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "Load sample data for local development")
	return cmd
}
