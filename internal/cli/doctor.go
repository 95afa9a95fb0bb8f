package cli

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/vreg/internal/config"
	"github.com/example/vreg/internal/db"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the vreg environment",
		Long: `Health check for the vreg installation.

Validates:
- Configuration loads and is well-formed
- Database file exists and opens
- All expected tables are present

Examples:
  vreg doctor              # Run full health check
  vreg doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, confResult := checkConfig()
			results := []CheckResult{confResult}
			results = append(results, checkDatabase(cfg))

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Println()
				fmt.Println("Check              Status")
				fmt.Println("─────────────────────────")
				for _, r := range results {
					fmt.Printf("%-18s %s\n", r.Name, r.Status)
				}
				fmt.Println()

				hasDetails := false
				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						if !hasDetails {
							fmt.Println("Details:")
							hasDetails = true
						}
						fmt.Printf("\n%s:\n%s\n", r.Name, r.Details)
					}
				}

				if hasErrors {
					fmt.Println("\n⚠ Issues found. Run 'vreg init' to set up the database.")
				} else {
					fmt.Println("All checks passed.")
				}
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

// checkConfig loads configuration and reports how it went.
func checkConfig() (*config.Config, CheckResult) {
	cfg, err := config.Load()
	if err != nil {
		return nil, CheckResult{Name: "Configuration", Status: "✗", Details: "  " + err.Error()}
	}
	return cfg, CheckResult{Name: "Configuration", Status: "✓"}
}

// checkDatabase verifies the database file opens and carries the full schema.
func checkDatabase(cfg *config.Config) CheckResult {
	path := ""
	if cfg != nil {
		path = cfg.DBPath
	}
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return CheckResult{Name: "Database", Status: "✗", Details: "  " + err.Error()}
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return CheckResult{
			Name:    "Database",
			Status:  "⚠",
			Details: fmt.Sprintf("  %s does not exist yet; run 'vreg init'", path),
		}
	}

	conn, err := db.Open(path)
	if err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: "  " + err.Error()}
	}

	missing := missingTables(conn)
	if len(missing) > 0 {
		return CheckResult{
			Name:    "Database",
			Status:  "✗",
			Details: "  Missing tables: " + strings.Join(missing, ", "),
		}
	}

	return CheckResult{Name: "Database", Status: "✓"}
}

func missingTables(conn *sql.DB) []string {
	expected := []string{
		"dedup_matches", "exceptions", "work_orders", "work_order_notes",
		"devices", "security_keys", "audit_logs", "notifications",
	}

	missing := []string{}
	for _, table := range expected {
		var name string
		err := conn.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			missing = append(missing, table)
		}
	}
	return missing
}
