// Package cli defines the cobra commands. Commands parse flags and
// arguments, then delegate to the CLI adapters from the wire layer.
package cli

import (
	"context"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/example/vreg/internal/ctxutil"
)

// actorContext returns a context carrying the acting identity: the --actor
// flag when given, the OS user otherwise. Mutating services reject an
// empty actor, so the fallback keeps local use working while the flag
// stays authoritative in scripts.
func actorContext(cmd *cobra.Command) context.Context {
	actor, _ := cmd.Root().PersistentFlags().GetString("actor")
	if actor == "" {
		if u, err := user.Current(); err == nil {
			actor = u.Username
		}
	}
	return ctxutil.WithActor(cmd.Context(), actor)
}
