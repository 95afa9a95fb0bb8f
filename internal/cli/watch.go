package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/vreg/internal/wire"
)

// runEvery runs fn immediately, then again on every tick until the
// context is cancelled or fn fails. Ctrl+C ends a watch cleanly.
func runEvery(ctx context.Context, interval time.Duration, fn func(context.Context) error) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if err := fn(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fmt.Printf("── %s ──\n", time.Now().Format("15:04:05"))
			if err := fn(ctx); err != nil {
				return err
			}
		}
	}
}

// watchOrOnce runs fn once, or keeps re-running it on the configured
// poll interval when watch is set.
func watchOrOnce(cmd *cobra.Command, watch bool, fn func(context.Context) error) error {
	if !watch {
		return fn(cmd.Context())
	}
	return runEvery(cmd.Context(), wire.Config().PollInterval(), fn)
}
