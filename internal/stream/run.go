package stream

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/a-abella/docklog/internal/config"
	"github.com/a-abella/docklog/internal/docker"
)

// Run wires the pipeline against the Docker CLI and executes one session on
// stdout. An interrupt drains the session and returns nil; setup failures
// (daemon unreachable, unknown container) are returned to the caller.
func Run(identifiers []string, opts Options) error {
	limits := config.DefaultLimits()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := &docker.CLIClient{ChunkBytes: limits.ReadChunkBytes}
	if err := client.Preflight(ctx); err != nil {
		return err
	}

	painter := NewPainter(os.Stdout, opts.NoColor)
	sink := NewSink(os.Stdout)
	coordinator := NewCoordinator(client, limits, painter, sink, opts)
	err := coordinator.Run(ctx, identifiers)

	// Trailing blank line on every exit path.
	fmt.Println()
	return err
}
