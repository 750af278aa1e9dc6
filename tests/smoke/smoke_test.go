package smoke

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-abella/docklog/internal/config"
	"github.com/a-abella/docklog/internal/model"
	"github.com/a-abella/docklog/internal/stream"
	"github.com/a-abella/docklog/internal/testutil"
)

func TestPipelineSmoke(t *testing.T) {
	client := testutil.NewClient()
	client.AddContainer(model.Container{ID: "db", Name: "db"},
		testutil.NewStream(false,
			[]byte("2024-01-01T00:00:01.000000000Z ready to accept connections\n"),
		))
	client.AddContainer(model.Container{ID: "webserver-1", Name: "webserver-1"},
		testutil.NewStream(false,
			[]byte("2024-01-01T00:00:02.000000000Z lis"),
			[]byte("tening on :8080\n"),
		))

	var buf bytes.Buffer
	coordinator := stream.NewCoordinator(
		client,
		config.DefaultLimits(),
		stream.NewPainter(io.Discard, true),
		stream.NewSink(&buf),
		stream.Options{Follow: false, Timestamps: true, Tail: 10},
	)
	if err := coordinator.Run(context.Background(), []string{"db", "webserver-1"}); err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", len(lines), lines)
	}

	// Chronological merge across containers.
	if !strings.HasPrefix(lines[0], "db") || !strings.HasPrefix(lines[1], "webserver-1") {
		t.Fatalf("rows out of order: %v", lines)
	}
	// Fragmented record reassembled into one row.
	if !strings.HasSuffix(lines[1], "listening on :8080") {
		t.Fatalf("fragments not reassembled: %q", lines[1])
	}
	// Shared name width aligns the separators.
	if strings.Index(lines[0], "|") != strings.Index(lines[1], "|") {
		t.Fatalf("separator columns differ:\n%q\n%q", lines[0], lines[1])
	}
	// Every stream closed after the run.
	if client.ClosedCount() != 2 {
		t.Fatalf("expected 2 streams closed, got %d", client.ClosedCount())
	}
}
