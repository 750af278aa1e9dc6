package docker

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/a-abella/docklog/internal/model"
)

// LogOptions configures a log retrieval.
type LogOptions struct {
	// Follow keeps the stream open and delivers new records as they are produced.
	Follow bool
	// Timestamps asks the daemon to prefix each line with its timestamp.
	Timestamps bool
	// Tail is the number of most-recent lines to retrieve.
	Tail int
}

// Client is the interface over container runtime log access. All methods honor
// context cancellation. The daemon address comes from DOCKER_HOST, consumed by
// the Docker CLI itself.
type Client interface {
	// Preflight checks that the daemon is reachable.
	// Returns ErrDaemonUnavailable if it cannot be contacted.
	Preflight(ctx context.Context) error

	// Resolve looks up a container by name or ID.
	// Returns ErrContainerNotFound if no such container exists.
	Resolve(ctx context.Context, identifier string) (model.Container, error)

	// Logs opens a log stream for a resolved container. The returned Stream is
	// bounded when opts.Follow is false and unbounded otherwise. The caller owns
	// the Stream and must Close it.
	Logs(ctx context.Context, container model.Container, opts LogOptions) (Stream, error)
}

// Stream yields raw log records. A record may be a complete line, a partial
// fragment, or several lines concatenated; callers must not assume alignment.
type Stream interface {
	// Next blocks until the next record arrives and returns it. It returns
	// io.EOF when the stream ends, or another error if the read fails or the
	// stream was closed underneath it.
	Next() ([]byte, error)

	// Close releases the stream. Idempotent; unblocks a pending Next.
	Close() error
}

// CLIClient implements Client using the Docker CLI via os/exec.
type CLIClient struct {
	// ChunkBytes is the record read size. Zero means a 4096-byte default.
	ChunkBytes int
}

// Preflight checks daemon reachability by running docker info.
func (c *CLIClient) Preflight(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "docker", "info")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %w", ErrDaemonUnavailable, err)
	}
	return nil
}

// Resolve looks up a container with docker inspect. docker inspect exits
// non-zero if the container does not exist.
func (c *CLIClient) Resolve(ctx context.Context, identifier string) (model.Container, error) {
	cmd := exec.CommandContext(ctx, "docker", "inspect", "--format", "{{.Name}}\t{{.Config.Tty}}", identifier)
	cmd.Stderr = io.Discard
	out, err := cmd.Output()
	if err != nil {
		return model.Container{}, fmt.Errorf("%w '%s'", ErrContainerNotFound, identifier)
	}
	container, err := parseInspect(identifier, string(out))
	if err != nil {
		return model.Container{}, fmt.Errorf("inspect %s: %w", identifier, err)
	}
	return container, nil
}

// parseInspect parses the name-tab-tty inspect format output.
func parseInspect(identifier, out string) (model.Container, error) {
	fields := strings.Split(strings.TrimSpace(out), "\t")
	if len(fields) != 2 || fields[0] == "" {
		return model.Container{}, fmt.Errorf("unexpected inspect output %q", out)
	}
	return model.Container{
		ID:   identifier,
		Name: strings.TrimPrefix(fields[0], "/"),
		TTY:  fields[1] == "true",
	}, nil
}

// logsCmdArgs returns the docker CLI arguments for a logs invocation.
func logsCmdArgs(id string, opts LogOptions) []string {
	args := []string{"logs", "--tail", strconv.Itoa(opts.Tail)}
	if opts.Follow {
		args = append(args, "--follow")
	}
	if opts.Timestamps {
		args = append(args, "--timestamps")
	}
	return append(args, id)
}

// Logs starts a docker logs process and exposes its combined output as a
// Stream. The container's stdout and stderr channels are merged into one
// record sequence, matching the single interleaved stream the daemon stores.
func (c *CLIClient) Logs(ctx context.Context, container model.Container, opts LogOptions) (Stream, error) {
	cmd := exec.CommandContext(ctx, "docker", logsCmdArgs(container.ID, opts)...)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return nil, fmt.Errorf("docker logs %s: %w", container.Name, err)
	}

	s := &cliStream{cmd: cmd, r: pr, chunk: c.ChunkBytes}
	if s.chunk <= 0 {
		s.chunk = 4096
	}

	// Reap the process and signal EOF to readers once it exits.
	go func() {
		err := cmd.Wait()
		_ = pw.CloseWithError(err)
	}()

	return s, nil
}

type cliStream struct {
	cmd   *exec.Cmd
	r     *io.PipeReader
	chunk int
	once  sync.Once
}

func (s *cliStream) Next() ([]byte, error) {
	buf := make([]byte, s.chunk)
	n, err := s.r.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	return nil, err
}

func (s *cliStream) Close() error {
	s.once.Do(func() {
		_ = s.r.Close()
		if s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
	})
	return nil
}
