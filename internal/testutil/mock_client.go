package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/a-abella/docklog/internal/docker"
	"github.com/a-abella/docklog/internal/model"
)

// ErrClosed is returned by a pending Next once the stream is closed.
var ErrClosed = errors.New("stream closed")

// Stream is a scripted docker.Stream. Records are handed out one per Next
// call; when they run out, Next returns io.EOF, or blocks until Close when
// follow is set.
type Stream struct {
	follow bool

	mu      sync.Mutex
	records [][]byte
	idx     int
	closed  bool
	done    chan struct{}
}

func NewStream(follow bool, records ...[]byte) *Stream {
	return &Stream{follow: follow, records: records, done: make(chan struct{})}
}

func (s *Stream) Next() ([]byte, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.idx < len(s.records) {
		rec := s.records[s.idx]
		s.idx++
		s.mu.Unlock()
		return rec, nil
	}
	s.mu.Unlock()

	if !s.follow {
		return nil, io.EOF
	}
	<-s.done
	return nil, ErrClosed
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
	return nil
}

func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Client is a scripted docker.Client backed by registered containers and
// streams. It records every stream it hands out so tests can assert that all
// of them were closed.
type Client struct {
	mu         sync.Mutex
	containers map[string]model.Container
	streams    map[string]*Stream
	resolveErr map[string]error
	opened     []*Stream
	lastOpts   docker.LogOptions
}

func NewClient() *Client {
	return &Client{
		containers: make(map[string]model.Container),
		streams:    make(map[string]*Stream),
		resolveErr: make(map[string]error),
	}
}

// AddContainer registers a resolvable container and the stream Logs returns for it.
func (c *Client) AddContainer(container model.Container, stream *Stream) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.containers[container.ID] = container
	c.streams[container.ID] = stream
}

// FailResolve makes Resolve fail for the given identifier.
func (c *Client) FailResolve(identifier string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolveErr[identifier] = err
}

func (c *Client) Preflight(ctx context.Context) error {
	return nil
}

func (c *Client) Resolve(ctx context.Context, identifier string) (model.Container, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.resolveErr[identifier]; err != nil {
		return model.Container{}, err
	}
	container, ok := c.containers[identifier]
	if !ok {
		return model.Container{}, fmt.Errorf("%w '%s'", docker.ErrContainerNotFound, identifier)
	}
	return container, nil
}

func (c *Client) Logs(ctx context.Context, container model.Container, opts docker.LogOptions) (docker.Stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stream, ok := c.streams[container.ID]
	if !ok {
		return nil, fmt.Errorf("no stream registered for %s", container.ID)
	}
	c.lastOpts = opts
	c.opened = append(c.opened, stream)
	return stream, nil
}

// OpenedCount returns how many streams Logs handed out.
func (c *Client) OpenedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.opened)
}

// ClosedCount returns how many handed-out streams have been closed.
func (c *Client) ClosedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, s := range c.opened {
		if s.Closed() {
			count++
		}
	}
	return count
}

// LastOptions returns the LogOptions from the most recent Logs call.
func (c *Client) LastOptions() docker.LogOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastOpts
}
