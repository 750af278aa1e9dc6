package stream

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/a-abella/docklog/internal/config"
	"github.com/a-abella/docklog/internal/docker"
	"github.com/a-abella/docklog/internal/model"
)

// Options is the per-run configuration resolved from flags and the config file.
type Options struct {
	// Follow streams new output live; false collects a snapshot and exits.
	Follow     bool
	Timestamps bool
	Tail       int
	NoColor    bool
}

type worker struct {
	container model.Container
	stream    docker.Stream
	token     model.ColorToken
}

// Coordinator owns a session: it resolves containers, opens their log streams,
// assigns colors, runs one worker per container, and guarantees every stream
// is closed on every exit path.
type Coordinator struct {
	client  docker.Client
	limits  config.Limits
	painter *Painter
	sink    *Sink
	opts    Options

	mu      sync.Mutex
	streams []docker.Stream
	drained bool
}

func NewCoordinator(client docker.Client, limits config.Limits, painter *Painter, sink *Sink, opts Options) *Coordinator {
	return &Coordinator{
		client:  client,
		limits:  limits,
		painter: painter,
		sink:    sink,
		opts:    opts,
	}
}

// Run executes one session. The first resolution or connection failure aborts
// the whole run; everything already open is closed before returning. A
// canceled ctx drains the session and returns nil.
func (c *Coordinator) Run(ctx context.Context, identifiers []string) error {
	defer c.Drain()

	workers, err := c.open(ctx, identifiers)
	if err != nil {
		return err
	}

	// Colors are allocated in input order, and the shared name width must be
	// final before the first row is formatted.
	alloc := NewAllocator(c.limits.ColorRetryLimit, time.Now().UnixNano())
	width := 0
	for _, w := range workers {
		w.token = alloc.Next()
		if len(w.container.Name) > width {
			width = len(w.container.Name)
		}
	}
	formatter := NewFormatter(c.painter, width, c.opts.Timestamps)

	if c.opts.Follow {
		c.streamAll(ctx, workers, formatter)
	} else {
		c.collectAll(workers, formatter)
	}
	return nil
}

// open resolves every identifier and opens its log stream. Streams are
// tracked as they open so a mid-loop failure still gets them all closed.
func (c *Coordinator) open(ctx context.Context, identifiers []string) ([]*worker, error) {
	opts := docker.LogOptions{
		Follow:     c.opts.Follow,
		Timestamps: c.opts.Timestamps,
		Tail:       c.opts.Tail,
	}
	workers := make([]*worker, 0, len(identifiers))
	for _, id := range identifiers {
		container, err := c.client.Resolve(ctx, id)
		if err != nil {
			return nil, err
		}
		stream, err := c.client.Logs(ctx, container, opts)
		if err != nil {
			return nil, err
		}
		c.track(stream)
		workers = append(workers, &worker{container: container, stream: stream})
	}
	return workers, nil
}

// streamAll runs live mode: one worker goroutine per container writing to the
// shared sink. Cancellation is broadcast by draining the session, which
// unblocks every pending read.
func (c *Coordinator) streamAll(ctx context.Context, workers []*worker, formatter *Formatter) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.Drain()
		case <-done:
		}
	}()

	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func(w *worker) {
			defer wg.Done()
			c.follow(w, formatter)
		}(w)
	}
	wg.Wait()
}

// follow pulls records from one container until EOF, a read failure, or
// cancellation. All three are a clean stop for this worker only.
func (c *Coordinator) follow(w *worker, formatter *Formatter) {
	rec := NewReconstructor(c.opts.Timestamps, c.limits.MaxLineBytes)
	emit := func(lines []model.Line) {
		for _, line := range lines {
			c.sink.WriteRow(formatter.Format(w.container.Name, w.token, line))
		}
	}
	for {
		chunk, err := w.stream.Next()
		if len(chunk) > 0 {
			emit(rec.Feed(chunk))
		}
		if err != nil {
			emit(rec.Flush())
			return
		}
	}
}

type collected struct {
	worker *worker
	line   model.Line
}

// collectAll runs static mode: drain every container's bounded snapshot, then
// print the combined sequence, sorted by the extracted timestamp when
// timestamps are on. The sort key is the reconstructor's timestamp field, not
// a re-parse of formatted text.
func (c *Coordinator) collectAll(workers []*worker, formatter *Formatter) {
	var entries []collected
	for _, w := range workers {
		rec := NewReconstructor(c.opts.Timestamps, c.limits.MaxLineBytes)
		gather := func(lines []model.Line) {
			for _, line := range lines {
				entries = append(entries, collected{worker: w, line: line})
			}
		}
		for {
			chunk, err := w.stream.Next()
			if len(chunk) > 0 {
				gather(rec.Feed(chunk))
			}
			if err != nil {
				gather(rec.Flush())
				break
			}
		}
	}

	if c.opts.Timestamps {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].line.Timestamp < entries[j].line.Timestamp
		})
	}
	for _, e := range entries {
		c.sink.WriteRow(formatter.Format(e.worker.container.Name, e.worker.token, e.line))
	}
}

func (c *Coordinator) track(s docker.Stream) {
	c.mu.Lock()
	c.streams = append(c.streams, s)
	c.mu.Unlock()
}

// Drain closes every open stream. Idempotent; safe from any goroutine.
func (c *Coordinator) Drain() {
	c.mu.Lock()
	if c.drained {
		c.mu.Unlock()
		return
	}
	c.drained = true
	streams := c.streams
	c.streams = nil
	c.mu.Unlock()

	for _, s := range streams {
		_ = s.Close()
	}
}
