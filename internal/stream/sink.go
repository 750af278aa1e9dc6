package stream

import (
	"fmt"
	"io"
	"sync"
)

// Sink serializes formatted rows onto one writer. Each row is written as one
// atomic unit, so concurrent workers never tear each other's lines.
type Sink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

func (s *Sink) WriteRow(row string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, row)
}
