package model

// Container is a resolved container reference. Resolved once at startup and
// immutable afterwards.
type Container struct {
	// ID is the identifier the container was resolved from (name or ID).
	ID string
	// Name is the canonical container name with the leading slash stripped.
	Name string
	// TTY reports whether the container allocates a pseudo-TTY. TTY containers
	// deliver log records as raw byte fragments rather than whole lines.
	TTY bool
}

// ColorToken is an ANSI SGR foreground code assigned to a container for the
// duration of a run. Normal-intensity tokens live in 31..35, bright-intensity
// tokens in 91..94.
type ColorToken int

// Bright reports whether the token comes from the bright-intensity pool.
func (t ColorToken) Bright() bool {
	return t >= 91
}

// Line is a reconstructed logical log line.
type Line struct {
	// Timestamp is the extracted timestamp token, empty when timestamps were
	// not requested or the line carried none.
	Timestamp string
	Body      string
}
