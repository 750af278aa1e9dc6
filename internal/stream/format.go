package stream

import (
	"strings"

	"github.com/a-abella/docklog/internal/model"
)

const separator = "  |  "

// Padding constants added past the name column. The larger no-timestamp pad
// compensates for the width the timestamp column would otherwise occupy.
const (
	padWithTimestamps = 8
	padPlain          = 14
)

// Formatter renders logical lines into column-aligned display rows. All rows
// share the session-wide name width so separators land in the same column for
// every container.
type Formatter struct {
	painter    *Painter
	nameWidth  int
	timestamps bool
}

func NewFormatter(painter *Painter, bigNameWidth int, timestamps bool) *Formatter {
	return &Formatter{painter: painter, nameWidth: bigNameWidth, timestamps: timestamps}
}

func (f *Formatter) Format(name string, token model.ColorToken, line model.Line) string {
	pad := f.nameWidth - len(name)
	if f.timestamps {
		pad += padWithTimestamps
	} else {
		pad += padPlain
	}

	var b strings.Builder
	b.WriteString(f.painter.Paint(name, token))
	b.WriteString(strings.Repeat(" ", pad))
	if line.Timestamp != "" {
		b.WriteString(line.Timestamp)
	}
	b.WriteString(separator)
	b.WriteString(line.Body)
	return b.String()
}
