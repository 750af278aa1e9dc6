package stream

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/a-abella/docklog/internal/model"
)

// record is the result of probing one raw chunk: either it decoded as complete
// text or it is an unaligned byte fragment. Line-buffered transports produce
// the former, raw TTY transports the latter; a single stream may mix both, so
// each record is classified on arrival.
type record struct {
	text    string
	raw     []byte
	decoded bool
}

func classify(chunk []byte) record {
	if len(chunk) > 0 && utf8.Valid(chunk) {
		last := chunk[len(chunk)-1]
		if last == '\n' || last == '\r' {
			return record{text: string(chunk), decoded: true}
		}
	}
	return record{raw: chunk}
}

// Reconstructor turns raw record chunks into complete logical lines,
// splitting the timestamp token from the body when timestamps are requested.
// Not safe for concurrent use; each worker owns one.
type Reconstructor struct {
	timestamps bool
	maxLine    int
	fragment   []byte
}

func NewReconstructor(timestamps bool, maxLineBytes int) *Reconstructor {
	if maxLineBytes <= 0 {
		maxLineBytes = 65536
	}
	return &Reconstructor{timestamps: timestamps, maxLine: maxLineBytes}
}

// Feed consumes one raw record and returns the logical lines it completed, in
// arrival order. A decoded record may carry several lines; a fragment record
// accumulates until a later record delivers a line terminator.
func (r *Reconstructor) Feed(chunk []byte) []model.Line {
	rec := classify(chunk)

	if rec.decoded && len(r.fragment) == 0 {
		lines, _ := r.split([]byte(rec.text))
		return lines
	}

	raw := rec.raw
	if rec.decoded {
		raw = []byte(rec.text)
	}
	r.fragment = append(r.fragment, raw...)

	lines, rest := r.split(r.fragment)
	r.fragment = append(r.fragment[:0], rest...)
	return lines
}

// Flush drains a trailing unterminated fragment, for streams that end without
// a final terminator.
func (r *Reconstructor) Flush() []model.Line {
	if len(r.fragment) == 0 {
		return nil
	}
	text := string(r.fragment)
	r.fragment = r.fragment[:0]
	if line, ok := r.build(text); ok {
		return []model.Line{line}
	}
	return nil
}

// split cuts buf at line terminators, building one Line per terminated
// segment, and returns the unterminated tail.
func (r *Reconstructor) split(buf []byte) ([]model.Line, []byte) {
	var lines []model.Line
	for {
		i := bytes.IndexAny(buf, "\n\r")
		if i < 0 {
			return lines, buf
		}
		if line, ok := r.build(string(buf[:i])); ok {
			lines = append(lines, line)
		}
		buf = buf[i+1:]
	}
}

// build produces a logical line from one terminated segment. Empty segments
// are dropped rather than formatted.
func (r *Reconstructor) build(text string) (model.Line, bool) {
	if strings.TrimSpace(text) == "" {
		return model.Line{}, false
	}
	if len(text) > r.maxLine {
		text = text[:r.maxLine]
	}
	if !r.timestamps {
		return model.Line{Body: text}, true
	}
	timestamp, body := splitTimestamp(text)
	return model.Line{Timestamp: timestamp, Body: body}, true
}

// splitTimestamp separates the daemon's timestamp prefix from the line body at
// the first whitespace run. The token must carry the trailing Z marker;
// anything else is treated as body text with no timestamp.
func splitTimestamp(text string) (string, string) {
	i := strings.IndexAny(text, " \t")
	if i < 0 {
		if strings.HasSuffix(text, "Z") {
			return text, ""
		}
		return "", text
	}
	token := text[:i]
	if !strings.HasSuffix(token, "Z") {
		return "", text
	}
	return token, strings.TrimLeft(text[i:], " \t")
}
