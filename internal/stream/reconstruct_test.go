package stream

import (
	"reflect"
	"testing"

	"github.com/a-abella/docklog/internal/model"
)

func feedAll(t *testing.T, r *Reconstructor, records ...[]byte) []model.Line {
	t.Helper()
	var lines []model.Line
	for _, rec := range records {
		lines = append(lines, r.Feed(rec)...)
	}
	return append(lines, r.Flush()...)
}

func TestFeedWholeLineSplitsTimestamp(t *testing.T) {
	r := NewReconstructor(true, 0)
	lines := feedAll(t, r, []byte("2024-01-01T00:00:00.000000000Z hello\n"))
	want := []model.Line{{Timestamp: "2024-01-01T00:00:00.000000000Z", Body: "hello"}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("got %+v, want %+v", lines, want)
	}
}

func TestFeedFragmentsMatchWholeLine(t *testing.T) {
	whole := feedAll(t, NewReconstructor(true, 0), []byte("2024-01-01T00:00:00.000000000Z hello\n"))
	split := feedAll(t, NewReconstructor(true, 0),
		[]byte("2024-01-01T00:00:00.000000000Z hel"),
		[]byte("lo\n"),
	)
	if !reflect.DeepEqual(split, whole) {
		t.Fatalf("fragment feed %+v differs from whole-line feed %+v", split, whole)
	}
}

func TestFeedArbitrarySplitBoundaries(t *testing.T) {
	content := "2024-01-01T00:00:01.000000000Z first line\n2024-01-01T00:00:02.000000000Z second\nthird without stamp\n"
	want := feedAll(t, NewReconstructor(true, 0), []byte(content))

	for cut := 1; cut < len(content); cut++ {
		got := feedAll(t, NewReconstructor(true, 0), []byte(content[:cut]), []byte(content[cut:]))
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("split at %d: got %+v, want %+v", cut, got, want)
		}
	}
}

func TestFeedMultipleLinesInOneRecord(t *testing.T) {
	r := NewReconstructor(false, 0)
	lines := r.Feed([]byte("one\ntwo\nthree\n"))
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].Body != "one" || lines[2].Body != "three" {
		t.Fatalf("unexpected bodies: %+v", lines)
	}
}

func TestFeedSkipsEmptyLines(t *testing.T) {
	r := NewReconstructor(true, 0)
	if lines := r.Feed([]byte("\n\r\n  \n")); len(lines) != 0 {
		t.Fatalf("expected no lines for blank input, got %+v", lines)
	}
}

func TestFeedTimestampOnlyLine(t *testing.T) {
	r := NewReconstructor(true, 0)
	lines := r.Feed([]byte("2024-01-01T00:00:00.000000000Z\n"))
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Timestamp != "2024-01-01T00:00:00.000000000Z" || lines[0].Body != "" {
		t.Fatalf("unexpected line: %+v", lines[0])
	}
}

func TestFeedNoTimestampMode(t *testing.T) {
	r := NewReconstructor(false, 0)
	lines := r.Feed([]byte("2024-01-01T00:00:00.000000000Z hello\n"))
	if len(lines) != 1 || lines[0].Timestamp != "" {
		t.Fatalf("expected plain body, got %+v", lines)
	}
	if lines[0].Body != "2024-01-01T00:00:00.000000000Z hello" {
		t.Fatalf("body altered: %q", lines[0].Body)
	}
}

func TestFeedFirstWordNotTimestamp(t *testing.T) {
	r := NewReconstructor(true, 0)
	lines := r.Feed([]byte("plain body text\n"))
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Timestamp != "" || lines[0].Body != "plain body text" {
		t.Fatalf("unexpected split: %+v", lines[0])
	}
}

func TestFlushDrainsUnterminatedFragment(t *testing.T) {
	r := NewReconstructor(false, 0)
	if lines := r.Feed([]byte("no newline yet")); len(lines) != 0 {
		t.Fatalf("fragment completed early: %+v", lines)
	}
	lines := r.Flush()
	if len(lines) != 1 || lines[0].Body != "no newline yet" {
		t.Fatalf("flush lost the fragment: %+v", lines)
	}
	if extra := r.Flush(); len(extra) != 0 {
		t.Fatalf("second flush produced lines: %+v", extra)
	}
}

func TestCarriageReturnTerminatesLine(t *testing.T) {
	r := NewReconstructor(false, 0)
	lines := feedAll(t, r, []byte("progress 50%"), []byte("\rprogress 100%\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %+v", lines)
	}
	if lines[0].Body != "progress 50%" || lines[1].Body != "progress 100%" {
		t.Fatalf("unexpected bodies: %+v", lines)
	}
}

func TestBuildTruncatesOverlongLines(t *testing.T) {
	r := NewReconstructor(false, 8)
	lines := r.Feed([]byte("0123456789abcdef\n"))
	if len(lines) != 1 || lines[0].Body != "01234567" {
		t.Fatalf("expected truncation to 8 bytes, got %+v", lines)
	}
}

func TestClassifyTaggedVariant(t *testing.T) {
	if rec := classify([]byte("a line\n")); !rec.decoded {
		t.Fatal("terminated text chunk should decode")
	}
	if rec := classify([]byte("partial")); rec.decoded {
		t.Fatal("unterminated chunk should be a fragment")
	}
	if rec := classify([]byte{0xff, 0xfe, '\n'}); rec.decoded {
		t.Fatal("invalid utf-8 should be a fragment")
	}
}
