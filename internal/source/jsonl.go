package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/keypress/internal/input/key"
	"github.com/dshills/keypress/internal/logging"
)

// maxLineSize bounds a single JSON line.
const maxLineSize = 64 * 1024

// JSONLStats counts what a JSON-lines feed has read.
type JSONLStats struct {
	Lines     uint64
	Emitted   uint64
	Skipped   uint64
	Malformed uint64
}

// JSONLines replays browser-style KeyboardEvent objects, one JSON object per
// line:
//
//	{"type":"keydown","code":"KeyA","ctrlKey":false,"shiftKey":true,"altKey":false,"timeStamp":1532.4}
//
// Objects whose type is not "keydown" are skipped. A missing type is treated
// as keydown. Lines that are not valid JSON or lack a code are counted and
// skipped.
//
// When lines carry a numeric timeStamp (milliseconds, as recorded by a
// browser) delivery is paced to reproduce the recorded gaps, measured from
// the first stamped line. Lines without one are delivered at once.
type JSONLines struct {
	open   func() (io.ReadCloser, error)
	name   string
	logger *slog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool

	lines     atomic.Uint64
	emitted   atomic.Uint64
	skipped   atomic.Uint64
	malformed atomic.Uint64
}

// NewJSONLines returns a feed reading r. r is not closed.
func NewJSONLines(r io.Reader, logger *slog.Logger) *JSONLines {
	return newJSONLines("stdin", func() (io.ReadCloser, error) {
		return io.NopCloser(r), nil
	}, logger)
}

func newJSONLines(name string, open func() (io.ReadCloser, error), logger *slog.Logger) *JSONLines {
	if logger == nil {
		logger = logging.Discard()
	}
	return &JSONLines{
		open:   open,
		name:   name,
		logger: logger,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// Name implements Source.
func (j *JSONLines) Name() string {
	return "jsonl"
}

// Stats returns the line counters.
func (j *JSONLines) Stats() JSONLStats {
	return JSONLStats{
		Lines:     j.lines.Load(),
		Emitted:   j.emitted.Load(),
		Skipped:   j.skipped.Load(),
		Malformed: j.malformed.Load(),
	}
}

// Run implements Source. It returns nil at end of input and as soon as ctx
// is cancelled, even while a read is blocked.
func (j *JSONLines) Run(ctx context.Context, sink Sink) error {
	rc, err := j.open()
	if err != nil {
		return fmt.Errorf("open %s: %w", j.name, err)
	}
	defer rc.Close()

	done := make(chan struct{})
	defer close(done)
	lines, scanErr := scanLines(rc, done)

	var pace pacer
	lineNo := 0
	for {
		if ctx.Err() != nil {
			return nil
		}

		var line []byte
		var more bool
		select {
		case <-ctx.Done():
			// A reader that cannot be closed (stdin) leaves the scanner
			// blocked until its next line; it exits once it sees done.
			return nil
		case line, more = <-lines:
		}
		if !more {
			break
		}
		lineNo++

		if len(line) == 0 {
			continue
		}
		j.lines.Add(1)

		ev, ok, err := parseKeyboardEvent(line)
		if err != nil {
			j.malformed.Add(1)
			j.logger.Warn("malformed line", "input", j.name, "line", lineNo, "error", err)
			continue
		}
		if !ok {
			j.skipped.Add(1)
			continue
		}

		if stamp, ok := lineStamp(line); ok {
			at, ok := pace.wait(ctx, j, stamp)
			if !ok {
				return nil
			}
			ev.Timestamp = at
		}

		if err := sink.KeyDown(ctx, ev); err != nil {
			return fmt.Errorf("deliver line %d: %w", lineNo, err)
		}
		j.emitted.Add(1)
	}

	if err := <-scanErr; err != nil {
		return fmt.Errorf("read %s: %w", j.name, err)
	}
	return nil
}

// scanLines reads r on its own goroutine. The lines channel is closed at end
// of input, after the read error (nil at EOF) is sent on errc. Closing done
// stops the goroutine at its next line.
func scanLines(r io.Reader, done <-chan struct{}) (<-chan []byte, <-chan error) {
	lines := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
		for scanner.Scan() {
			select {
			case lines <- bytes.Clone(scanner.Bytes()):
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

// pacer maps recorded timestamps onto the wall clock. The first stamped line
// is delivered immediately and fixes the origin.
type pacer struct {
	started bool
	origin  time.Duration
	start   time.Time
}

// wait blocks until the wall-clock time matching stamp and returns it. ok is
// false when ctx was cancelled first. Stamps earlier than the previous one
// are delivered without waiting.
func (p *pacer) wait(ctx context.Context, j *JSONLines, stamp time.Duration) (at time.Time, ok bool) {
	if !p.started {
		p.started = true
		p.origin = stamp
		p.start = j.now()
		return p.start, true
	}

	at = p.start.Add(stamp - p.origin)
	if d := at.Sub(j.now()); d > 0 {
		if !j.sleep(ctx, d) {
			return at, false
		}
	}
	return at, true
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// lineStamp returns the line's timeStamp field as an offset. Non-numeric or
// negative values count as absent.
func lineStamp(line []byte) (time.Duration, bool) {
	ts := gjson.GetBytes(line, "timeStamp")
	if ts.Type != gjson.Number || ts.Float() < 0 {
		return 0, false
	}
	return time.Duration(ts.Float() * float64(time.Millisecond)), true
}

// parseKeyboardEvent decodes one line. ok is false for well-formed events
// that are not key-downs.
func parseKeyboardEvent(line []byte) (ev key.Event, ok bool, err error) {
	if !gjson.ValidBytes(line) {
		return ev, false, errors.New("invalid JSON")
	}
	res := gjson.ParseBytes(line)
	if !res.IsObject() {
		return ev, false, errors.New("not an object")
	}

	fields := gjson.GetManyBytes(line, "type", "code", "ctrlKey", "shiftKey", "altKey")
	typ, code := fields[0], fields[1]

	if typ.Exists() && typ.String() != "keydown" {
		return ev, false, nil
	}
	if code.Type != gjson.String || code.String() == "" {
		return ev, false, errors.New("missing code")
	}

	mods := key.Modifiers(fields[2].Bool(), fields[3].Bool(), fields[4].Bool())
	return key.NewEvent(key.Code(code.String()), mods), true, nil
}
