// Package trace implements the line format used to ship captured
// traces to host-side tooling: one "<elapsed_ms>,<value>" line per
// sample, in capture order, closed by a literal "#STOP#" line.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Panzon1496/405Labs/internal/closedloop"
)

// Terminator is the literal line that ends a trace stream. Downstream
// capture tools key on it; do not change it.
const Terminator = "#STOP#"

// Write emits samples in order followed by the terminator line.
func Write(w io.Writer, samples []closedloop.Sample) error {
	bw := bufio.NewWriter(w)
	for _, s := range samples {
		value := strconv.FormatFloat(s.Value, 'g', -1, 64)
		if _, err := fmt.Fprintf(bw, "%d,%s\n", s.ElapsedMS, value); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(bw, Terminator); err != nil {
		return err
	}
	return bw.Flush()
}

// Read consumes sample lines until the terminator. A stream that ends
// before the terminator yields io.ErrUnexpectedEOF. Blank lines are
// skipped; serial links tend to inject them.
func Read(r io.Reader) ([]closedloop.Sample, error) {
	sc := bufio.NewScanner(r)
	samples := make([]closedloop.Sample, 0, closedloop.TraceCapacity)

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == Terminator {
			return samples, nil
		}
		if line == "" {
			continue
		}

		ms, value, ok := strings.Cut(line, ",")
		if !ok {
			return nil, fmt.Errorf("trace: malformed line %q", line)
		}
		elapsed, err := strconv.ParseInt(ms, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("trace: bad timestamp in %q: %w", line, err)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("trace: bad value in %q: %w", line, err)
		}
		samples = append(samples, closedloop.Sample{ElapsedMS: elapsed, Value: v})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.ErrUnexpectedEOF
}

// Sink adapts a line stream into a closedloop.TraceSink. Write errors
// are swallowed; the sink sits in the controller's update path where
// there is no one to report them to.
func Sink(w io.Writer) closedloop.TraceSink {
	return func(samples []closedloop.Sample) {
		_ = Write(w, samples)
	}
}
