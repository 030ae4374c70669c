// Package events defines the terminal event list produced by the
// detection stages and its text representation: one timestamp per
// line in seconds, optionally followed by a salience column, strictly
// ascending.
package events

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Event is one detected onset or beat.
type Event struct {
	// Time is the event position in seconds.
	Time float64
	// Salience is an optional non-negative relative confidence.
	Salience float64
}

// List is an ordered sequence of events.
type List []Event

// Times returns the timestamps of all events.
func (l List) Times() []float64 {
	out := make([]float64, len(l))
	for i, e := range l {
		out[i] = e.Time
	}

	return out
}

// Validate checks that timestamps are strictly increasing.
func (l List) Validate() error {
	for i := 1; i < len(l); i++ {
		if l[i].Time <= l[i-1].Time {
			return fmt.Errorf("%w: %f after %f at index %d",
				ErrNotAscending, l[i].Time, l[i-1].Time, i)
		}
	}

	return nil
}

// Encode writes the list to w, one event per line. With salience set,
// a second column carries each event's salience.
func Encode(l List, w io.Writer, salience bool) error {
	if err := l.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for _, e := range l {
		var err error
		if salience {
			_, err = fmt.Fprintf(bw, "%.6f\t%.6f\n", e.Time, e.Salience)
		} else {
			_, err = fmt.Fprintf(bw, "%.6f\n", e.Time)
		}

		if err != nil {
			return fmt.Errorf("events: encode: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("events: encode: %w", err)
	}

	return nil
}

// Decode reads a list from r. Blank lines are skipped; a missing
// salience column decodes as zero.
func Decode(r io.Reader) (List, error) {
	var out List

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++

		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) > 2 {
			return nil, fmt.Errorf("%w: line %d has %d columns", ErrFormat, line, len(fields))
		}

		timeVal, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
		}

		e := Event{Time: timeVal}
		if len(fields) == 2 {
			e.Salience, err = strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
			}
		}

		out = append(out, e)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("events: decode: %w", err)
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}

	return out, nil
}
