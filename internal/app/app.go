// Package app wires the filter core to its adapters: stream learning and
// scanning, state resolution across the two persistence backends, and the
// follow-mode loop.
package app

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/corey/logmap/internal/domain/filter"
)

// scanBufferSize bounds a single log line. Lines beyond this fail the read
// rather than being silently split.
const scanBufferSize = 1024 * 1024

// progressEvery is the learn-mode progress reporting interval, in lines.
const progressEvery = 10000

// LearnReader feeds every line of r into the set. Returns the number of
// lines consumed. Progress is logged periodically so long imports stay
// observable.
func LearnReader(r io.Reader, set *filter.Set, log logrus.FieldLogger) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), scanBufferSize)

	lines := 0
	for scanner.Scan() {
		set.LearnLine(scanner.Text())
		lines++
		if lines%progressEvery == 0 {
			log.WithFields(logrus.Fields{
				"lines":     lines,
				"templates": set.TemplateCount(),
			}).Info("learning")
		}
	}
	if err := scanner.Err(); err != nil {
		return lines, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}

// ScanReader classifies every line of r against the set without learning.
// Lines no template accepts are written to w, one per line. Returns the
// total and unknown line counts.
func ScanReader(r io.Reader, w io.Writer, set *filter.Set) (total, unknown int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), scanBufferSize)

	for scanner.Scan() {
		line := scanner.Text()
		total++
		if !set.IsLineKnown(line) {
			unknown++
			if _, err := fmt.Fprintln(w, line); err != nil {
				return total, unknown, fmt.Errorf("write output: %w", err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return total, unknown, fmt.Errorf("read input: %w", err)
	}
	return total, unknown, nil
}
