// Copyright © 2024 The ELPS authors

package sourcemap

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrEmptySegment is returned for a segment with no digits.
	ErrEmptySegment = errors.New("empty segment")
	// ErrFieldCount is returned for a segment that does not hold one, four
	// or five values.
	ErrFieldCount = errors.New("segment must hold 1, 4 or 5 values")
	// ErrNegative is returned when accumulated deltas produce a negative
	// position or index.
	ErrNegative = errors.New("negative value")
)

// CorruptMappingError is returned when mappings cannot be decoded.  Line and
// Segment are 1-based.
type CorruptMappingError struct {
	Line    int
	Segment int
	Err     error
}

func (e *CorruptMappingError) Error() string {
	return fmt.Sprintf("corrupt mappings: line %d segment %d: %v", e.Line, e.Segment, e.Err)
}

func (e *CorruptMappingError) Unwrap() error {
	return e.Err
}

// Segment is one decoded mapping with absolute values.  OriginalLine is
// 1-based.  Segments without an original position have HasSource false and
// a NameIndex of -1.
type Segment struct {
	GeneratedColumn int
	HasSource       bool
	SourceIndex     int
	OriginalLine    int
	OriginalColumn  int
	NameIndex       int
}

// Consumer answers queries against decoded mappings.  A Consumer is
// immutable and safe for concurrent use.
type Consumer struct {
	lines   map[int][]Segment
	sources []string
	names   []string
}

// Decode decodes mappings.  Decoding fails as a whole on the first corrupt
// segment because every later value is relative to it.
func Decode(mappings string) (*Consumer, error) {
	c := &Consumer{lines: make(map[int][]Segment)}
	var abs [5]int
	for i, line := range strings.Split(mappings, ";") {
		if line == "" {
			continue
		}
		for j, seg := range strings.Split(line, ",") {
			s, err := decodeSegment(seg, &abs)
			if err != nil {
				return nil, &CorruptMappingError{Line: i + 1, Segment: j + 1, Err: err}
			}
			c.lines[i+1] = append(c.lines[i+1], s)
		}
	}
	return c, nil
}

// decodeSegment adds the deltas in seg to abs and returns the resulting
// segment.
func decodeSegment(seg string, abs *[5]int) (Segment, error) {
	if seg == "" {
		return Segment{}, ErrEmptySegment
	}
	deltas, err := DecodeVLQ(seg)
	if err != nil {
		return Segment{}, err
	}
	switch len(deltas) {
	case 1, 4, 5:
	default:
		return Segment{}, fmt.Errorf("%w, got %d", ErrFieldCount, len(deltas))
	}
	for k, d := range deltas {
		abs[k] += d
		if abs[k] < 0 {
			return Segment{}, ErrNegative
		}
	}
	s := Segment{GeneratedColumn: abs[0], NameIndex: -1}
	if len(deltas) >= 4 {
		s.HasSource = true
		s.SourceIndex = abs[1]
		s.OriginalLine = abs[2] + 1
		s.OriginalColumn = abs[3]
	}
	if len(deltas) == 5 {
		s.NameIndex = abs[4]
	}
	return s, nil
}

// Lookup returns the segment on generated line genLine with the lowest
// original line.  Among segments with equal original lines the first one
// decoded is returned.
func (c *Consumer) Lookup(genLine int) (Segment, bool) {
	var best Segment
	found := false
	for _, s := range c.lines[genLine] {
		if !s.HasSource {
			continue
		}
		if !found || s.OriginalLine < best.OriginalLine {
			best, found = s, true
		}
	}
	return best, found
}

// OriginalLine returns the lowest original line mapped from generated line
// genLine.  It returns false if no segment on the line has an original
// position.
func (c *Consumer) OriginalLine(genLine int) (int, bool) {
	s, ok := c.Lookup(genLine)
	return s.OriginalLine, ok
}

// Lines returns the sorted generated lines holding at least one segment.
func (c *Consumer) Lines() []int {
	lines := make([]int, 0, len(c.lines))
	for line := range c.lines {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// Segments returns the segments of generated line genLine in decoded order.
func (c *Consumer) Segments(genLine int) []Segment {
	return append([]Segment(nil), c.lines[genLine]...)
}

// Source returns the name of source i, or the empty string when the
// consumer was not built from a File or i is out of range.
func (c *Consumer) Source(i int) string {
	if i < 0 || i >= len(c.sources) {
		return ""
	}
	return c.sources[i]
}

// Name returns name i, or the empty string when i is out of range.
func (c *Consumer) Name(i int) string {
	if i < 0 || i >= len(c.names) {
		return ""
	}
	return c.names[i]
}
