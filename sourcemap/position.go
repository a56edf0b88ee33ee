// Copyright © 2024 The ELPS authors

package sourcemap

import "github.com/luthersystems/lispc/parser/token"

// Position is a point in a text file.  Line is 1-based and Column is a
// 0-based byte offset in the line.  The zero Position means no position.
type Position struct {
	Line   int
	Column int
}

// FromLocation converts a source location to a Position.
func FromLocation(loc token.Location) Position {
	if !loc.IsValid() {
		return Position{}
	}
	return Position{Line: loc.Line, Column: max(loc.Col-1, 0)}
}

// IsValid reports whether p refers to a line.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) less(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}
