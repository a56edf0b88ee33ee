// Copyright © 2024 The ELPS authors

package rdparser

import (
	"github.com/luthersystems/lispc/form"
	"github.com/luthersystems/lispc/parser/token"
)

// Comment is a line comment.  Text includes the leading semicolons, or the
// #! of a hash-bang line.
type Comment struct {
	Text   string
	Source token.Location
	// Blank is set when a blank line separates the comment from the text
	// before it.
	Blank bool
}

// Layout holds what forms do not record about their source: comments, blank
// lines, the spelling of literals and quote shorthand.  Entries are keyed by
// form location.  A nil *Layout is empty.
type Layout struct {
	leading   map[token.Location][]Comment
	trailing  map[token.Location]Comment
	closing   map[token.Location][]Comment
	blank     map[token.Location]bool
	spelling  map[token.Location]string
	shorthand map[token.Location]bool
	files     []token.Location
}

// NewLayout returns an empty Layout.  Layouts of several files are combined
// with Merge.
func NewLayout() *Layout {
	return &Layout{
		leading:   make(map[token.Location][]Comment),
		trailing:  make(map[token.Location]Comment),
		closing:   make(map[token.Location][]Comment),
		blank:     make(map[token.Location]bool),
		spelling:  make(map[token.Location]string),
		shorthand: make(map[token.Location]bool),
	}
}

// FileKey returns the key identifying the file that holds loc.
func FileKey(loc token.Location) token.Location {
	return token.Location{File: loc.File, Path: loc.Path}
}

// Leading returns the comments on the lines before f.
func (l *Layout) Leading(f form.Form) []Comment {
	if l == nil {
		return nil
	}
	return l.leading[f.Loc()]
}

// Trailing returns the comment following f on the line where f ends.
func (l *Layout) Trailing(f form.Form) (Comment, bool) {
	if l == nil {
		return Comment{}, false
	}
	c, ok := l.trailing[f.Loc()]
	return c, ok
}

// Closing returns the comments between the last element of a list or map
// and its closing bracket.
func (l *Layout) Closing(f form.Form) []Comment {
	if l == nil {
		return nil
	}
	return l.closing[f.Loc()]
}

// EndOfFile returns the comments after the last form of the file holding
// loc.
func (l *Layout) EndOfFile(loc token.Location) []Comment {
	if l == nil {
		return nil
	}
	return l.closing[FileKey(loc)]
}

// Files returns the keys of the files read, in order.  Each key is accepted
// by EndOfFile.
func (l *Layout) Files() []token.Location {
	if l == nil {
		return nil
	}
	return l.files
}

// BlankBefore reports whether a blank line separates f from the text before
// it, which is its last leading comment when it has any.
func (l *Layout) BlankBefore(f form.Form) bool {
	return l != nil && l.blank[f.Loc()]
}

// Spelling returns the source text of a literal whose printed form may
// differ from it: strings, floats and radix integers.
func (l *Layout) Spelling(f form.Form) (string, bool) {
	if l == nil {
		return "", false
	}
	s, ok := l.spelling[f.Loc()]
	return s, ok
}

// Shorthand reports whether f is a quote list written as 'x.
func (l *Layout) Shorthand(f form.Form) bool {
	return l != nil && l.shorthand[f.Loc()]
}

// HasComments reports whether any comment is attached to f or to a form
// nested in it.
func (l *Layout) HasComments(f form.Form) bool {
	if l == nil {
		return false
	}
	loc := f.Loc()
	if len(l.leading[loc]) > 0 || len(l.closing[loc]) > 0 {
		return true
	}
	if _, ok := l.trailing[loc]; ok {
		return true
	}
	switch f := f.(type) {
	case *form.List:
		for _, x := range f.Elems() {
			if l.HasComments(x) {
				return true
			}
		}
	case *form.Map:
		for _, pair := range f.Pairs() {
			if l.HasComments(pair.Key) || l.HasComments(pair.Value) {
				return true
			}
		}
	}
	return false
}

// Merge adds the entries of other to l.
func (l *Layout) Merge(other *Layout) {
	if other == nil {
		return
	}
	for k, v := range other.leading {
		l.leading[k] = v
	}
	for k, v := range other.trailing {
		l.trailing[k] = v
	}
	for k, v := range other.closing {
		l.closing[k] = v
	}
	for k, v := range other.blank {
		l.blank[k] = v
	}
	for k, v := range other.spelling {
		l.spelling[k] = v
	}
	for k, v := range other.shorthand {
		l.shorthand[k] = v
	}
	l.files = append(l.files, other.files...)
}
