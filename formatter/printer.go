// Copyright © 2024 The ELPS authors

package formatter

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/lispc/form"
	"github.com/luthersystems/lispc/parser/rdparser"
	"github.com/luthersystems/lispc/parser/token"
	canon "github.com/luthersystems/lispc/printer"
	"github.com/luthersystems/lispc/sourcemap"
)

type printer struct {
	buf          bytes.Buffer
	cfg          *Config
	layout       *rdparser.Layout
	gen          *sourcemap.Generator
	line         int  // current line (1-indexed)
	col          int  // current column (0-indexed)
	atBOL        bool // at beginning of line (nothing written on current line)
	afterComment bool // the current line ends in a comment
	err          error
}

func newPrinter(cfg *Config, layout *rdparser.Layout, gen *sourcemap.Generator) *printer {
	return &printer{
		cfg:    cfg,
		layout: layout,
		gen:    gen,
		line:   1,
		atBOL:  true,
	}
}

// writeTopLevel writes a sequence of top-level forms, one per line.  The
// comments at the end of each file follow its last form.
func (p *printer) writeTopLevel(forms []form.Form) {
	done := make(map[token.Location]bool)
	var file token.Location
	for i, f := range forms {
		key := rdparser.FileKey(f.Loc())
		if i > 0 && key != file {
			p.writeEndOfFile(file, done)
		}
		file = key
		p.writeElem(f, 0, true, p.buf.Len() == 0, false)
	}
	if len(forms) > 0 {
		p.writeEndOfFile(file, done)
	}
	for _, key := range p.layout.Files() {
		p.writeEndOfFile(key, done)
	}
	if !p.atBOL {
		p.newline()
	}
}

func (p *printer) writeEndOfFile(key token.Location, done map[token.Location]bool) {
	if done[key] {
		return
	}
	done[key] = true
	p.writeComments(p.layout.EndOfFile(key), 0, p.buf.Len() == 0)
}

// writeComments writes comments on lines of their own at col.
func (p *printer) writeComments(comments []rdparser.Comment, col int, first bool) {
	for i, c := range comments {
		p.breakLine(col, c.Blank && !(first && i == 0))
		p.writeString(c.Text)
		p.afterComment = true
	}
}

// writeElem writes an element of a list, map or file.  The element starts a
// new line at col when newLine is set or when a comment precedes it, and
// otherwise follows a space.  The first element of a sequence takes no
// space and no blank line.
func (p *printer) writeElem(f form.Form, col int, newLine, first, pairs bool) {
	leading := p.layout.Leading(f)
	switch {
	case newLine || len(leading) > 0 || p.afterComment:
		p.writeComments(leading, col, first)
		p.breakLine(col, (!first || len(leading) > 0) && p.layout.BlankBefore(f))
	case !first:
		p.writeString(" ")
	}
	p.writeForm(f, pairs)
	if c, ok := p.layout.Trailing(f); ok {
		p.writeString(" " + c.Text)
		p.afterComment = true
	}
}

// writeClose writes the comments before the closing bracket of f and then
// the bracket.
func (p *printer) writeClose(f form.Form, col int, rbrack string) {
	p.writeComments(p.layout.Closing(f), col, false)
	if p.afterComment {
		p.breakLine(col, false)
	}
	p.writeString(rbrack)
}

// mark records a mapping from the current output position to the source
// location of f.
func (p *printer) mark(f form.Form) {
	loc := f.Loc()
	if !loc.IsValid() || p.err != nil {
		return
	}
	m := sourcemap.Mapping{
		Generated: sourcemap.Position{Line: p.line, Column: p.col},
		Original:  sourcemap.FromLocation(loc),
		Source:    loc.File,
	}
	if sym, ok := f.(form.Symbol); ok {
		m.Name = sym.FullName()
	}
	p.err = p.gen.AddMapping(m)
}

// writeForm dispatches on the form type.  pairs lays out the elements of a
// broken bracket list two per line.
func (p *printer) writeForm(f form.Form, pairs bool) {
	p.mark(f)
	switch f := f.(type) {
	case *form.List:
		switch {
		case p.layout.Shorthand(f) && f.Len() == 2:
			p.writeString("'")
			p.writeForm(f.At(1), false)
		case p.fits(f):
			p.writeFlat(f.Elems(), openBracket(f), closeBracket(f))
		case f.Bracket() || f.Len() == 0:
			p.writeElems(f, f.Elems(), pairs, openBracket(f), closeBracket(f))
		default:
			p.writeCall(f)
		}
	case *form.Map:
		elems := make([]form.Form, 0, 2*f.Len())
		for _, pair := range f.Pairs() {
			elems = append(elems, pair.Key, pair.Value)
		}
		if p.fits(f) {
			p.writeFlat(elems, "{", "}")
		} else {
			p.writeElems(f, elems, true, "{", "}")
		}
	default:
		p.writeString(p.atom(f))
	}
}

// atom returns the text of an atom as it was written, or its canonical
// printing.
func (p *printer) atom(f form.Form) string {
	if s, ok := p.layout.Spelling(f); ok {
		return s
	}
	return canon.Print(f)
}

// fits reports whether f printed flat ends within the configured width.
// Forms holding comments or multi-line strings never fit.
func (p *printer) fits(f form.Form) bool {
	if p.commentsWithin(f) {
		return false
	}
	var b strings.Builder
	p.flat(&b, f)
	s := b.String()
	return !strings.Contains(s, "\n") && p.col+utf8.RuneCountInString(s) <= p.cfg.Width
}

// commentsWithin reports whether a comment sits inside the brackets of f.
func (p *printer) commentsWithin(f form.Form) bool {
	if len(p.layout.Closing(f)) > 0 {
		return true
	}
	switch f := f.(type) {
	case *form.List:
		for _, x := range f.Elems() {
			if p.layout.HasComments(x) {
				return true
			}
		}
	case *form.Map:
		for _, pair := range f.Pairs() {
			if p.layout.HasComments(pair.Key) || p.layout.HasComments(pair.Value) {
				return true
			}
		}
	}
	return false
}

// flat writes f to b on one line, as writeFlat prints it.
func (p *printer) flat(b *strings.Builder, f form.Form) {
	writeSeq := func(elems []form.Form, lbrack, rbrack string) {
		b.WriteString(lbrack)
		for i, e := range elems {
			if i > 0 {
				b.WriteByte(' ')
			}
			p.flat(b, e)
		}
		b.WriteString(rbrack)
	}
	switch f := f.(type) {
	case *form.List:
		if p.layout.Shorthand(f) && f.Len() == 2 {
			b.WriteByte('\'')
			p.flat(b, f.At(1))
			return
		}
		writeSeq(f.Elems(), openBracket(f), closeBracket(f))
	case *form.Map:
		elems := make([]form.Form, 0, 2*f.Len())
		for _, pair := range f.Pairs() {
			elems = append(elems, pair.Key, pair.Value)
		}
		writeSeq(elems, "{", "}")
	default:
		b.WriteString(p.atom(f))
	}
}

func (p *printer) writeFlat(elems []form.Form, lbrack, rbrack string) {
	p.writeString(lbrack)
	for i, e := range elems {
		if i > 0 {
			p.writeString(" ")
		}
		p.writeForm(e, false)
	}
	p.writeString(rbrack)
}

// writeElems writes a broken bracket list or map.  Elements are aligned just
// inside the opening bracket.
func (p *printer) writeElems(f form.Form, elems []form.Form, pairs bool, lbrack, rbrack string) {
	p.writeString(lbrack)
	openCol := p.col
	for i, e := range elems {
		newLine := i > 0 && !(pairs && i%2 == 1)
		p.writeElem(e, openCol, newLine, i == 0, false)
	}
	p.writeClose(f, openCol, rbrack)
}

// writeCall writes a broken list according to the indent rule of its head.
func (p *printer) writeCall(l *form.List) {
	bracketCol := p.col
	p.writeString("(")
	head := l.At(0)
	p.writeElem(head, bracketCol+1, false, true, false)
	firstArgCol := p.col + 1

	rule := &IndentRule{Style: IndentAlign}
	if sym, ok := head.(form.Symbol); ok {
		rule = p.cfg.RuleFor(sym.Name)
	} else {
		firstArgCol = bracketCol + 1
	}
	if p.afterComment {
		firstArgCol = bracketCol + p.cfg.IndentSize
	}
	pairs := l.HeadSymbol() == "let"
	childCol := p.computeChildIndent(rule, firstArgCol, bracketCol)

	for i := 1; i < l.Len(); i++ {
		p.writeElem(l.At(i), childCol, p.onNewLine(rule, i), false, pairs && i == 1)
	}
	p.writeClose(l, childCol, ")")
}

// onNewLine reports whether argument i of a broken list starts a line.
func (p *printer) onNewLine(rule *IndentRule, i int) bool {
	switch rule.Style {
	case IndentBody:
		return true
	case IndentSpecial:
		return i > rule.HeaderArgs
	default: // IndentAlign
		return i > 1
	}
}

// computeChildIndent determines the indentation of an argument that starts
// a line.
func (p *printer) computeChildIndent(rule *IndentRule, firstArgCol int, bracketCol int) int {
	switch rule.Style {
	case IndentBody, IndentSpecial:
		return bracketCol + p.cfg.IndentSize
	default: // IndentAlign
		return firstArgCol
	}
}

// breakLine starts a new line at col unless the current line is still
// empty.  A blank line is added when blank is set.
func (p *printer) breakLine(col int, blank bool) {
	if !p.atBOL {
		p.newline()
	}
	if blank {
		p.newline()
	}
	p.writeIndent(col)
}

// writeIndent writes spaces to reach the desired column.
func (p *printer) writeIndent(col int) {
	if !p.atBOL {
		return
	}
	p.buf.WriteString(strings.Repeat(" ", col))
	p.col = col
	p.atBOL = false
}

// writeString writes s, updating line and column tracking.  Only strings
// spelled across lines contain newlines.
func (p *printer) writeString(s string) {
	if s == "" {
		return
	}
	p.atBOL = false
	p.buf.WriteString(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		p.line += strings.Count(s, "\n")
		p.col = len(s) - i - 1
		return
	}
	p.col += len(s)
}

// newline writes a newline and marks beginning of line.
func (p *printer) newline() {
	p.buf.WriteByte('\n')
	p.line++
	p.col = 0
	p.atBOL = true
	p.afterComment = false
}

func openBracket(l *form.List) string {
	if l.Bracket() {
		return "["
	}
	return "("
}

func closeBracket(l *form.List) string {
	if l.Bracket() {
		return "]"
	}
	return ")"
}
