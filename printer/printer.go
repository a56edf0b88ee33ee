// Copyright © 2024 The ELPS authors

// Package printer renders forms back to their canonical surface syntax.
//
// Lists print as (a b c), bracket lists as [a b c] and maps as {k v}, with a
// single space between elements.  Apart from infinite and NaN floats, the
// output of Print reads back to a form Equal to its input.
package printer

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/luthersystems/lispc/form"
)

// Print returns the canonical text of f.
func Print(f form.Form) string {
	var b strings.Builder
	write(&b, f)
	return b.String()
}

// Fprint writes the canonical text of f to w.
func Fprint(w io.Writer, f form.Form) error {
	_, err := io.WriteString(w, Print(f))
	return err
}

// PrintAll prints each form in fs, separated by sep.
func PrintAll(fs []form.Form, sep string) string {
	var b strings.Builder
	for i, f := range fs {
		if i > 0 {
			b.WriteString(sep)
		}
		write(&b, f)
	}
	return b.String()
}

func write(b *strings.Builder, f form.Form) {
	switch f := f.(type) {
	case nil:
		b.WriteString("nil")
	case form.Nil:
		b.WriteString("nil")
	case form.Bool:
		b.WriteString(strconv.FormatBool(f.Value))
	case form.Int:
		b.WriteString(strconv.FormatInt(f.Value, 10))
	case form.Float:
		b.WriteString(formatFloat(f.Value))
	case form.String:
		b.WriteString(strconv.Quote(f.Value))
	case form.Keyword:
		b.WriteByte(':')
		b.WriteString(f.Name)
	case form.Symbol:
		b.WriteString(f.FullName())
	case *form.List:
		opening, closing := byte('('), byte(')')
		if f.Bracket() {
			opening, closing = '[', ']'
		}
		b.WriteByte(opening)
		for i := 0; i < f.Len(); i++ {
			if i > 0 {
				b.WriteByte(' ')
			}
			write(b, f.At(i))
		}
		b.WriteByte(closing)
	case *form.Map:
		b.WriteByte('{')
		for i := 0; i < f.Len(); i++ {
			if i > 0 {
				b.WriteByte(' ')
			}
			p := f.At(i)
			write(b, p.Key)
			b.WriteByte(' ')
			write(b, p.Value)
		}
		b.WriteByte('}')
	}
}

// formatFloat keeps a decimal point or exponent in the output so that a
// float never prints like an int.
func formatFloat(x float64) string {
	switch {
	case math.IsInf(x, 1):
		return "##Inf"
	case math.IsInf(x, -1):
		return "##-Inf"
	case math.IsNaN(x):
		return "##NaN"
	}
	s := strconv.FormatFloat(x, 'g', -1, 64)
	if strings.ContainsAny(s, ".e") {
		return s
	}
	return s + ".0"
}
