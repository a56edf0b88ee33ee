// Copyright © 2018 The ELPS authors

// Package parser provides the default reader used to turn source text into
// forms.
package parser

import (
	"io"

	"github.com/luthersystems/lispc/form"
	"github.com/luthersystems/lispc/parser/rdparser"
)

// Reader parses a named source stream into forms.
type Reader interface {
	Read(name string, r io.Reader) ([]form.Form, error)
}

// LocationReader is a Reader which can also record a physical location for
// the stream it reads.
type LocationReader interface {
	Reader
	ReadLocation(name string, loc string, r io.Reader) ([]form.Form, error)
}

// NewReader returns the default Reader.
func NewReader() Reader {
	return rdparser.NewReader()
}
