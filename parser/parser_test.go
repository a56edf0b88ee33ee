// Copyright © 2024 The ELPS authors

package parser

import (
	"strings"
	"testing"

	"github.com/luthersystems/lispc/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReader(t *testing.T) {
	r := NewReader()
	exprs, err := r.Read("test", strings.NewReader("(+ 1 2) 42"))
	require.NoError(t, err)
	require.Len(t, exprs, 2)
	assert.Equal(t, form.KindList, exprs[0].Kind())
	assert.Equal(t, form.NewInt(42, exprs[1].Loc()), exprs[1])
}

func TestNewReader_LocationReader(t *testing.T) {
	lr, ok := NewReader().(LocationReader)
	require.True(t, ok, "standard reader should implement LocationReader")

	exprs, err := lr.ReadLocation("logical", "/path/to/file.lisp", strings.NewReader("(bar)"))
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	assert.Equal(t, "logical", exprs[0].Loc().File)
	assert.Equal(t, "/path/to/file.lisp", exprs[0].Loc().Path)
}

func TestNewReader_ParseError(t *testing.T) {
	_, err := NewReader().Read("test", strings.NewReader("(unclosed"))
	assert.Error(t, err)
}
