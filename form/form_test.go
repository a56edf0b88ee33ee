// Copyright © 2024 The ELPS authors

package form

import (
	"testing"

	"github.com/luthersystems/lispc/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSymbol(t *testing.T) {
	tests := []struct {
		text string
		ns   string
		name string
	}{
		{"x", "", "x"},
		{"geom/Point", "geom", "Point"},
		{"a.b/c", "a.b", "c"},
		{"/", "", "/"},
		{"a/", "", "a/"},
		{"/a", "", "/a"},
	}
	for _, test := range tests {
		sym := NewSymbol(test.text, token.At(1, 1))
		assert.Equal(t, test.ns, sym.Namespace, test.text)
		assert.Equal(t, test.name, sym.Name, test.text)
		assert.Equal(t, test.text, sym.FullName(), test.text)
		assert.Equal(t, token.At(1, 1), sym.Loc())
	}
}

func TestNewKeywordTrimsColon(t *testing.T) {
	assert.Equal(t, "x", NewKeyword(":x", token.Location{}).Name)
	assert.Equal(t, "x", NewKeyword("x", token.Location{}).Name)
}

func TestListIsolatedFromInput(t *testing.T) {
	elems := []Form{NewInt(1, token.Location{}), NewInt(2, token.Location{})}
	l := NewList(elems, token.At(3, 1))
	elems[0] = NewString("changed", token.Location{})
	assert.Equal(t, NewInt(1, token.Location{}), l.At(0))

	out := l.Elems()
	out[1] = Nil{}
	assert.Equal(t, NewInt(2, token.Location{}), l.At(1))
	assert.Equal(t, token.At(3, 1), l.Loc())
}

func TestHeadSymbol(t *testing.T) {
	loc := token.Location{}
	assert.Equal(t, "def", NewList([]Form{NewSymbol("def", loc)}, loc).HeadSymbol())
	assert.Equal(t, "", NewList([]Form{NewSymbol("core/def", loc)}, loc).HeadSymbol())
	assert.Equal(t, "", NewList([]Form{NewInt(1, loc)}, loc).HeadSymbol())
	assert.Equal(t, "", NewList(nil, loc).HeadSymbol())
}

func TestEqualIgnoresLocation(t *testing.T) {
	a := NewBracketList([]Form{
		NewSymbol("x", token.At(1, 2)),
		NewMap([]Pair{{Key: NewKeyword("k", token.At(1, 5)), Value: NewFloat(1.5, token.At(1, 8))}}, token.At(1, 4)),
	}, token.At(1, 1))
	b := NewBracketList([]Form{
		NewSymbol("x", token.At(9, 2)),
		NewMap([]Pair{{Key: NewKeyword("k", token.Location{}), Value: NewFloat(1.5, token.Location{})}}, token.Location{}),
	}, token.At(9, 1))
	assert.True(t, Equal(a, b))

	c := NewList(b.Elems(), token.Location{})
	assert.False(t, Equal(a, c), "bracket flag differs")
	assert.False(t, Equal(NewInt(1, token.Location{}), NewFloat(1, token.Location{})))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, NewNil(token.Location{})))
}

func TestDescribe(t *testing.T) {
	loc := token.Location{}
	assert.Equal(t, "vector", Describe(NewBracketList(nil, loc)))
	assert.Equal(t, "list", Describe(NewList(nil, loc)))
	assert.Equal(t, "keyword", Describe(NewKeyword("a", loc)))
	assert.Equal(t, "nothing", Describe(nil))
	require.True(t, IsLiteral(NewString("s", loc)))
	require.False(t, IsLiteral(NewSymbol("s", loc)))
}
