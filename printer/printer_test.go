// Copyright © 2024 The ELPS authors

package printer

import (
	"bytes"
	"math"
	"testing"

	"github.com/luthersystems/lispc/form"
	"github.com/luthersystems/lispc/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrint(t *testing.T) {
	var loc token.Location
	sym := func(s string) form.Form { return form.NewSymbol(s, loc) }
	for _, test := range []struct {
		name string
		f    form.Form
		want string
	}{
		{"nil form", nil, "nil"},
		{"nil", form.NewNil(loc), "nil"},
		{"true", form.NewBool(true, loc), "true"},
		{"false", form.NewBool(false, loc), "false"},
		{"int", form.NewInt(-42, loc), "-42"},
		{"float", form.NewFloat(0.5, loc), "0.5"},
		{"whole float", form.NewFloat(3, loc), "3.0"},
		{"exponent", form.NewFloat(1e21, loc), "1e+21"},
		{"inf", form.NewFloat(math.Inf(1), loc), "##Inf"},
		{"neg inf", form.NewFloat(math.Inf(-1), loc), "##-Inf"},
		{"nan", form.NewFloat(math.NaN(), loc), "##NaN"},
		{"string", form.NewString("a \"b\"\n", loc), `"a \"b\"\n"`},
		{"keyword", form.NewKeyword("x", loc), ":x"},
		{"symbol", sym("x"), "x"},
		{"qualified", sym("geom/Point"), "geom/Point"},
		{"empty list", form.NewList(nil, loc), "()"},
		{"list", form.NewList([]form.Form{sym("a"), sym("b"), sym("c")}, loc), "(a b c)"},
		{"vector", form.NewBracketList([]form.Form{form.NewInt(1, loc), form.NewInt(2, loc)}, loc), "[1 2]"},
		{"nested", form.NewList([]form.Form{
			sym("defstruct"), sym("Point"),
			form.NewBracketList([]form.Form{sym("x")}, loc),
		}, loc), "(defstruct Point [x])"},
		{"empty map", form.NewMap(nil, loc), "{}"},
		{"map", form.NewMap([]form.Pair{
			{Key: form.NewKeyword("a", loc), Value: form.NewInt(1, loc)},
			{Key: form.NewString("b", loc), Value: form.NewNil(loc)},
		}, loc), `{:a 1 "b" nil}`},
	} {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Print(test.f))
		})
	}
}

func TestPrintAll(t *testing.T) {
	var loc token.Location
	fs := []form.Form{form.NewInt(1, loc), form.NewKeyword("k", loc)}
	assert.Equal(t, "1\n:k", PrintAll(fs, "\n"))
	assert.Equal(t, "", PrintAll(nil, " "))
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	err := Fprint(&buf, form.NewList([]form.Form{form.NewSymbol("f", token.Location{})}, token.Location{}))
	require.NoError(t, err)
	assert.Equal(t, "(f)", buf.String())
}
