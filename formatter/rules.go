// Copyright © 2024 The ELPS authors

package formatter

import "strings"

// IndentStyle determines how the arguments of a broken list are laid out.
type IndentStyle int

const (
	// IndentAlign keeps the first argument on the head line and aligns the
	// rest with it.
	IndentAlign IndentStyle = iota
	// IndentBody puts every argument on its own line at bracket column +
	// indent size.
	IndentBody
	// IndentSpecial keeps N header args on the head line and puts the rest
	// on their own lines at bracket column + indent size.
	IndentSpecial
)

// IndentRule specifies the indentation behavior for a particular form.
type IndentRule struct {
	Style      IndentStyle
	HeaderArgs int // for IndentSpecial: args before the "body"
}

// Config holds formatting configuration.
type Config struct {
	IndentSize int                    // spaces per indent level (default: 2)
	Width      int                    // lists longer than this are broken (default: 80)
	Rules      map[string]*IndentRule // form name -> rule
}

// DefaultConfig returns the default formatting configuration.
func DefaultConfig() *Config {
	return &Config{
		IndentSize: 2,
		Width:      80,
		Rules:      DefaultRules(),
	}
}

// DefaultRules returns the default indent rules table.
func DefaultRules() map[string]*IndentRule {
	return map[string]*IndentRule{
		"defstruct": {Style: IndentSpecial, HeaderArgs: 1},
		"def":       {Style: IndentSpecial, HeaderArgs: 1},
		"fn":        {Style: IndentSpecial, HeaderArgs: 1},
		"let":       {Style: IndentSpecial, HeaderArgs: 1},
		"if":        {Style: IndentSpecial, HeaderArgs: 1},
		"ns":        {Style: IndentSpecial, HeaderArgs: 1},

		"do":    {Style: IndentBody},
		"quote": {Style: IndentBody},
	}
}

// RuleFor returns the indent rule for the given form name.
// If no specific rule exists, returns the default first-arg alignment rule.
// Other forms starting with "def" get definition-style indent.
func (c *Config) RuleFor(name string) *IndentRule {
	if r, ok := c.Rules[name]; ok {
		return r
	}
	if strings.HasPrefix(name, "def") {
		return &IndentRule{Style: IndentSpecial, HeaderArgs: 1}
	}
	return &IndentRule{Style: IndentAlign}
}
