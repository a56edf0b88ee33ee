// Copyright © 2024 The ELPS authors

// Package docs embeds the language reference for use by the CLI.
package docs

import (
	"bytes"
	_ "embed"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed lang.md
var LangGuide string

type section struct {
	topic string
	body  string
}

var (
	parseOnce sync.Once
	sections  []section
)

// parseSections splits the guide at its level 2 headings.
func parseSections() {
	source := []byte(LangGuide)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	type heading struct {
		topic      string
		start, end int // line containing the heading
	}
	var headings []heading
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 2 || h.Lines().Len() == 0 {
			continue
		}
		seg := h.Lines().At(0)
		start := bytes.LastIndexByte(source[:seg.Start], '\n') + 1
		end := len(source)
		if i := bytes.IndexByte(source[seg.Stop:], '\n'); i >= 0 {
			end = seg.Stop + i + 1
		}
		headings = append(headings, heading{
			topic: string(seg.Value(source)),
			start: start,
			end:   end,
		})
	}
	for i, h := range headings {
		stop := len(source)
		if i+1 < len(headings) {
			stop = headings[i+1].start
		}
		body := bytes.Trim(source[h.end:stop], "\n")
		sections = append(sections, section{topic: h.topic, body: string(body) + "\n"})
	}
}

// Section returns the section of the language guide headed "## topic",
// without its heading.  It returns false if the guide has no such section.
func Section(topic string) (string, bool) {
	parseOnce.Do(parseSections)
	for _, s := range sections {
		if s.topic == topic {
			return s.body, true
		}
	}
	return "", false
}

// Topics returns the section names of the language guide in order.
func Topics() []string {
	parseOnce.Do(parseSections)
	topics := make([]string, len(sections))
	for i, s := range sections {
		topics[i] = s.topic
	}
	return topics
}
