// Copyright © 2024 The ELPS authors

package sourcemap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"regexp"
	"strconv"

	"go.uber.org/multierr"
)

var traceRef = regexp.MustCompile(`([^\s:()"'\[\]]+\.[A-Za-z0-9]+):(\d+)`)

// Tracer rewrites file:line references to generated files in text such as
// stack traces so that they point at the original source.
type Tracer struct {
	cache *Cache
	// MapPath returns the path of the source map for a generated file.
	MapPath func(generated string) string
}

// NewTracer returns a Tracer loading source maps through cache.  By
// default the source map of file.ext is expected at file.ext.map.
func NewTracer(cache *Cache) *Tracer {
	return &Tracer{
		cache:   cache,
		MapPath: func(generated string) string { return generated + ".map" },
	}
}

// RewriteLine rewrites every reference in line that has a mapping.
// References to files without a source map are left unchanged.  The
// returned error combines the failures to load existing source maps.
func (t *Tracer) RewriteLine(line string) (string, error) {
	var errs error
	out := traceRef.ReplaceAllStringFunc(line, func(ref string) string {
		m := traceRef.FindStringSubmatch(ref)
		genLine, err := strconv.Atoi(m[2])
		if err != nil {
			return ref
		}
		cons, err := t.cache.Load(t.MapPath(m[1]))
		if errors.Is(err, fs.ErrNotExist) {
			return ref
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", m[1], err))
			return ref
		}
		seg, ok := cons.Lookup(genLine)
		if !ok {
			return ref
		}
		source := cons.Source(seg.SourceIndex)
		if source == "" {
			source = m[1]
		}
		return source + ":" + strconv.Itoa(seg.OriginalLine)
	})
	return out, errs
}

// Rewrite copies r to w line by line, rewriting references.  Lines are
// always copied; load failures are returned once the input is exhausted.
func (t *Tracer) Rewrite(r io.Reader, w io.Writer) error {
	var errs error
	scan := bufio.NewScanner(r)
	for scan.Scan() {
		line, err := t.RewriteLine(scan.Text())
		errs = multierr.Append(errs, err)
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	if err := scan.Err(); err != nil {
		return err
	}
	return errs
}
