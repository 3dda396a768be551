// Package tmpl splits backtick template strings into literal text and
// ${...} interpolation fragments.
package tmpl

import (
	"fmt"
	"strings"
)

// Fragment is one piece of a template: either literal text or the source of
// an interpolated expression.
type Fragment struct {
	value      string
	isVariable bool
	offset     int
}

// Value returns the fragment text. For a variable fragment this is the
// expression source without the surrounding ${ and }.
func (f *Fragment) Value() string {
	return f.value
}

// IsVariable reports whether the fragment is an interpolated expression.
func (f *Fragment) IsVariable() bool {
	return f.isVariable
}

// Offset is the byte offset of Value() within the template body.
func (f *Fragment) Offset() int {
	return f.offset
}

// Template is a parsed template string.
type Template struct {
	value     string
	fragments []*Fragment
}

// Value returns the original template body.
func (t *Template) Value() string {
	return t.value
}

// Fragments returns the fragments in source order.
func (t *Template) Fragments() []*Fragment {
	return t.fragments
}

// Parse splits a template body into fragments. Braces inside an
// interpolation are balanced, and quoted strings inside it are skipped.
func Parse(s string) (*Template, error) {
	t := &Template{value: s}
	var text strings.Builder
	textStart := 0
	flush := func() {
		if text.Len() > 0 {
			t.fragments = append(t.fragments, &Fragment{value: text.String(), offset: textStart})
			text.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			if text.Len() == 0 {
				textStart = i
			}
			text.WriteByte(c)
			text.WriteByte(s[i+1])
			i++
			continue
		}
		if c != '$' || i+1 >= len(s) || s[i+1] != '{' {
			if text.Len() == 0 {
				textStart = i
			}
			text.WriteByte(c)
			continue
		}
		flush()
		start := i + 2
		end, ok := matchBrace(s, start)
		if !ok {
			return nil, fmt.Errorf("missing '}' in template: %s", s)
		}
		t.fragments = append(t.fragments, &Fragment{
			value:      s[start:end],
			isVariable: true,
			offset:     start,
		})
		i = end
	}
	flush()
	return t, nil
}

// matchBrace returns the index of the '}' closing an interpolation whose
// body starts at start.
func matchBrace(s string, start int) (int, bool) {
	depth := 0
	for i := start; i < len(s); i++ {
		switch c := s[i]; c {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i, true
			}
			depth--
		case '"', '\'', '`':
			for i++; i < len(s) && s[i] != c; i++ {
				if s[i] == '\\' {
					i++
				}
			}
		}
	}
	return 0, false
}
