package ast

import (
	"strings"

	"github.com/walteh/goadoc/pkg/position"
)

// Attribute represents one entry of a block attribute list. Positional
// entries have an empty Name.
type Attribute struct {
	Name     string
	Value    string
	Position position.RawPosition
}

type Attributes []Attribute

// Positional returns the n-th positional attribute, counting from 1.
func (as Attributes) Positional(n int) (string, bool) {
	for _, a := range as {
		if a.Name != "" {
			continue
		}
		n--
		if n == 0 {
			return a.Value, true
		}
	}
	return "", false
}

// Get returns the value of a named attribute; the last occurrence wins.
func (as Attributes) Get(name string) (string, bool) {
	val, found := "", false
	for _, a := range as {
		if a.Name == name {
			val, found = a.Value, true
		}
	}
	return val, found
}

func (as Attributes) shorthand() Shorthand {
	first, _ := as.Positional(1)
	return ParseShorthand(first)
}

// Style returns the block style given by the first positional attribute.
func (as Attributes) Style() string {
	return as.shorthand().Style
}

// ID returns the block id set with #id in the first positional attribute or with id=.
func (as Attributes) ID() string {
	if id, ok := as.Get("id"); ok {
		return id
	}
	return as.shorthand().ID
}

// Roles returns .role shorthands and the role attribute.
func (as Attributes) Roles() []string {
	roles := as.shorthand().Roles
	if v, ok := as.Get("role"); ok {
		roles = append(roles, strings.Fields(v)...)
	}
	return roles
}

// Options returns %option shorthands and the opts or options lists.
func (as Attributes) Options() []string {
	opts := as.shorthand().Options
	for _, name := range []string{"opts", "options"} {
		if v, ok := as.Get(name); ok {
			for _, o := range strings.Split(v, ",") {
				if o = strings.TrimSpace(o); o != "" {
					opts = append(opts, o)
				}
			}
		}
	}
	return opts
}

func (as Attributes) HasOption(opt string) bool {
	for _, o := range as.Options() {
		if o == opt {
			return true
		}
	}
	return false
}

// Shorthand represents the parts of a style#id.role%option positional attribute.
type Shorthand struct {
	Style   string
	ID      string
	Roles   []string
	Options []string
}

func ParseShorthand(s string) Shorthand {
	var sh Shorthand
	kind := byte(0)
	flush := func(part string) {
		if part == "" {
			return
		}
		switch kind {
		case 0:
			sh.Style = part
		case '#':
			sh.ID = part
		case '.':
			sh.Roles = append(sh.Roles, part)
		case '%':
			sh.Options = append(sh.Options, part)
		}
	}

	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '#', '.', '%':
			flush(strings.TrimSpace(s[start:i]))
			kind = s[i]
			start = i + 1
		}
	}
	flush(strings.TrimSpace(s[start:]))
	return sh
}
