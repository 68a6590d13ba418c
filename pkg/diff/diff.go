// Package diff renders readable line diffs for test failures.
package diff

import (
	"fmt"
	"strings"

	"github.com/kylelemons/godebug/diff"

	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/lexer"
)

// Lines returns a line diff turning got into want, or "" when they match.
func Lines(want, got string) string {
	if want == got {
		return ""
	}
	abc := diff.Diff(got, want)

	str := "\n\n"
	str += "to convert ACTUAL ⏩️ EXPECTED:\n\n"
	str += "add:    ➕\n"
	str += "remove: ➖\n"
	str += "\n"
	str += strings.ReplaceAll(strings.ReplaceAll("\n"+abc, "\n-", "\n➖"), "\n+", "\n➕")

	return str
}

// Trees diffs the outlines of two element trees.
func Trees(want, got *ast.Element) string {
	return Lines(outline(want), outline(got))
}

func outline(e *ast.Element) string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	if err := ast.Dump(&sb, e); err != nil {
		return err.Error()
	}
	return sb.String()
}

// Tokens diffs two token streams, one token per line.
func Tokens(want, got lexer.Tokens) string {
	return Lines(tokenLines(want), tokenLines(got))
}

func tokenLines(ts lexer.Tokens) string {
	var sb strings.Builder
	for _, t := range ts {
		fmt.Fprintf(&sb, "%d %s %q\n", t.Offset, t.Type, t.Text)
	}
	return sb.String()
}
