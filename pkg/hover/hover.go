// Package hover provides functionality for generating hover information.
package hover

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/position"
	"github.com/walteh/goadoc/pkg/resolve"
)

// HoverInfo represents the information to be displayed in a hover tooltip
type HoverInfo struct {
	// Content is the markdown content to display, one paragraph per entry
	Content []string
	// Position is the reference span this hover applies to
	Position position.RawPosition
}

// Markdown joins the content paragraphs.
func (h *HoverInfo) Markdown() string {
	return strings.Join(h.Content, "\n\n")
}

// Hover describes the reference under offset in doc, or returns nil when
// there is none.
func Hover(ctx context.Context, resolver *resolve.Resolver, doc *ast.Document, offset int) (*HoverInfo, error) {
	ref, targets, err := resolver.ResolveAt(ctx, doc, offset)
	if err != nil {
		return nil, errors.Errorf("hover at %d: %w", offset, err)
	}
	if ref == nil {
		return nil, nil
	}

	zerolog.Ctx(ctx).Debug().Str("ref", ref.String()).Int("targets", len(targets)).Msg("hover")
	return FormatHoverResponse(ctx, resolver, doc, ref, targets)
}

// FormatHoverResponse formats the targets of ref. The first paragraph names
// the reference and what it evaluates to; each target follows with where
// it lives.
func FormatHoverResponse(ctx context.Context, resolver *resolve.Resolver, doc *ast.Document, ref *ast.Reference, targets []resolve.Target) (*HoverInfo, error) {
	if ref == nil {
		return nil, errors.New("reference cannot be nil")
	}

	info := &HoverInfo{Position: ref.Position}
	status := resolve.Classify(targets)

	switch ref.Kind {
	case ast.RefAttribute:
		head := fmt.Sprintf("**{%s}**", ref.Target)
		v, ok, err := resolver.Value(ctx, ref.Target, doc, ref.Position.Offset)
		if err != nil {
			return nil, errors.Errorf("formatting hover response: %w", err)
		}
		switch {
		case ok:
			head += fmt.Sprintf(" = `%s`", v)
		case status == resolve.StatusNotFound:
			head += " is not defined"
		default:
			head += " is unset"
		}
		info.Content = append(info.Content, head)

	case ast.RefFile:
		head := fmt.Sprintf("**%s**", ref.Target)
		if status == resolve.StatusNotFound {
			head += " does not resolve"
		}
		info.Content = append(info.Content, head)

	default:
		head := fmt.Sprintf("**%s**", ref.Anchor)
		switch status {
		case resolve.StatusNotFound:
			head += " does not resolve"
		case resolve.StatusAmbiguous:
			head += fmt.Sprintf(" matches %d section titles", len(targets))
		}
		info.Content = append(info.Content, head)
	}

	for _, t := range targets {
		line, err := describe(ctx, resolver, t)
		if err != nil {
			return nil, errors.Errorf("formatting hover response: %w", err)
		}
		info.Content = append(info.Content, line)
	}
	return info, nil
}

func describe(ctx context.Context, resolver *resolve.Resolver, t resolve.Target) (string, error) {
	switch t.Kind {
	case resolve.TargetDeclaration:
		where, err := location(ctx, resolver, t)
		if err != nil {
			return "", err
		}
		if t.Element.Unset {
			return "unset in " + where, nil
		}
		return fmt.Sprintf("`%s` in %s", t.Value, where), nil
	case resolve.TargetConfigAttribute:
		return fmt.Sprintf("`%s` in the project configuration", t.Value), nil
	case resolve.TargetBuiltinAttribute:
		return fmt.Sprintf("`%s` built in", t.Value), nil
	case resolve.TargetElement:
		where, err := location(ctx, resolver, t)
		if err != nil {
			return "", err
		}
		what := strings.ToLower(t.Element.Kind.String())
		if t.Element.Title != "" {
			what += fmt.Sprintf(" %q", t.Element.Title)
		}
		return what + " in " + where, nil
	}
	return fmt.Sprintf("%s %s", t.Kind, rel(resolver, t.Path)), nil
}

// location renders path:line for the element of t, line 1-based.
func location(ctx context.Context, resolver *resolve.Resolver, t resolve.Target) (string, error) {
	doc, err := resolver.Project().Document(ctx, t.Path)
	if err != nil {
		return "", err
	}
	line, _ := t.Element.GetLineAndColumn(doc.Text)
	return fmt.Sprintf("%s:%d", rel(resolver, t.Path), line+1), nil
}

func rel(resolver *resolve.Resolver, path string) string {
	if r, err := filepath.Rel(resolver.Project().Root, path); err == nil && !strings.HasPrefix(r, "..") {
		return r
	}
	return path
}
