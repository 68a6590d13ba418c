package diagnostic

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/position"
	"github.com/walteh/goadoc/pkg/resolve"
)

// Generator is responsible for generating diagnostics for a document
type Generator interface {
	// Generate reports the references of doc that do not resolve
	Generate(ctx context.Context, doc *ast.Document) (*Diagnostics, error)
}

// Diagnostics represents diagnostic information that can be formatted in different ways
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Hints    []Diagnostic
}

// All returns every diagnostic ordered by path and offset.
func (d *Diagnostics) All() []Diagnostic {
	var all []Diagnostic
	all = append(all, d.Errors...)
	all = append(all, d.Warnings...)
	all = append(all, d.Hints...)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Path != all[j].Path {
			return all[i].Path < all[j].Path
		}
		return all[i].Location.Offset < all[j].Location.Offset
	})
	return all
}

func (d *Diagnostics) Len() int {
	return len(d.Errors) + len(d.Warnings) + len(d.Hints)
}

func (d *Diagnostics) add(diag Diagnostic) {
	switch diag.Severity {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Hints = append(d.Hints, diag)
	}
}

// Merge appends the diagnostics of other.
func (d *Diagnostics) Merge(other *Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Hints = append(d.Hints, other.Hints...)
}

// Kind names what did not resolve.
type Kind string

const (
	AttributeNotFound Kind = "attribute-not-found"
	AnchorNotFound    Kind = "anchor-not-found"
	FileNotFound      Kind = "file-not-found"
	BlockIDNotFound   Kind = "blockid-not-found"
)

// Diagnostic represents a single diagnostic message
type Diagnostic struct {
	Kind     Kind
	Message  string
	Path     string
	Location position.RawPosition
	Range    position.Range
	Severity DiagnosticSeverity
}

// DiagnosticSeverity represents the severity level of a diagnostic
type DiagnosticSeverity string

const (
	SeverityError       DiagnosticSeverity = "error"
	SeverityWarning     DiagnosticSeverity = "warning"
	SeverityInformation DiagnosticSeverity = "info"
	SeverityHint        DiagnosticSeverity = "hint"
)

var severities = map[Kind]DiagnosticSeverity{
	AttributeNotFound: SeverityWarning,
	AnchorNotFound:    SeverityWarning,
	FileNotFound:      SeverityError,
	BlockIDNotFound:   SeverityWarning,
}

// DefaultGenerator is the default implementation of Generator
type DefaultGenerator struct {
	resolver *resolve.Resolver
}

// NewDefaultGenerator creates a new DefaultGenerator
func NewDefaultGenerator(resolver *resolve.Resolver) *DefaultGenerator {
	return &DefaultGenerator{resolver: resolver}
}

// Generate implements Generator
func (g *DefaultGenerator) Generate(ctx context.Context, doc *ast.Document) (*Diagnostics, error) {
	return Generate(ctx, g.resolver, doc)
}

// Generate resolves every reference of doc and reports the ones that do not
// resolve. Ambiguous section title matches are not reported.
func Generate(ctx context.Context, resolver *resolve.Resolver, doc *ast.Document) (*Diagnostics, error) {
	if doc == nil {
		return nil, errors.Errorf("document is nil")
	}

	diags := &Diagnostics{}
	seen := position.NewSpanSet()
	report := func(kind Kind, loc position.RawPosition, format string, args ...any) {
		// a span is reported once
		if !seen.Mark(loc) {
			return
		}
		diags.add(Diagnostic{
			Kind:     kind,
			Message:  fmt.Sprintf(format, args...),
			Path:     doc.Path,
			Location: loc,
			Range:    loc.GetRange(doc.Text),
			Severity: severities[kind],
		})
	}

	for _, ref := range doc.References() {
		switch ref.Kind {
		case ast.RefAttribute:
			targets, err := resolver.Resolve(ctx, ref, doc)
			if err != nil {
				return nil, err
			}
			if resolve.Classify(targets) == resolve.StatusNotFound {
				report(AttributeNotFound, ref.Position, "attribute %q is not defined", ref.Target)
			}

		case ast.RefFile:
			missing, err := missingPrefix(ctx, resolver, ref, doc)
			if err != nil {
				return nil, err
			}
			if missing != nil {
				report(FileNotFound, missing.Position, "file %q does not resolve", missing.File)
			}

		case ast.RefAnchor, ast.RefBlockID:
			if ref.Kind == ast.RefBlockID {
				fileRef := *ref
				fileRef.Kind = ast.RefFile
				missing, err := missingPrefix(ctx, resolver, &fileRef, doc)
				if err != nil {
					return nil, err
				}
				if missing != nil {
					// reported on the file part
					continue
				}
			}
			unresolved, err := unresolvedAttributes(ctx, resolver, ref.Anchor, ref, doc)
			if err != nil {
				return nil, err
			}
			if unresolved {
				continue
			}

			targets, err := resolver.Resolve(ctx, ref, doc)
			if err != nil {
				return nil, err
			}
			if resolve.Classify(targets) != resolve.StatusNotFound {
				continue
			}
			if ref.Kind == ast.RefBlockID {
				report(BlockIDNotFound, ref.Position, "block id %q not found in %s", ref.Anchor, ref.File)
			} else {
				report(AnchorNotFound, ref.Position, "anchor %q does not resolve", ref.Anchor)
			}
		}
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", doc.Path).
		Int("errors", len(diags.Errors)).
		Int("warnings", len(diags.Warnings)).
		Msg("generated diagnostics")
	return diags, nil
}

// missingPrefix returns the shortest path prefix of a file reference that
// does not resolve, or nil when the whole path resolves. References whose
// target still holds unknown attributes after substitution are left to the
// attribute diagnostics.
func missingPrefix(ctx context.Context, resolver *resolve.Resolver, ref *ast.Reference, doc *ast.Document) (*ast.Reference, error) {
	if ref.File == "" {
		return nil, nil
	}
	unresolved, err := unresolvedAttributes(ctx, resolver, ref.File, ref, doc)
	if err != nil || unresolved {
		return nil, err
	}
	for _, sub := range ref.SubReferences() {
		targets, err := resolver.Resolve(ctx, sub, doc)
		if err != nil {
			return nil, err
		}
		if resolve.Classify(targets) == resolve.StatusNotFound {
			return sub, nil
		}
	}
	return nil, nil
}

func unresolvedAttributes(ctx context.Context, resolver *resolve.Resolver, text string, ref *ast.Reference, doc *ast.Document) (bool, error) {
	if !strings.Contains(text, "{") {
		return false, nil
	}
	got, err := resolver.Substitute(ctx, text, doc, ref.Position.Offset)
	if err != nil {
		return false, errors.Errorf("substituting %q: %w", text, err)
	}
	return strings.Contains(got, "{"), nil
}
