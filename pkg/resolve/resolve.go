// Package resolve maps references found in documents to what they point at:
// attribute declarations and values, files and directories, block ids and
// sections.
package resolve

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/project"
)

type TargetKind uint8

const (
	// TargetDeclaration is an attribute declaration in a document
	TargetDeclaration TargetKind = iota
	// TargetConfigAttribute is an attribute set in the project config
	TargetConfigAttribute
	// TargetBuiltinAttribute is an intrinsic attribute
	TargetBuiltinAttribute
	// TargetElement is a section or block carrying an anchor
	TargetElement
	TargetFile
	TargetDirectory
	// TargetURL is a file reference that turned into a URL after substitution
	TargetURL
)

func (k TargetKind) String() string {
	switch k {
	case TargetDeclaration:
		return "declaration"
	case TargetConfigAttribute:
		return "config"
	case TargetBuiltinAttribute:
		return "builtin"
	case TargetElement:
		return "element"
	case TargetFile:
		return "file"
	case TargetDirectory:
		return "directory"
	case TargetURL:
		return "url"
	}
	return "unknown"
}

// Target represents one thing a reference resolves to.
type Target struct {
	Kind TargetKind
	// Path is the document holding Element, or the resolved file or directory
	Path    string
	Element *ast.Element
	Name    string
	// Value is the substituted value of attribute targets
	Value string
	// ByTitle is set when an anchor matched a section title instead of an id
	ByTitle bool
}

type Status uint8

const (
	StatusNotFound Status = iota
	StatusResolved
	// StatusAmbiguous is several sections matched by title
	StatusAmbiguous
)

func (s Status) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusAmbiguous:
		return "ambiguous"
	}
	return "not found"
}

// Classify tells a miss from a hit and from an ambiguous title match.
func Classify(targets []Target) Status {
	switch {
	case len(targets) == 0:
		return StatusNotFound
	case len(targets) > 1 && targets[0].ByTitle:
		return StatusAmbiguous
	}
	return StatusResolved
}

type Resolver struct {
	project *project.Project
}

func New(p *project.Project) *Resolver {
	return &Resolver{project: p}
}

func (r *Resolver) Project() *project.Project {
	return r.project
}

// Resolve returns the targets of ref, a reference of doc. No targets means
// the reference does not resolve; errors are reserved for failures to read
// the project.
func (r *Resolver) Resolve(ctx context.Context, ref *ast.Reference, doc *ast.Document) ([]Target, error) {
	var (
		targets []Target
		err     error
	)
	switch ref.Kind {
	case ast.RefAttribute:
		targets, err = r.resolveAttribute(ctx, ref.Target, doc, ref.Position.Offset)
	case ast.RefFile:
		targets, err = r.resolveFile(ctx, ref, doc)
	case ast.RefAnchor, ast.RefBlockID:
		targets, err = r.resolveAnchor(ctx, ref, doc)
	default:
		return nil, errors.Errorf("unknown reference kind %d", ref.Kind)
	}
	if err != nil {
		return nil, errors.Errorf("resolving %s in %s: %w", ref, doc.Path, err)
	}

	zerolog.Ctx(ctx).Trace().
		Str("ref", ref.String()).
		Str("path", doc.Path).
		Int("targets", len(targets)).
		Msg("resolved reference")
	return targets, nil
}

// ResolveAt resolves the reference under offset. It returns a nil reference
// when there is none.
func (r *Resolver) ResolveAt(ctx context.Context, doc *ast.Document, offset int) (*ast.Reference, []Target, error) {
	ref := doc.ReferenceAt(offset)
	if ref == nil {
		return nil, nil, nil
	}
	targets, err := r.Resolve(ctx, ref, doc)
	if err != nil {
		return nil, nil, err
	}
	return ref, targets, nil
}
