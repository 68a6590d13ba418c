package resolve

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/walteh/goadoc/pkg/antora"
	"github.com/walteh/goadoc/pkg/ast"
)

// defaultFamily is the Antora family a macro refers to when its target
// names none. Includes without a family are relative to the including file.
func defaultFamily(macro string, resourceID bool) string {
	switch macro {
	case "xref", "<<", "link":
		return "page"
	case "image":
		return "image"
	case "include":
		if resourceID {
			return "page"
		}
	}
	return ""
}

func hasScheme(target string) bool {
	return strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:") || strings.HasPrefix(target, "data:")
}

// resolveFile finds the file or directory ref points at. Candidates are tried
// in order and the first existing one wins.
func (r *Resolver) resolveFile(ctx context.Context, ref *ast.Reference, doc *ast.Document) ([]Target, error) {
	target, err := r.Substitute(ctx, ref.File, doc, ref.Position.Offset)
	if err != nil {
		return nil, err
	}
	if target == "" {
		return nil, nil
	}
	if hasScheme(target) {
		return []Target{{Kind: TargetURL, Path: target}}, nil
	}

	candidates, err := r.fileCandidates(ctx, ref, doc, target)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)
	for _, c := range candidates {
		info, err := r.project.FS().Stat(c)
		if err != nil {
			logger.Trace().Str("candidate", c).Err(err).Msg("file candidate missing")
			continue
		}
		kind := TargetFile
		if info.IsDir() {
			kind = TargetDirectory
		}
		return []Target{{Kind: kind, Path: c}}, nil
	}
	return nil, nil
}

func (r *Resolver) fileCandidates(ctx context.Context, ref *ast.Reference, doc *ast.Document, target string) ([]string, error) {
	var out []string

	if r.project.Config.AntoraEnabled() {
		catalog, err := r.project.Catalog(ctx)
		if err != nil {
			return nil, err
		}
		module, inModule := catalog.ModuleOf(doc.Path)
		if !inModule {
			module = nil
		}

		switch {
		case ref.Antora:
			if id, ok := antora.ParseResourceID(target); ok {
				if path, ok := catalog.Resolve(id, module, defaultFamily(ref.Macro, true)); ok {
					return []string{path}, nil
				}
			}
		case inModule:
			if family := defaultFamily(ref.Macro, false); family != "" {
				if path, ok := catalog.Resolve(antora.ResourceID{Path: target}, module, family); ok {
					out = append(out, path)
				}
			}
		}
	}

	direct := r.relative(doc, target)
	out = append(out, direct...)

	switch ref.Macro {
	case "image":
		if ref.BasePath == "" {
			break
		}
		base, ok, err := r.Value(ctx, ref.BasePath, doc, ref.Position.Offset)
		if err != nil {
			return nil, err
		}
		if ok && base != "" && !hasScheme(base) {
			out = append(out, r.relative(doc, filepath.Join(base, target))...)
		}
	case "link", "xref", "<<":
		for _, path := range direct {
			if strings.HasSuffix(path, ".html") {
				out = append(out, strings.TrimSuffix(path, ".html")+".adoc")
			}
			if filepath.Ext(path) != ".adoc" {
				out = append(out, path+".adoc")
			}
		}
	}
	return out, nil
}

// relative returns the paths target may mean from doc: relative to its
// directory, or for an absolute target, as is and below the project root.
func (r *Resolver) relative(doc *ast.Document, target string) []string {
	target = filepath.FromSlash(target)
	if filepath.IsAbs(target) {
		rooted := filepath.Join(r.project.Root, target)
		if rooted == filepath.Clean(target) {
			return []string{rooted}
		}
		return []string{filepath.Clean(target), rooted}
	}
	return []string{filepath.Join(filepath.Dir(doc.Path), target)}
}
