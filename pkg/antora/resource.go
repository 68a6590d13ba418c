// Package antora understands the Antora documentation layout: component
// descriptors (antora.yml), module directories and resource ids of the form
// version@component:module:family$path.
package antora

import (
	"strings"
)

// MaxDepth bounds the number of parent directories inspected when looking
// for the module a file belongs to.
const MaxDepth = 10

// RootModule is the module used when a component is named without one.
const RootModule = "ROOT"

// families maps the family names of resource ids to their directory under a module.
var families = map[string]string{
	"page":       "pages",
	"partial":    "partials",
	"example":    "examples",
	"image":      "images",
	"attachment": "attachments",
}

// FamilyDir returns the directory of a family inside a module.
func FamilyDir(family string) (string, bool) {
	dir, ok := families[family]
	return dir, ok
}

// ResourceID represents a parsed Antora resource id. Empty coordinates are
// taken from the context the id is used in.
type ResourceID struct {
	Version   string
	Component string
	Module    string
	Family    string
	Path      string
}

func (r ResourceID) String() string {
	var sb strings.Builder
	if r.Version != "" {
		sb.WriteString(r.Version + "@")
	}
	if r.Component != "" {
		sb.WriteString(r.Component + ":")
	}
	if r.Module != "" || r.Component != "" {
		sb.WriteString(r.Module + ":")
	}
	if r.Family != "" {
		sb.WriteString(r.Family + "$")
	}
	sb.WriteString(r.Path)
	return sb.String()
}

// ParseResourceID splits a resource id into its coordinates. It returns
// false for plain paths and for URLs.
func ParseResourceID(s string) (ResourceID, bool) {
	var id ResourceID
	if s == "" || strings.Contains(s, "://") || strings.HasPrefix(s, "mailto:") {
		return id, false
	}

	rest := s
	marked := false

	if i := strings.IndexByte(rest, '@'); i >= 0 && !strings.ContainsAny(rest[:i], ":$/") {
		id.Version = rest[:i]
		rest = rest[i+1:]
		marked = true
		if id.Version == "" {
			return id, false
		}
	}

	if i := strings.IndexByte(rest, '$'); i >= 0 && !strings.ContainsRune(rest[:i], '/') {
		coords := rest[:i]
		family := coords
		if j := strings.LastIndexByte(coords, ':'); j >= 0 {
			family = coords[j+1:]
			coords = coords[:j+1]
		} else {
			coords = ""
		}
		if _, ok := families[family]; !ok {
			return ResourceID{}, false
		}
		id.Family = family
		rest = coords + rest[i+1:]
		marked = true
	}

	parts := strings.Split(rest, ":")
	for _, part := range parts[:len(parts)-1] {
		if strings.ContainsRune(part, '/') {
			return ResourceID{}, false
		}
	}
	switch len(parts) {
	case 1:
	case 2:
		// module:path
		if parts[0] == "" {
			return ResourceID{}, false
		}
		id.Module = parts[0]
		marked = true
	case 3:
		// component:module:path, the module may be left empty for ROOT
		if parts[0] == "" {
			return ResourceID{}, false
		}
		id.Component = parts[0]
		id.Module = parts[1]
		if id.Module == "" {
			id.Module = RootModule
		}
		marked = true
	default:
		return ResourceID{}, false
	}
	id.Path = parts[len(parts)-1]

	if !marked || id.Path == "" {
		return ResourceID{}, false
	}
	return id, true
}

// IsResourceID reports whether s is written as an Antora resource id rather
// than a relative path.
func IsResourceID(s string) bool {
	_, ok := ParseResourceID(s)
	return ok
}
