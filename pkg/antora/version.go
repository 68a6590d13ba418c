package antora

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// canonicalVersion turns versions like "2", "v2.1" or "2.1-beta" into a
// canonical semantic version, or returns false for named versions such as
// "main" or "next".
func canonicalVersion(v string) (string, bool) {
	core := strings.TrimPrefix(v, "v")
	pre := ""
	if i := strings.IndexByte(core, '-'); i >= 0 {
		core, pre = core[:i], core[i:]
	}
	parts := strings.Split(core, ".")
	if len(parts) > 3 {
		return "", false
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	canonical := "v" + strings.Join(parts, ".") + pre
	if !semver.IsValid(canonical) {
		return "", false
	}
	return canonical, true
}

// IsPrerelease reports whether a descriptor is marked prerelease or carries
// a prerelease version.
func (d *Descriptor) IsPrerelease() bool {
	if d.Prerelease {
		return true
	}
	if c, ok := canonicalVersion(d.Version); ok {
		return semver.Prerelease(c) != ""
	}
	return false
}

// Newer reports whether a should be preferred over b as the latest version of
// a component. Stable versions come before prereleases, semantic versions
// before named ones; semantic versions compare by precedence and named
// versions lexicographically.
func Newer(a, b *Descriptor) bool {
	if pa, pb := a.IsPrerelease(), b.IsPrerelease(); pa != pb {
		return !pa
	}
	ca, sa := canonicalVersion(a.Version)
	cb, sb := canonicalVersion(b.Version)
	switch {
	case sa && sb:
		if c := semver.Compare(ca, cb); c != 0 {
			return c > 0
		}
		return a.Version > b.Version
	case sa != sb:
		return sa
	default:
		return a.Version > b.Version
	}
}

// SortVersions orders descriptors latest first.
func SortVersions(ds []*Descriptor) {
	sort.SliceStable(ds, func(i, j int) bool {
		return Newer(ds[i], ds[j])
	})
}
