package domain

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/droidmod/gatepatch/internal/adapter"
	m "github.com/droidmod/gatepatch/internal/model"
)

// ScopeMode selects how aggressively the resolver admits symbols.
type ScopeMode int

const (
	// ScopeDefault admits only symbols under the application's own
	// namespace prefixes.
	ScopeDefault ScopeMode = iota
	// ScopeExpanded additionally admits a short allow-list of
	// monetization SDK namespaces known to embed gate logic.
	ScopeExpanded
)

// exclusionPrefixes are framework and third-party namespaces that are
// never eligible for rewriting, regardless of mode.
var exclusionPrefixes = []string{
	"android/",
	"androidx/",
	"kotlin/",
	"kotlinx/",
	"java/",
	"javax/",
	"com/google/",
	"com/android/",
	"okhttp3/",
	"okio/",
	"retrofit2/",
	"com/squareup/",
	"com/facebook/",
	"com/bumptech/",
	"io/reactivex/",
	"org/apache/",
	"org/json/",
	"com/airbnb/",
	"com/getkeepsafe/",
	"rx/",
}

// expandedAllowList names ad/monetization SDK namespaces that sometimes
// carry gate logic of their own. Consulted only in ScopeExpanded, and
// before the exclusion check.
var expandedAllowList = []string{
	"com/qq/e/",
	"com/bytedance/sdk/",
	"com/kwad/",
	"com/anythink/",
	"com/applovin/",
	"com/unity3d/ads/",
}

// fallbackInclude keeps the resolver usable when the package identity
// yields no discoverable prefixes at all.
const fallbackInclude = "com/"

// ScopeBoundary is the two-tier exclusion/inclusion policy every
// rewrite must pass through. Exclusion is evaluated before inclusion
// and always wins.
type ScopeBoundary struct {
	include []string
}

// NewScopeBoundary builds a boundary from explicit inclusion prefixes.
// Used directly by tests; production code goes through ResolveScope.
func NewScopeBoundary(include []string) ScopeBoundary {
	if len(include) == 0 {
		include = []string{fallbackInclude}
	}

	return ScopeBoundary{include: include}
}

// ResolveScope derives the inclusion prefixes once per run: the package
// identity in path form, plus every first-level subdirectory discovered
// beneath it in every class-tree root. The result is a snapshot; later
// filesystem changes do not affect it.
func ResolveScope(sfs adapter.SourceFS, pkg string, roots []m.Path) ScopeBoundary {
	var include []string

	pkgPath := strings.ReplaceAll(strings.TrimSpace(pkg), ".", "/")
	if pkgPath != "" {
		include = append(include, pkgPath)

		seen := map[string]struct{}{}

		for _, root := range roots {
			subs, err := sfs.ListDirs(m.Path(filepath.Join(string(root), pkgPath)))
			if err != nil {
				continue // root may not carry the package, not a fault
			}

			for _, sub := range subs {
				prefix := pkgPath + "/" + sub
				if _, ok := seen[prefix]; ok {
					continue
				}

				seen[prefix] = struct{}{}
				include = append(include, prefix)
			}
		}

		sort.Strings(include[1:])
	}

	return NewScopeBoundary(include)
}

// Eligible reports whether the symbol path may be rewritten. The
// expanded allow-list is consulted first, then exclusion, then
// inclusion; a symbol outside every inclusion prefix is never eligible
// even without an exclusion match.
func (b ScopeBoundary) Eligible(symbolPath string, mode ScopeMode) bool {
	symbolPath = filepath.ToSlash(symbolPath)

	if mode == ScopeExpanded {
		for _, prefix := range expandedAllowList {
			if strings.Contains(symbolPath, prefix) {
				return true
			}
		}
	}

	for _, prefix := range exclusionPrefixes {
		if strings.Contains(symbolPath, prefix) {
			return false
		}
	}

	for _, prefix := range b.include {
		if strings.Contains(symbolPath, prefix) {
			return true
		}
	}

	return false
}

// IncludePrefixes exposes the resolved snapshot for reporting.
func (b ScopeBoundary) IncludePrefixes() []string {
	return append([]string(nil), b.include...)
}
