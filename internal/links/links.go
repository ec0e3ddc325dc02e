// Package links resolves the link text a page uses to reach another placed
// reflection.
package links

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/reflectmd/internal/reflection"
	"git.home.luguber.info/inful/reflectmd/internal/urlbuilder"
)

// Resolver turns placements into hrefs.
type Resolver struct {
	result     *urlbuilder.Result
	publicPath string
}

// New returns a Resolver over result. With a non-empty publicPath every link
// is absolute: publicPath joined with the target URL.
func New(result *urlbuilder.Result, publicPath string) *Resolver {
	return &Resolver{result: result, publicPath: strings.TrimSuffix(publicPath, "/")}
}

// For returns the href from the page from is rendered on to to. The second
// result is false when to has no URL, in which case callers omit the link.
func (r *Resolver) For(from, to *reflection.Reflection) (string, bool) {
	target := r.result.URL(to)
	if target == "" {
		return "", false
	}
	return r.Relative(r.result.PageURL(from), target), true
}

// Relative returns the href from page fromPage to targetURL. Both are
// forward-slash paths relative to the output root.
func (r *Resolver) Relative(fromPage, targetURL string) string {
	if r.publicPath != "" {
		return r.publicPath + "/" + targetURL
	}
	targetPage, fragment, hasFragment := strings.Cut(targetURL, "#")
	if targetPage == fromPage && hasFragment {
		return "#" + fragment
	}
	rel := relativePath(path.Dir(fromPage), targetPage)
	if hasFragment {
		rel += "#" + fragment
	}
	return rel
}

// relativePath is the forward-slash path from directory fromDir to target.
func relativePath(fromDir, target string) string {
	from := splitDir(fromDir)
	to := strings.Split(target, "/")
	common := 0
	for common < len(from) && common < len(to)-1 && from[common] == to[common] {
		common++
	}
	parts := make([]string, 0, len(from)-common+len(to)-common)
	for range from[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, to[common:]...)
	return strings.Join(parts, "/")
}

func splitDir(dir string) []string {
	if dir == "." || dir == "" || dir == "/" {
		return nil
	}
	return strings.Split(strings.Trim(dir, "/"), "/")
}
