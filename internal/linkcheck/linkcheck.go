// Package linkcheck verifies the relative links between rendered pages.
//
// Links are read from the Markdown AST, so code spans and fenced blocks are
// never mistaken for links. Anchor targets come from raw HTML id and name
// attributes, which is what the renderer emits when HTML anchors are enabled.
package linkcheck

import (
	"bytes"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"

	ferrors "git.home.luguber.info/inful/reflectmd/internal/foundation/errors"
	"git.home.luguber.info/inful/reflectmd/internal/frontmatter"
	"git.home.luguber.info/inful/reflectmd/internal/logfields"
	"git.home.luguber.info/inful/reflectmd/internal/metrics"
	"git.home.luguber.info/inful/reflectmd/internal/render"
	"git.home.luguber.info/inful/reflectmd/internal/util/sets"
)

// Reasons reported on a BrokenLink.
const (
	ReasonMissingPage   = "missing page"
	ReasonMissingAnchor = "missing anchor"
)

// Options controls what is checked.
type Options struct {
	// Fragments also checks that #fragment targets exist on the linked page.
	// Only meaningful when pages carry explicit HTML anchors.
	Fragments bool
}

// BrokenLink is a link whose target could not be found.
type BrokenLink struct {
	Page        string
	Destination string
	Reason      string
}

// Checker checks links across a set of pages.
type Checker struct {
	opts     Options
	recorder metrics.Recorder
	logger   *slog.Logger
}

// New returns a Checker. A nil recorder discards metrics and a nil logger
// uses slog.Default.
func New(opts Options, recorder metrics.Recorder, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{opts: opts, recorder: metrics.OrNoop(recorder), logger: logger}
}

type page struct {
	links   []string
	anchors sets.Set[string]
}

// Check returns every broken relative link in pages, in page order. External
// links and absolute paths are not checked.
func (c *Checker) Check(pages []render.Output) ([]BrokenLink, error) {
	start := time.Now()
	md := goldmark.New()

	parsed := make(map[string]*page, len(pages))
	for _, p := range pages {
		_, body, _, err := frontmatter.Split(p.Content)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryLinks, "split page frontmatter").WithContext("url", p.URL).Build()
		}
		parsed[p.URL] = scan(md, body)
	}

	var broken []BrokenLink
	for _, p := range pages {
		for _, dest := range parsed[p.URL].links {
			reason := c.check(p.URL, dest, parsed)
			if reason == "" {
				continue
			}
			broken = append(broken, BrokenLink{Page: p.URL, Destination: dest, Reason: reason})
			c.recorder.IncBrokenLink()
			c.logger.Warn("Broken link", logfields.URL(p.URL), slog.String("destination", dest), slog.String("reason", reason))
		}
	}
	c.recorder.ObserveStageDuration("linkcheck", time.Since(start))
	return broken, nil
}

func (c *Checker) check(from, dest string, pages map[string]*page) string {
	u, err := url.Parse(dest)
	if err != nil {
		return ReasonMissingPage
	}
	if u.Scheme != "" || u.Host != "" || strings.HasPrefix(u.Path, "/") {
		return ""
	}
	target := from
	if u.Path != "" {
		target = path.Clean(path.Join(path.Dir(from), u.Path))
	}
	p, ok := pages[target]
	if !ok {
		return ReasonMissingPage
	}
	if c.opts.Fragments && u.Fragment != "" && !p.anchors.Has(u.Fragment) {
		return ReasonMissingAnchor
	}
	return ""
}

func scan(md goldmark.Markdown, body []byte) *page {
	p := &page{anchors: sets.New[string]()}
	root := md.Parser().Parse(text.NewReader(body))
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Link:
			p.links = append(p.links, string(node.Destination))
		case *gmast.Image:
			p.links = append(p.links, string(node.Destination))
		case *gmast.RawHTML:
			var buf bytes.Buffer
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				buf.Write(seg.Value(body))
			}
			collectAnchors(buf.Bytes(), p.anchors)
		case *gmast.HTMLBlock:
			var buf bytes.Buffer
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(body))
			}
			collectAnchors(buf.Bytes(), p.anchors)
		}
		return gmast.WalkContinue, nil
	})
	return p
}

func collectAnchors(raw []byte, into sets.Set[string]) {
	z := html.NewTokenizer(bytes.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return
		case html.StartTagToken, html.SelfClosingTagToken:
			_, more := z.TagName()
			for more {
				var key, val []byte
				key, val, more = z.TagAttr()
				if k := string(key); (k == "id" || k == "name") && len(val) > 0 {
					into.Add(string(val))
				}
			}
		}
	}
}
