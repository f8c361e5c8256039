// Package page post-processes the built HTML pages of the landing site.
//
// A pass applies temporal windows to every annotated element and points every
// qualifying messaging link at the click-time redirect endpoint.
package page

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/fairyhunter13/taqueria-landing/internal/link"
	"github.com/fairyhunter13/taqueria-landing/internal/schedule"
)

// UnknownSection labels links outside any <section>.
const UnknownSection = "unknown"

// element adapts an *html.Node to schedule.Element.
type element struct {
	n *html.Node
}

func (e element) Attr(key string) (string, bool) {
	return attr(e.n, key)
}

func (e element) SetVisible(visible bool) {
	style, _ := attr(e.n, "style")
	style = withDisplay(style, visible)
	if style == "" {
		removeAttr(e.n, "style")
		return
	}
	setAttr(e.n, "style", style)
}

func (e element) Describe() string {
	d := e.n.Data
	if id, ok := attr(e.n, "id"); ok && id != "" {
		d += "#" + id
	}
	if class, ok := attr(e.n, "class"); ok && class != "" {
		d += "." + strings.Join(strings.Fields(class), ".")
	}
	return d
}

// Stats summarises one processing pass over a page.
type Stats struct {
	Results []schedule.Result
	Links   int
}

// Processor transforms a single HTML document.
type Processor struct {
	controller *schedule.Controller
	rewriter   *link.Rewriter
	registry   *link.Registry
	prefix     string
}

// NewProcessor creates a Processor. prefix is the site path prefix the redirect
// endpoint is mounted under, e.g. "/taquerias-landing-page/".
func NewProcessor(controller *schedule.Controller, rewriter *link.Rewriter, registry *link.Registry, prefix string) *Processor {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Processor{
		controller: controller,
		rewriter:   rewriter,
		registry:   registry,
		prefix:     prefix,
	}
}

// RedirectPath returns the href a messaging link with the given id is replaced with.
func (p *Processor) RedirectPath(id, section string) string {
	return p.prefix + "wa/" + id + "?s=" + url.QueryEscape(section)
}

// Process parses src, applies windows evaluated at now, rewires messaging links
// and returns the rendered document.
func (p *Processor) Process(src []byte, now time.Time) ([]byte, Stats, error) {
	doc, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, Stats{}, fmt.Errorf("parse html: %w", err)
	}

	var (
		windowed []schedule.Element
		stats    Stats
	)
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if hasAttr(n, schedule.AttrStart) && hasAttr(n, schedule.AttrEnd) {
			windowed = append(windowed, element{n: n})
		}
		if n.DataAtom == atom.A {
			if href, ok := attr(n, "href"); ok && p.rewriter.Match(href) {
				section := sectionOf(n)
				id := p.registry.Register(href, section)
				setAttr(n, "href", p.RedirectPath(id, section))
				stats.Links++
			}
		}
	})

	stats.Results = p.controller.Evaluate(now, windowed)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, stats, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), stats, nil
}

// sectionOf returns the class of the closest enclosing <section>.
func sectionOf(n *html.Node) string {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Section {
			if class, ok := attr(p, "class"); ok && strings.TrimSpace(class) != "" {
				return strings.TrimSpace(class)
			}
			return UnknownSection
		}
	}
	return UnknownSection
}

// withDisplay drops any display declaration from an inline style and,
// when hidden, appends display: none.
func withDisplay(style string, visible bool) string {
	var decls []string
	for _, d := range strings.Split(style, ";") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		prop, _, _ := strings.Cut(d, ":")
		if strings.EqualFold(strings.TrimSpace(prop), "display") {
			continue
		}
		decls = append(decls, d)
	}
	if !visible {
		decls = append(decls, "display: none")
	}
	if len(decls) == 0 {
		return ""
	}
	return strings.Join(decls, "; ") + ";"
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := attr(n, key)
	return ok
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
}
