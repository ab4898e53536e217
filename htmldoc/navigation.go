package htmldoc

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Exclusion controls which page furniture is dropped before conversion.
type Exclusion int

const (
	// ExcludeNone keeps all content.
	ExcludeNone Exclusion = iota

	// ExcludeExplicit drops <nav> and <aside>, navigation and complementary
	// ARIA roles, and <header> or <footer> elements directly under <body>
	// or under a single top-level wrapper.
	ExcludeExplicit

	// ExcludeStandard also drops elements whose class or id looks like a
	// menu, banner, footer or sidebar.
	ExcludeStandard

	// ExcludeAggressive also drops containers where most of the text sits
	// inside four or more links.
	ExcludeAggressive
)

var boilerplatePattern = regexp.MustCompile(
	`(?i)(^|[^a-z])(nav|navbar|navigation|menu|topnav|sidenav|breadcrumbs?|` +
		`site-header|page-header|masthead|banner|` +
		`footer|site-footer|page-footer|colophon|` +
		`sidebar|widget-area|widget|aside)([^a-z]|$)`)

const (
	maxLinkDensity = 0.6
	minDenseLinks  = 4
)

// exclusions decides which elements to skip for a document.
type exclusions struct {
	mode    Exclusion
	body    *html.Node
	wrapper *html.Node // sole structural child of body, if any
}

func newExclusions(mode Exclusion, body *html.Node) *exclusions {
	return &exclusions{mode: mode, body: body, wrapper: soleWrapper(body)}
}

// soleWrapper returns the single div or main wrapping a page's content, as
// in <body><div id="page">...</div></body>.
func soleWrapper(body *html.Node) *html.Node {
	var found *html.Node
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "div", "main":
			if found != nil {
				return nil
			}
			found = c
		case "script", "style", "noscript", "template":
		default:
			return nil
		}
	}
	return found
}

func (e *exclusions) skip(n *html.Node) bool {
	if n.Type != html.ElementNode || e.mode == ExcludeNone {
		return false
	}
	if e.explicit(n) {
		return true
	}
	if e.mode >= ExcludeStandard && (boilerplatePattern.MatchString(attr(n, "class")) || boilerplatePattern.MatchString(attr(n, "id"))) {
		return true
	}
	return e.mode >= ExcludeAggressive && linkHeavy(n)
}

func (e *exclusions) explicit(n *html.Node) bool {
	switch n.Data {
	case "nav", "aside":
		return true
	case "header", "footer":
		return e.topLevel(n)
	}
	switch attr(n, "role") {
	case "navigation", "complementary":
		return true
	case "banner", "contentinfo":
		return e.topLevel(n)
	}
	return false
}

func (e *exclusions) topLevel(n *html.Node) bool {
	return n.Parent != nil && (n.Parent == e.body || n.Parent == e.wrapper)
}

// linkHeavy reports whether a container is mostly link text.
func linkHeavy(n *html.Node) bool {
	switch n.Data {
	case "div", "section", "ul", "ol":
	default:
		return false
	}
	total := textLength(n)
	if total == 0 {
		return false
	}
	links, count := linkText(n)
	return float64(links)/float64(total) > maxLinkDensity && count >= minDenseLinks
}

func textLength(n *html.Node) int {
	if n.Type == html.TextNode {
		return len(strings.TrimSpace(n.Data))
	}
	total := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		total += textLength(c)
	}
	return total
}

// linkText returns the length of text inside <a> elements and their count.
func linkText(n *html.Node) (length, count int) {
	if n.Type == html.ElementNode && n.Data == "a" {
		return textLength(n), 1
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		l, k := linkText(c)
		length += l
		count += k
	}
	return length, count
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
