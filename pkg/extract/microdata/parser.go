// SPDX-FileCopyrightText: © 2025 the meta-oxide authors
//
// SPDX-License-Identifier: MIT OR Apache-2.0

package microdata

import (
	"iter"
	"strconv"
	"strings"

	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yfedoseev/meta-oxide/pkg/extract/structdata"
)

type parser struct {
	root            *html.Node
	baseURL         string
	maxDepth        int
	identifiedNodes map[string]*html.Node
}

func newParser(root *html.Node, baseURL string, maxDepth int) *parser {
	return &parser{
		root:            root,
		baseURL:         baseURL,
		maxDepth:        maxDepth,
		identifiedNodes: map[string]*html.Node{},
	}
}

func (p *parser) parse() []*structdata.Item {
	topLevelNodes := []*html.Node{}

	for n := range iterNodes(p.root) {
		if dom.HasAttribute(n, "itemscope") && p.isTopLevel(n) {
			topLevelNodes = append(topLevelNodes, n)
		}

		if id := dom.GetAttribute(n, "id"); id != "" {
			p.identifiedNodes[id] = n
		}
	}

	items := []*structdata.Item{}
	for _, n := range topLevelNodes {
		items = append(items, p.buildItem(n, 0))
	}

	return items
}

// isTopLevel reports whether an itemscope element starts an item of its
// own rather than being consumed as a property of an enclosing scope.
func (p *parser) isTopLevel(n *html.Node) bool {
	if !dom.HasAttribute(n, "itemprop") {
		return true
	}
	for a := n.Parent; a != nil; a = a.Parent {
		if a.Type == html.ElementNode && dom.HasAttribute(a, "itemscope") {
			return false
		}
	}
	// An itemprop with no scope to belong to.
	return true
}

func (p *parser) buildItem(n *html.Node, depth int) *structdata.Item {
	item := structdata.NewItem(strings.Fields(dom.GetAttribute(n, "itemtype"))...)

	if id := dom.GetAttribute(n, "itemid"); id != "" {
		item.ID = structdata.ResolveURL(p.baseURL, id)
	}

	for ref := range strings.FieldsSeq(dom.GetAttribute(n, "itemref")) {
		if refNode, ok := p.identifiedNodes[ref]; ok {
			p.collect(item, refNode, depth+1)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.collect(item, c, depth+1)
	}

	return item
}

// collect classifies one node within a scope. An itemprop element ends
// the search in its branch: either it carries a value, or it is a
// nested scope whose own properties never reach the enclosing item.
func (p *parser) collect(item *structdata.Item, n *html.Node, depth int) {
	if depth > p.maxDepth {
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	itemprops := dom.GetAttribute(n, "itemprop")
	hasProp := dom.HasAttribute(n, "itemprop")
	hasScope := dom.HasAttribute(n, "itemscope")

	switch {
	case hasProp && hasScope:
		// Dual role, nesting takes precedence over value extraction.
		nested := p.buildItem(n, depth)
		for prop := range strings.FieldsSeq(itemprops) {
			item.Add(structdata.CanonicalName(prop), structdata.ItemValue(nested))
		}
		return
	case hasProp:
		v := p.propertyValue(n)
		for prop := range strings.FieldsSeq(itemprops) {
			item.Add(structdata.CanonicalName(prop), v)
		}
		return
	case hasScope:
		// A new top-level item, handled by parse.
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.collect(item, c, depth+1)
	}
}

// propertyValue coerces a property element to a value according to its
// element type.
func (p *parser) propertyValue(n *html.Node) structdata.Value {
	switch n.DataAtom {
	case atom.Meta:
		return structdata.TextValue(dom.GetAttribute(n, "content"))
	case atom.A, atom.Area, atom.Link:
		return structdata.URLValue(p.baseURL, dom.GetAttribute(n, "href"))
	case atom.Img, atom.Audio, atom.Video, atom.Iframe, atom.Source, atom.Track, atom.Embed:
		return structdata.URLValue(p.baseURL, dom.GetAttribute(n, "src"))
	case atom.Object:
		return structdata.URLValue(p.baseURL, dom.GetAttribute(n, "data"))
	case atom.Time:
		if v := dom.GetAttribute(n, "datetime"); v != "" {
			return structdata.DateTimeValue(v)
		}
		return structdata.DateTimeValue(dom.TextContent(n))
	case atom.Data, atom.Meter:
		v := dom.GetAttribute(n, "value")
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return structdata.NumberValue(f)
		}
		return structdata.TextValue(v)
	}

	// Only leading and trailing whitespace is trimmed, consumers may
	// re-trim the inside.
	return structdata.TextValue(dom.TextContent(n))
}

func iterNodes(n *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		visitNodes(n, yield)
	}
}

// visitNodes reports false as soon as yield does, so an interrupted
// iteration never resumes.
func visitNodes(n *html.Node, yield func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	if !yield(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !visitNodes(c, yield) {
			return false
		}
	}
	return true
}
