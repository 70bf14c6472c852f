// SPDX-FileCopyrightText: © 2025 the meta-oxide authors
//
// SPDX-License-Identifier: MIT OR Apache-2.0

package microformats

import (
	"strings"

	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yfedoseev/meta-oxide/pkg/extract/structdata"
)

type parser struct {
	baseURL  string
	maxDepth int
	result   *Collection
}

// walk looks for item roots in document order. A root's whole subtree
// is handled by fill, which reports any non-consumed nested root back
// here through the parser.
func (p *parser) walk(n *html.Node, depth int) {
	if depth > p.maxDepth {
		return
	}

	if n.Type == html.ElementNode {
		if roots := structdata.RootClasses(classList(n)); len(roots) > 0 {
			item := structdata.NewItem(roots...)
			p.result.Items = append(p.result.Items, item)
			p.fillItem(item, n, depth)
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, depth+1)
	}
}

// fillItem collects the properties of an item root from its subtree.
func (p *parser) fillItem(item *structdata.Item, root *html.Node, depth int) {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		p.collect(item, c, depth+1)
	}
}

// collect classifies one descendant of an item root. A nested root ends
// the parent's property search in that branch: its own properties
// belong to it, never to the ancestor.
func (p *parser) collect(item *structdata.Item, n *html.Node, depth int) {
	if depth > p.maxDepth {
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	classes := classList(n)
	propClasses := propertyClasses(classes)

	if roots := structdata.RootClasses(classes); len(roots) > 0 {
		nested := structdata.NewItem(roots...)
		if len(propClasses) == 0 {
			// Not a property of the parent: it stands on its own as a
			// top-level item, in document order.
			p.result.Items = append(p.result.Items, nested)
		}
		p.fillItem(nested, n, depth)

		// Dual role: nesting takes precedence over the prefix's flat
		// value extraction.
		for _, pc := range propClasses {
			item.Add(pc.Name, structdata.ItemValue(nested))
		}
		return
	}

	for _, pc := range propClasses {
		item.Add(pc.Name, p.propertyValue(pc.Kind, n))
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.collect(item, c, depth+1)
	}
}

// propertyValue coerces an element to a value according to the property
// class prefix it was declared with.
func (p *parser) propertyValue(kind structdata.Kind, n *html.Node) structdata.Value {
	switch kind {
	case structdata.KindURL:
		return structdata.URLValue(p.baseURL, urlCandidate(n))
	case structdata.KindHTML:
		return structdata.HTMLValue(dom.InnerHTML(n))
	case structdata.KindDateTime:
		return structdata.DateTimeValue(dateTimeCandidate(n))
	}
	return structdata.TextValue(dom.TextContent(n))
}

// urlCandidate picks the URL source of a u-* element: href or src
// depending on the element type, the data attribute of object,
// falling back to the text content.
func urlCandidate(n *html.Node) string {
	var v string
	switch n.DataAtom {
	case atom.A, atom.Area, atom.Link:
		v = dom.GetAttribute(n, "href")
	case atom.Img, atom.Audio, atom.Video, atom.Iframe, atom.Source, atom.Track, atom.Embed:
		v = dom.GetAttribute(n, "src")
	case atom.Object:
		v = dom.GetAttribute(n, "data")
	}
	if v == "" {
		v = strings.TrimSpace(dom.TextContent(n))
	}
	return v
}

// dateTimeCandidate picks the machine-readable date source of a dt-*
// element: the datetime attribute of time, ins and del, the content
// attribute of meta, else the text content.
func dateTimeCandidate(n *html.Node) string {
	switch n.DataAtom {
	case atom.Time, atom.Ins, atom.Del:
		if v := dom.GetAttribute(n, "datetime"); v != "" {
			return v
		}
	case atom.Meta:
		if v := dom.GetAttribute(n, "content"); v != "" {
			return v
		}
	}
	return dom.TextContent(n)
}

func classList(n *html.Node) []string {
	return strings.Fields(dom.GetAttribute(n, "class"))
}

func propertyClasses(classes []string) []structdata.PropertyClass {
	var res []structdata.PropertyClass
	for _, token := range classes {
		if pc, ok := structdata.ParsePropertyClass(token); ok {
			res = append(res, pc)
		}
	}
	return res
}
