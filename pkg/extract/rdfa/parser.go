// SPDX-FileCopyrightText: © 2025 the meta-oxide authors
//
// SPDX-License-Identifier: MIT OR Apache-2.0

package rdfa

import (
	"maps"
	"strconv"
	"strings"

	"github.com/go-shiori/dom"
	"golang.org/x/net/html"

	"github.com/yfedoseev/meta-oxide/pkg/extract/structdata"
)

// defaultPrefixes are well-known CURIE prefixes available without a
// prefix declaration. Read-only after initialization.
var defaultPrefixes = map[string]string{
	"schema": "https://schema.org/",
	"foaf":   "http://xmlns.com/foaf/0.1/",
	"dc":     "http://purl.org/dc/terms/",
	"og":     "http://ogp.me/ns#",
	"xsd":    "http://www.w3.org/2001/XMLSchema#",
}

type parser struct {
	baseURL  string
	maxDepth int
	prefixes map[string]string
	result   []*structdata.Item
}

func newParser(baseURL string, maxDepth int) *parser {
	return &parser{
		baseURL:  baseURL,
		maxDepth: maxDepth,
		prefixes: maps.Clone(defaultPrefixes),
		result:   []*structdata.Item{},
	}
}

// gatherPrefixes collects every prefix declaration of the document.
// A prefix attribute holds "name: namespace" pairs, space separated.
func (p *parser) gatherPrefixes(n *html.Node) {
	if n.Type == html.ElementNode {
		tokens := strings.Fields(dom.GetAttribute(n, "prefix"))
		for i := 0; i+1 < len(tokens); {
			name, ok := strings.CutSuffix(tokens[i], ":")
			if !ok || name == "" {
				i++
				continue
			}
			p.prefixes[name] = tokens[i+1]
			i += 2
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.gatherPrefixes(c)
	}
}

// expand resolves a CURIE against the prefix table. Anything without a
// known prefix passes through unchanged.
func (p *parser) expand(token string) string {
	if prefix, local, ok := strings.Cut(token, ":"); ok {
		if ns, ok := p.prefixes[prefix]; ok {
			return ns + local
		}
	}
	return token
}

func (p *parser) expandList(attr string) []string {
	var res []string
	for _, token := range strings.Fields(attr) {
		res = append(res, p.expand(token))
	}
	return res
}

// propertyName maps a property token to its canonical form: a known
// CURIE expands to its full URI, a plain name is normalized like every
// other extractor's property names.
func (p *parser) propertyName(token string) string {
	if prefix, _, ok := strings.Cut(token, ":"); ok {
		if _, known := p.prefixes[prefix]; known {
			return p.expand(token)
		}
	}
	return structdata.CanonicalName(token)
}

// walk looks for item roots in document order: any element with a
// typeof attribute, or a vocab attribute of its own.
func (p *parser) walk(n *html.Node, depth int) {
	if depth > p.maxDepth {
		return
	}

	if n.Type == html.ElementNode &&
		(dom.HasAttribute(n, "typeof") || dom.HasAttribute(n, "vocab")) {
		item := p.newItemFrom(n)
		p.result = append(p.result, item)
		p.fillItem(item, n, depth)
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, depth+1)
	}
}

// newItemFrom builds an item from a root's own attributes: typeof
// tokens become its types, about its identifier, vocab a property.
func (p *parser) newItemFrom(n *html.Node) *structdata.Item {
	item := structdata.NewItem(p.expandList(dom.GetAttribute(n, "typeof"))...)

	if about := strings.TrimSpace(dom.GetAttribute(n, "about")); about != "" {
		item.ID = structdata.ResolveURL(p.baseURL, p.expand(about))
	}
	if vocab := strings.TrimSpace(dom.GetAttribute(n, "vocab")); vocab != "" {
		item.Add("vocab", structdata.TextValue(vocab))
	}

	return item
}

func (p *parser) fillItem(item *structdata.Item, root *html.Node, depth int) {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		p.collect(item, c, depth+1)
	}
}

// collect classifies one descendant of an item root. A nested typeof
// ends the parent's property search in that branch, its properties
// never reach the ancestor.
func (p *parser) collect(item *structdata.Item, n *html.Node, depth int) {
	if depth > p.maxDepth {
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	props := strings.Fields(dom.GetAttribute(n, "property"))

	if dom.HasAttribute(n, "typeof") {
		nested := p.newItemFrom(n)
		if len(props) == 0 {
			// Not a property of the parent: it stands on its own as a
			// top-level item, in document order.
			p.result = append(p.result, nested)
		}
		p.fillItem(nested, n, depth)

		for _, prop := range props {
			item.Add(p.propertyName(prop), structdata.ItemValue(nested))
		}
		return
	}

	if len(props) > 0 {
		v := p.propertyValue(n)
		for _, prop := range props {
			item.Add(p.propertyName(prop), v)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.collect(item, c, depth+1)
	}
}

// propertyValue coerces a property element to a value: the content
// attribute wins over URI carrying attributes, which win over the text
// content. A datatype attribute types the literal.
func (p *parser) propertyValue(n *html.Node) structdata.Value {
	if content := dom.GetAttribute(n, "content"); content != "" {
		return p.typedValue(content, dom.GetAttribute(n, "datatype"))
	}

	for _, attr := range [...]string{"resource", "href", "src"} {
		if v := strings.TrimSpace(dom.GetAttribute(n, attr)); v != "" {
			return structdata.URLValue(p.baseURL, p.expand(v))
		}
	}

	return p.typedValue(dom.TextContent(n), dom.GetAttribute(n, "datatype"))
}

// typedValue coerces a literal according to its XSD datatype, falling
// back to plain text when the datatype is absent or unusable.
func (p *parser) typedValue(s, datatype string) structdata.Value {
	_, local, _ := strings.Cut(p.expand(strings.TrimSpace(datatype)), "#")

	switch local {
	case "integer", "int", "long", "decimal", "double", "float":
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return structdata.NumberValue(f)
		}
	case "boolean":
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return structdata.BoolValue(b)
		}
	case "date", "dateTime", "time":
		return structdata.DateTimeValue(s)
	}

	return structdata.TextValue(s)
}
