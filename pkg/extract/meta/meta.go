// SPDX-FileCopyrightText: © 2025 the meta-oxide authors
//
// SPDX-License-Identifier: MIT OR Apache-2.0

// Package meta extracts the flat tag vocabularies of a page: standard
// meta tags, Dublin Core, Open Graph, Twitter Cards and header links.
// These are plain lookup-table transformations, they carry no nesting
// or aggregation ambiguity and live apart from the structured
// extractors.
package meta

import (
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"github.com/araddon/dateparse"
	"github.com/go-shiori/dom"
	"golang.org/x/net/html"

	"github.com/yfedoseev/meta-oxide/pkg/extract/structdata"
)

// TagSet maps a tag name to its collected values, in document order.
type TagSet map[string][]string

// Add appends a value to a name. Empty names or values are dropped.
func (s TagSet) Add(name, value string) {
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" || value == "" {
		return
	}
	s[name] = append(s[name], value)
}

// Get returns the first value of a name.
func (s TagSet) Get(name string) string {
	if v, ok := s[name]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}

// Lookup returns the values of the first name present in the set.
func (s TagSet) Lookup(names ...string) []string {
	for _, name := range names {
		if v, ok := s[name]; ok && len(v) > 0 {
			return v
		}
	}
	return nil
}

// LookupGet returns the first value of the first name present in the
// set.
func (s TagSet) LookupGet(names ...string) string {
	if v := s.Lookup(names...); len(v) > 0 {
		return v[0]
	}
	return ""
}

// OEmbedEndpoint is an oEmbed discovery link. Only the endpoint
// declaration is extracted, its payload is never fetched.
type OEmbedEndpoint struct {
	Href   string `json:"href"`
	Format string `json:"format"`
	Title  string `json:"title,omitempty"`
}

// oEmbed discovery link types, mapped to their format name.
var oembedTypes = map[string]string{
	"application/json+oembed": "json",
	"text/xml+oembed":         "xml",
}

// Tags holds every flat vocabulary of a page. The tag set categories
// are always present, a missing tag is a missing key within its set.
type Tags struct {
	Meta       TagSet           `json:"meta"`
	DublinCore TagSet           `json:"dublin_core"`
	OpenGraph  TagSet           `json:"opengraph"`
	Twitter    TagSet           `json:"twitter"`
	Links      TagSet           `json:"links"`
	OEmbed     []OEmbedEndpoint `json:"oembed,omitempty"`
}

// Date returns the page date declared in meta or Dublin Core tags,
// zero when absent or unreadable.
func (t *Tags) Date() time.Time {
	for _, s := range []string{
		t.Meta.Get("date"),
		t.DublinCore.Get("date"),
	} {
		if s == "" {
			continue
		}
		if d, err := dateparse.ParseLocal(s); err == nil && !d.IsZero() {
			return d
		}
	}
	return time.Time{}
}

type rawSpec struct {
	set      func(*Tags) TagSet
	selector string
	fn       func(*html.Node, string) (string, string)
}

func extMeta(k, v, sep string) func(*html.Node, string) (string, string) {
	return func(n *html.Node, _ string) (string, string) {
		_, name, _ := strings.Cut(strings.TrimSpace(dom.GetAttribute(n, k)), sep)
		value := strings.TrimSpace(dom.GetAttribute(n, v))

		// Some attributes may contain HTML, we don't want that
		a, _ := html.Parse(strings.NewReader(value))
		return name, dom.TextContent(a)
	}
}

var specList = []rawSpec{
	{func(t *Tags) TagSet { return t.Meta }, "//title", func(n *html.Node, _ string) (string, string) {
		return "title", dom.TextContent(n)
	}},
	{func(t *Tags) TagSet { return t.Meta }, "/html[@lang]/@lang", func(n *html.Node, _ string) (string, string) {
		return "lang", dom.TextContent(n)
	}},

	// Common HTML meta tags
	{func(t *Tags) TagSet { return t.Meta }, `//meta[@content][
		@name='author' or
		@name='byl' or
		@name='copyright' or
		@name='date' or
		@name='description' or
		@name='keywords' or
		@name='language' or
		@name='subtitle'
	]`, extMeta("name", "content", "")},

	// Dublin Core
	{func(t *Tags) TagSet { return t.DublinCore }, `//meta[@content][
		starts-with(@name, 'DC.') or
		starts-with(@name, 'dc.')
	]`, extMeta("name", "content", ".")},

	// Facebook opengraph
	{
		func(t *Tags) TagSet { return t.OpenGraph },
		"//meta[@content][starts-with(@property, 'og:')]",
		extMeta("property", "content", ":"),
	},
	{
		func(t *Tags) TagSet { return t.OpenGraph },
		"//meta[@content][starts-with(@name, 'og:')]",
		extMeta("name", "content", ":"),
	},

	// Twitter cards
	{
		func(t *Tags) TagSet { return t.Twitter },
		"//meta[@content][starts-with(@name, 'twitter:')]",
		extMeta("name", "content", ":"),
	},

	// Header links (excluding icons and stylesheets)
	{func(t *Tags) TagSet { return t.Links }, `//link[@href][@rel][
		not(contains(translate(@rel, 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), 'icon')) and
		not(contains(@rel, 'stylesheet'))
	]`, func(n *html.Node, baseURL string) (string, string) {
		rel := strings.TrimSpace(dom.GetAttribute(n, "rel"))
		href := strings.TrimSpace(dom.GetAttribute(n, "href"))
		return rel, structdata.ResolveURL(baseURL, href)
	}},
}

// ParseNode parses the flat page tags. Link targets are resolved
// against baseURL, which may be empty.
func ParseNode(doc *html.Node, baseURL string) *Tags {
	res := &Tags{
		Meta:       TagSet{},
		DublinCore: TagSet{},
		OpenGraph:  TagSet{},
		Twitter:    TagSet{},
		Links:      TagSet{},
	}

	for _, x := range specList {
		nodes, _ := htmlquery.QueryAll(doc, x.selector)
		set := x.set(res)

		for _, node := range nodes {
			name, value := x.fn(node, baseURL)
			set.Add(name, value)
		}
	}

	// oEmbed endpoint discovery
	nodes, _ := htmlquery.QueryAll(doc, `//link[@href][@type][contains(@rel, 'alternate')]`)
	for _, node := range nodes {
		format, ok := oembedTypes[strings.TrimSpace(dom.GetAttribute(node, "type"))]
		if !ok {
			continue
		}
		href := structdata.ResolveURL(baseURL, strings.TrimSpace(dom.GetAttribute(node, "href")))
		if href == "" {
			continue
		}
		res.OEmbed = append(res.OEmbed, OEmbedEndpoint{
			Href:   href,
			Format: format,
			Title:  strings.TrimSpace(dom.GetAttribute(node, "title")),
		})
	}

	// Dublin Core subjects are a comma separated list.
	if subjects, ok := res.DublinCore["subject"]; ok {
		values := []string{}
		for _, s := range subjects {
			for part := range strings.SplitSeq(s, ",") {
				if part = strings.TrimSpace(part); part != "" {
					values = append(values, part)
				}
			}
		}
		if len(values) == 0 {
			// No token survived, an absent key beats an empty one.
			delete(res.DublinCore, "subject")
		} else {
			res.DublinCore["subject"] = values
		}
	}

	return res
}
