// SPDX-FileCopyrightText: © 2025 the meta-oxide authors
//
// SPDX-License-Identifier: MIT OR Apache-2.0

// Package microformats implements a generic Microformats2 extractor.
// Any element carrying an h-* class token starts an item; p-*, u-*, e-*
// and dt-* class tokens on its descendants contribute property values,
// coerced according to their prefix. An element that is both a property
// carrier and a new item root becomes a nested item value within its
// parent.
package microformats

import (
	"iter"

	"golang.org/x/net/html"

	"github.com/yfedoseev/meta-oxide/pkg/extract/structdata"
)

// Collection holds the extracted items, in document order, and provides
// vocabulary lookups.
type Collection struct {
	Items []*structdata.Item
}

// All returns an iterator over the items declaring a vocabulary,
// e.g. every "h-card" of the document.
func (c *Collection) All(vocab string) iter.Seq[*structdata.Item] {
	return func(yield func(*structdata.Item) bool) {
		for _, it := range c.Items {
			if it.HasType(vocab) && !yield(it) {
				return
			}
		}
	}
}

// First returns the first item declaring a vocabulary, or nil.
func (c *Collection) First(vocab string) *structdata.Item {
	for it := range c.All(vocab) {
		return it
	}
	return nil
}

// ParseNode extracts every microformats2 item under root. URL values
// are resolved against baseURL, which may be empty.
func ParseNode(root *html.Node, baseURL string) *Collection {
	return ParseNodeDepth(root, baseURL, structdata.DefaultMaxDepth)
}

// ParseNodeDepth is [ParseNode] with an explicit nesting limit.
func ParseNodeDepth(root *html.Node, baseURL string, maxDepth int) *Collection {
	p := &parser{
		baseURL:  baseURL,
		maxDepth: maxDepth,
		result:   &Collection{Items: []*structdata.Item{}},
	}
	p.walk(root, 0)

	return p.result
}
