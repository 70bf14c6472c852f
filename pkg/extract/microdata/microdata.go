// SPDX-FileCopyrightText: © 2025 the meta-oxide authors
//
// SPDX-License-Identifier: MIT OR Apache-2.0

// Package microdata implements an HTML5 microdata extractor. Elements
// carrying itemscope start an item, itemprop descendants contribute
// property values coerced per element type, itemref folds properties
// declared elsewhere in the document into the referencing item.
package microdata

import (
	"golang.org/x/net/html"

	"github.com/yfedoseev/meta-oxide/pkg/extract/structdata"
)

// ParseNode extracts every microdata item under root, in document
// order. URL values and item identifiers are resolved against baseURL,
// which may be empty.
func ParseNode(root *html.Node, baseURL string) []*structdata.Item {
	return ParseNodeDepth(root, baseURL, structdata.DefaultMaxDepth)
}

// ParseNodeDepth is [ParseNode] with an explicit nesting limit.
func ParseNodeDepth(root *html.Node, baseURL string, maxDepth int) []*structdata.Item {
	return newParser(root, baseURL, maxDepth).parse()
}
