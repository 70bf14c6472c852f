// SPDX-FileCopyrightText: © 2025 the meta-oxide authors
//
// SPDX-License-Identifier: MIT OR Apache-2.0

// Package rdfa implements an RDFa Lite extractor. Any element carrying
// a typeof attribute, or a vocab attribute on its own, starts an item;
// property attributes on its descendants contribute values. Compact
// URIs (CURIEs) in typeof, property, about and datatype attributes are
// expanded against the declared prefix table.
package rdfa

import (
	"golang.org/x/net/html"

	"github.com/yfedoseev/meta-oxide/pkg/extract/structdata"
)

// ParseNode extracts every RDFa item under root, in document order.
// URL values are resolved against baseURL, which may be empty.
func ParseNode(root *html.Node, baseURL string) []*structdata.Item {
	return ParseNodeDepth(root, baseURL, structdata.DefaultMaxDepth)
}

// ParseNodeDepth is [ParseNode] with an explicit nesting limit.
func ParseNodeDepth(root *html.Node, baseURL string, maxDepth int) []*structdata.Item {
	p := newParser(baseURL, maxDepth)
	p.gatherPrefixes(root)
	p.walk(root, 0)

	return p.result
}
