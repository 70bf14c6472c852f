// SPDX-FileCopyrightText: © 2025 the meta-oxide authors
//
// SPDX-License-Identifier: MIT OR Apache-2.0

// Package jsonld extracts JSON-LD entities from script blocks. It is a
// structural passthrough: entities keep their JSON shape, the only
// transformation is the flattening of top-level @graph containers and
// the unescaping of HTML entities left in strings by templating
// engines. A malformed block is skipped, it never suppresses the valid
// blocks around it.
package jsonld

import (
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ScriptType is the script type attribute marking a JSON-LD block.
const ScriptType = "application/ld+json"

// ParseNode extracts every JSON-LD entity under root, in document
// order. The returned errors describe skipped malformed blocks; they
// never prevent a result.
func ParseNode(root *html.Node) ([]any, []error) {
	entities := []any{}
	var errs []error

	idx := 0
	for n := range iterNodes(root) {
		if n.DataAtom != atom.Script || n.FirstChild == nil {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(getAttr(n, "type")), ScriptType) {
			continue
		}
		idx++

		text := strings.TrimSpace(textContent(n))
		if text == "" {
			continue
		}

		v, err := decode(text)
		if err != nil {
			errs = append(errs, fmt.Errorf("json-ld block %d: %w", idx, err))
			continue
		}

		// A @graph wrapper flattens to its members; the wrapper itself
		// is not an entity.
		if m, ok := v.(map[string]any); ok {
			if graph, ok := m["@graph"].([]any); ok {
				entities = append(entities, graph...)
				continue
			}
		}
		entities = append(entities, v)
	}

	return entities, errs
}

func decode(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return unescapeValues(v), nil
}

// unescapeValues recursively unescapes HTML entities in strings, per
// the JSON-LD script element content restrictions.
func unescapeValues(val any) any {
	switch t := val.(type) {
	case map[string]any:
		for k, v := range t {
			t[k] = unescapeValues(v)
		}
	case []any:
		for i, x := range t {
			t[i] = unescapeValues(x)
		}
	case string:
		return html.UnescapeString(t)
	}
	return val
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

func getAttr(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	buf := new(strings.Builder)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			buf.WriteString(c.Data)
		}
	}
	return buf.String()
}
