// SPDX-FileCopyrightText: © 2025 the meta-oxide authors
//
// SPDX-License-Identifier: MIT OR Apache-2.0

/*
Package extract runs every metadata extractor over a parsed HTML tree
and merges their output into a single category keyed result. Each
extractor works on its own vocabulary, a page may carry any mix of
them, or none.
*/
package extract

import (
	"encoding/json"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/yfedoseev/meta-oxide/pkg/extract/jsonld"
	"github.com/yfedoseev/meta-oxide/pkg/extract/meta"
	"github.com/yfedoseev/meta-oxide/pkg/extract/microdata"
	"github.com/yfedoseev/meta-oxide/pkg/extract/microformats"
	"github.com/yfedoseev/meta-oxide/pkg/extract/rdfa"
	"github.com/yfedoseev/meta-oxide/pkg/extract/structdata"
)

type (
	// Result holds the merged output of every extractor. The flat tag
	// categories are always present, the structured ones only when the
	// page declares them.
	Result struct {
		Tags         *meta.Tags
		Microformats *microformats.Collection
		Microdata    []*structdata.Item
		RDFa         []*structdata.Item
		JSONLD       []any

		errors []error
	}

	// Option is a functional option for FromNode.
	Option func(*config)

	config struct {
		logger   *slog.Logger
		maxDepth int
	}
)

// WithLogger sets the logger used during extraction.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxDepth sets the nesting bound of the structured extractors.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// FromNode extracts every supported vocabulary from a parsed HTML
// tree. URL valued properties are resolved against baseURL, which may
// be empty. Extraction always produces a result, recoverable trouble
// such as an unreadable JSON-LD block lands in [Result.Errors].
func FromNode(root *html.Node, baseURL string, options ...Option) *Result {
	c := &config{
		logger:   slog.Default(),
		maxDepth: structdata.DefaultMaxDepth,
	}
	for _, o := range options {
		o(c)
	}

	res := &Result{
		Tags:         meta.ParseNode(root, baseURL),
		Microformats: microformats.ParseNodeDepth(root, baseURL, c.maxDepth),
		Microdata:    microdata.ParseNodeDepth(root, baseURL, c.maxDepth),
		RDFa:         rdfa.ParseNodeDepth(root, baseURL, c.maxDepth),
	}
	res.JSONLD, res.errors = jsonld.ParseNode(root)

	for _, err := range res.errors {
		c.logger.Warn("json-ld", slog.Any("err", err))
	}
	c.logger.Debug("extraction done",
		slog.String("url", baseURL),
		slog.Int("microformats", len(res.Microformats.Items)),
		slog.Int("microdata", len(res.Microdata)),
		slog.Int("rdfa", len(res.RDFa)),
		slog.Int("jsonld", len(res.JSONLD)),
	)

	return res
}

// Errors returns the recoverable errors met during extraction.
func (r *Result) Errors() []error {
	return r.errors
}

// MarshalJSON renders the result with its flat categories always
// present and the structured ones omitted when empty.
func (r *Result) MarshalJSON() ([]byte, error) {
	type envelope struct {
		*meta.Tags
		Microformats []*structdata.Item `json:"microformats,omitempty"`
		Microdata    []*structdata.Item `json:"microdata,omitempty"`
		RDFa         []*structdata.Item `json:"rdfa,omitempty"`
		JSONLD       []any              `json:"jsonld,omitempty"`
	}

	env := envelope{
		Tags:      r.Tags,
		Microdata: r.Microdata,
		RDFa:      r.RDFa,
		JSONLD:    r.JSONLD,
	}
	if r.Microformats != nil {
		env.Microformats = r.Microformats.Items
	}

	return json.Marshal(env)
}
