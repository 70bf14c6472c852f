// SPDX-FileCopyrightText: © 2025 the meta-oxide authors
//
// SPDX-License-Identifier: MIT OR Apache-2.0

package structdata

import (
	"net/url"
	"strings"
)

// ResolveURL resolves candidate against base using standard relative
// reference resolution. It never fails: an absolute candidate is
// returned unchanged, and so is the candidate whenever base is empty,
// not absolute or unparsable. A base with an empty path is treated as
// ending with "/". The function is pure; every extractor calls it at
// the exact point a URL value is produced so all of them observe the
// same resolution semantics.
func ResolveURL(base, candidate string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return candidate
	}

	if u, err := url.Parse(candidate); err == nil && u.IsAbs() {
		return candidate
	} else if err != nil {
		return candidate
	}

	if base == "" {
		return candidate
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return candidate
	}
	if b.Path == "" {
		b.Path = "/"
	}

	ref, _ := url.Parse(candidate)
	return b.ResolveReference(ref).String()
}
