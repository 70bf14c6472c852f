// SPDX-FileCopyrightText: © 2025 the meta-oxide authors
//
// SPDX-License-Identifier: MIT OR Apache-2.0

package structdata

import (
	"regexp"
	"strings"
	"unicode"
)

var rxRootClass = regexp.MustCompile(`^h(?:-[a-z0-9]+)+$`)

// propertyPrefixes maps a microformats2 class prefix to the value kind
// its properties coerce to. Read-only after initialization.
var propertyPrefixes = map[string]Kind{
	"p":  KindText,
	"u":  KindURL,
	"e":  KindHTML,
	"dt": KindDateTime,
}

// PropertyClass is a classified property class token: the value kind it
// dispatches to and the canonical property name.
type PropertyClass struct {
	Kind Kind
	Name string
}

// ParsePropertyClass classifies one class token. It returns false for
// anything that is not a p-*, u-*, e-* or dt-* property token.
func ParsePropertyClass(token string) (PropertyClass, bool) {
	prefix, rest, found := strings.Cut(token, "-")
	if !found || rest == "" {
		return PropertyClass{}, false
	}
	kind, ok := propertyPrefixes[prefix]
	if !ok {
		return PropertyClass{}, false
	}
	return PropertyClass{Kind: kind, Name: CanonicalName(rest)}, true
}

// IsRootClass reports whether a class token marks an item root
// (an "h-" prefixed, hyphenated lowercase vocabulary name).
func IsRootClass(token string) bool {
	return rxRootClass.MatchString(token)
}

// RootClasses returns the h-* tokens of a class list, in declared order.
func RootClasses(classList []string) []string {
	var res []string
	for _, token := range classList {
		if IsRootClass(token) {
			res = append(res, token)
		}
	}
	return res
}

// CanonicalName converts a property identifier to its canonical form:
// hyphenated tokens ("street-address") and camel case ("streetAddress")
// both become "street_address".
func CanonicalName(s string) string {
	buf := new(strings.Builder)
	buf.Grow(len(s) + 2)

	prev := '_'
	for _, r := range s {
		switch {
		case r == '-' || r == '_':
			r = '_'
		case unicode.IsUpper(r):
			if prev != '_' {
				buf.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		if r == '_' && prev == '_' {
			prev = r
			continue
		}
		buf.WriteRune(r)
		prev = r
	}

	return strings.TrimSuffix(buf.String(), "_")
}
