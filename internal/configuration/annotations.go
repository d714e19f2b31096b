// Package configuration implements a reflection-based binding engine that
// materialises strongly-typed configuration structs from a flat
// map[string]string of properties.
package configuration

import (
	"strconv"
	"strings"
)

// Struct tag keys recognised on configuration struct fields. These are the
// Go-native stand-in for the Java annotation contract in the original
// system: a struct tag on an exported field plays the role an annotation on
// a setter used to.
const (
	tagConfig     = "config"     // canonical property name
	tagLegacy     = "legacy"     // comma-separated deprecated aliases
	tagSecret     = "secret"     // "true" marks the attribute security-sensitive
	tagDeprecated = "deprecated" // "since=X,removal" or "since=X" or "removal"
	tagLegacyOnly = "legacyOnly" // "true": field has no canonical name of its own
)

// Deprecation records a `deprecated:"..."` tag on a field.
type Deprecation struct {
	Since      string
	ForRemoval bool
}

// parseDeprecated parses a `deprecated:"since=1.2,removal"` tag value.
// Either component may be absent; an empty tag value still marks the
// field deprecated (matching the original's no-argument deprecation
// marker).
func parseDeprecated(tag string) *Deprecation {
	d := &Deprecation{}
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "removal" {
			d.ForRemoval = true
			continue
		}
		if k, v, ok := strings.Cut(part, "="); ok && strings.TrimSpace(k) == "since" {
			d.Since = strings.TrimSpace(v)
		}
	}
	return d
}

func parseBoolTag(tag string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(tag))
	return err == nil && b
}

// DefunctConfig is implemented by a configuration type that declares
// property names which must never appear in the input. Unlike the
// per-field tags above, defunct names are a type-level concern (there is
// no single field to hang a tag from), so this is a marker interface
// implemented on the zero value of the configuration type.
type DefunctConfig interface {
	DefunctProperties() []string
}

// ConfigValueParser is the Go-native stand-in for a user-defined
// single-string factory (the original's static `fromString`). A
// configuration attribute whose declared type implements this interface
// (via a pointer receiver) is populated by constructing a zero value and
// calling ParseConfigValue on it; this is tried before the built-in enum
// cascade, matching the precedence the binding engine requires.
type ConfigValueParser interface {
	ParseConfigValue(raw string) error
}

// Enum is implemented by a defined string type that wants
// fuzzy, case-insensitive coercion against a fixed set of declared names.
// EnumValues is called on the zero value, so it must not depend on
// instance state.
type Enum interface {
	EnumValues() []string
}
