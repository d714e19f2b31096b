package configuration

import (
	"reflect"
	"sort"
	"strings"
	"sync"
)

// InjectionPoint is a property name that resolves to an attribute. The
// operative injection point and every legacy injection point of the same
// attribute all share the same struct field — in Go a single field plays
// the role that several differently-annotated setter overloads play in
// the original system, so there is no per-injection-point declared type
// to track separately from the attribute's own FieldType.
type InjectionPoint struct {
	PropertyName string
}

// AttributeMetadata describes one configuration attribute: the struct
// field it binds to, its canonical (operative) property name, any
// deprecated aliases, and its security/deprecation flags.
type AttributeMetadata struct {
	AttributeName     string
	FieldIndex        []int
	FieldType         reflect.Type
	Operative         *InjectionPoint
	Legacy            []InjectionPoint
	SecuritySensitive bool
	Deprecated        *Deprecation
}

// ConfigurationMetadata is everything the binding engine needs to know
// about a configuration type, discovered once by reflection and memoised
// forever (component A never evicts its cache; a configuration type's
// shape cannot change at runtime).
type ConfigurationMetadata struct {
	Type              reflect.Type
	Attributes        map[string]*AttributeMetadata // keyed by AttributeName
	Problems          *Problems
	DefunctProperties map[string]struct{}
}

// New returns an addressable zero value of the configuration type — the
// Go equivalent of invoking a no-argument constructor.
func (m *ConfigurationMetadata) New() reflect.Value {
	return reflect.New(m.Type).Elem()
}

// PropertyMetadata records one property name consumed (or consumable) by
// a configuration type, for deterministic reporting.
type PropertyMetadata struct {
	Name              string
	SecuritySensitive bool
}

// ConsumedProperties lists every property name (operative and legacy) the
// metadata's attributes recognise, sorted by name.
func (m *ConfigurationMetadata) ConsumedProperties() []PropertyMetadata {
	var out []PropertyMetadata
	for _, attr := range m.Attributes {
		if attr.Operative != nil {
			out = append(out, PropertyMetadata{Name: attr.Operative.PropertyName, SecuritySensitive: attr.SecuritySensitive})
		}
		for _, l := range attr.Legacy {
			out = append(out, PropertyMetadata{Name: l.PropertyName, SecuritySensitive: attr.SecuritySensitive})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// metadataEntry is one type's slot in metadataCache; once guards its
// extraction.
type metadataEntry struct {
	once sync.Once
	meta *ConfigurationMetadata
}

var metadataCache sync.Map // reflect.Type -> *metadataEntry

// Metadata returns the memoised ConfigurationMetadata for t, extracting it
// on first use. t must be a struct type (not a pointer); callers that have
// a pointer should pass t.Elem(). Extraction runs at most once per type
// even under concurrent callers racing on the same type: they share one
// cache entry, and its sync.Once lets the first caller extract while the
// others wait for that result.
func Metadata(t reflect.Type) *ConfigurationMetadata {
	e, _ := metadataCache.LoadOrStore(t, &metadataEntry{})
	entry := e.(*metadataEntry)
	entry.once.Do(func() { entry.meta = extract(t) })
	return entry.meta
}

func extract(t reflect.Type) *ConfigurationMetadata {
	problems := NewProblems()
	meta := &ConfigurationMetadata{
		Type:              t,
		Attributes:        map[string]*AttributeMetadata{},
		Problems:          problems,
		DefunctProperties: map[string]struct{}{},
	}

	if t.Kind() != reflect.Struct {
		problems.AddError("configuration type %s is not a struct: has no addressable zero-value constructor", t)
		return meta
	}

	if zero := reflect.New(t).Interface(); true {
		if dc, ok := zero.(DefunctConfig); ok {
			for _, name := range dc.DefunctProperties() {
				meta.DefunctProperties[name] = struct{}{}
			}
		}
	}

	propertyOwner := map[string]string{} // property name -> attribute name that claims it

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}

		configTag, hasConfig := field.Tag.Lookup(tagConfig)
		legacyTag := field.Tag.Get(tagLegacy)
		secretTag := field.Tag.Get(tagSecret)
		deprecatedTag, hasDeprecated := field.Tag.Lookup(tagDeprecated)

		if !hasConfig && legacyTag == "" && secretTag == "" && !hasDeprecated {
			continue // plain Go field, not part of the binding contract
		}

		legacyOnly := parseBoolTag(field.Tag.Get(tagLegacyOnly))
		if !hasConfig && !legacyOnly {
			problems.AddError("field %s.%s has a %s/%s/%s tag but no %s tag: legacy names and flags require either an operative property name or %s:\"true\"",
				t.Name(), field.Name, tagLegacy, tagSecret, tagDeprecated, tagConfig, tagLegacyOnly)
			continue
		}
		if hasConfig && configTag == "" {
			problems.AddError("field %s.%s declares an empty %s tag", t.Name(), field.Name, tagConfig)
			continue
		}
		if legacyOnly && legacyTag == "" {
			problems.AddError("field %s.%s is marked %s but declares no %s names", t.Name(), field.Name, tagLegacyOnly, tagLegacy)
			continue
		}

		attr := &AttributeMetadata{
			AttributeName:     field.Name,
			FieldIndex:        append([]int{}, field.Index...),
			FieldType:         field.Type,
			SecuritySensitive: parseBoolTag(secretTag),
		}
		if hasDeprecated {
			attr.Deprecated = parseDeprecated(deprecatedTag)
		}

		if hasConfig {
			attr.Operative = &InjectionPoint{PropertyName: configTag}
			if owner, exists := propertyOwner[configTag]; exists {
				problems.AddError("property '%s' is claimed by both %s and %s", configTag, owner, field.Name)
			} else {
				propertyOwner[configTag] = field.Name
			}
		}

		for _, alias := range strings.Split(legacyTag, ",") {
			alias = strings.TrimSpace(alias)
			if alias == "" {
				continue
			}
			if owner, exists := propertyOwner[alias]; exists {
				problems.AddError("property '%s' is claimed by both %s and %s", alias, owner, field.Name)
				continue
			}
			propertyOwner[alias] = field.Name
			attr.Legacy = append(attr.Legacy, InjectionPoint{PropertyName: alias})
		}

		if _, exists := meta.Attributes[attr.AttributeName]; exists {
			problems.AddError("duplicate attribute name %s in %s", attr.AttributeName, t.Name())
			continue
		}
		meta.Attributes[attr.AttributeName] = attr
	}

	return meta
}
