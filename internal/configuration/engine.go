package configuration

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// sharedValidator is a process-wide constraint validator, serialised under
// a lock. go-playground's validator.Validate is in practice safe for
// concurrent Struct calls, but construction is cheap enough that a single,
// explicitly-serialised instance is kept rather than relying on that.
var (
	sharedValidator   = validator.New()
	sharedValidatorMu sync.Mutex
)

// Factory is the long-lived binding context. It owns the seen/used
// property sets for the lifetime of a configuration phase; built
// instances outlive it.
type Factory struct {
	logger *slog.Logger

	seen sync.Map // string -> struct{}
	used sync.Map // string -> bool (securitySensitive)
}

// NewFactory returns a Factory. A nil logger falls back to slog.Default.
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// SeenProperties returns every prefixed property name any build has
// examined so far, regardless of whether a value was present.
func (f *Factory) SeenProperties() []string {
	return keysOf(&f.seen)
}

// UsedProperties returns every prefixed property name that was actually
// coerced and applied to a bound instance, with its security sensitivity.
func (f *Factory) UsedProperties() []PropertyMetadata {
	var out []PropertyMetadata
	f.used.Range(func(k, v any) bool {
		out = append(out, PropertyMetadata{Name: k.(string), SecuritySensitive: v.(bool)})
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func keysOf(m *sync.Map) []string {
	var out []string
	m.Range(func(k, _ any) bool {
		out = append(out, k.(string))
		return true
	})
	sort.Strings(out)
	return out
}

// Build materialises an instance of cfgType from props, applying defaults,
// resolving legacy/operative conflicts, coercing values, and running
// constraint validation, throwing (returning a non-nil Problems with
// errors, alongside a nil instance) at each phase boundary.
func (f *Factory) Build(cfgType reflect.Type, prefix string, defaults []DefaultsHolder, props map[string]string) (reflect.Value, *Problems) {
	problems := NewProblems()

	// Step 1: normalise prefix.
	if prefix != "" && !strings.HasSuffix(prefix, ".") {
		prefix += "."
	}

	// Step 2: load metadata, merge structural problems, throw if errors.
	meta := Metadata(cfgType)
	problems.Record(meta.Problems)
	if problems.HasErrors() {
		return reflect.Value{}, problems
	}

	// Step 3: instantiate.
	instance := meta.New()

	// Step 4: apply defaults (global, then per-key, each in registration order).
	for _, d := range defaults {
		d.Apply(instance)
	}

	// Step 5: resolve and apply each attribute, in a stable order.
	names := make([]string, 0, len(meta.Attributes))
	for name := range meta.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		attr := meta.Attributes[name]
		f.bindAttribute(instance, prefix, attr, props, problems)
	}

	// Step 6: defunct properties.
	for name := range meta.DefunctProperties {
		if name == "" {
			continue
		}
		if _, present := props[prefix+name]; present {
			problems.AddError("Defunct property '%s' (class [%s]) cannot be configured.", name, cfgType.Name())
		}
	}

	// Step 7: throw accumulated errors.
	if problems.HasErrors() {
		return reflect.Value{}, problems
	}

	// Step 8: constraint validation.
	f.validate(cfgType, instance, meta, prefix, problems)

	// Step 9: throw accumulated errors; instance + warnings otherwise.
	if problems.HasErrors() {
		return reflect.Value{}, problems
	}
	return instance, problems
}

func (f *Factory) bindAttribute(instance reflect.Value, prefix string, attr *AttributeMetadata, props map[string]string, problems *Problems) {
	if attr.Operative != nil {
		f.seen.Store(prefix+attr.Operative.PropertyName, struct{}{})
	}
	for _, l := range attr.Legacy {
		f.seen.Store(prefix+l.PropertyName, struct{}{})
	}

	var (
		candidateValue string
		candidateFound bool
		candidateFrom  string // "" (none yet), "operative", or a legacy property name
		chosenProperty string
	)

	if attr.Operative != nil {
		if v, ok := props[prefix+attr.Operative.PropertyName]; ok {
			candidateValue, candidateFound, candidateFrom = v, true, "operative"
			chosenProperty = attr.Operative.PropertyName
		}
	}

	operativeName := ""
	if attr.Operative != nil {
		operativeName = attr.Operative.PropertyName
	}

	for _, legacy := range attr.Legacy {
		v, ok := props[prefix+legacy.PropertyName]
		if !ok {
			continue
		}
		if operativeName != "" {
			problems.AddWarning("Configuration property '%s' has been replaced. Use '%s' instead.", prefix+legacy.PropertyName, prefix+operativeName)
		} else {
			problems.AddWarning("Configuration property '%s' has been deprecated.", prefix+legacy.PropertyName)
		}

		if !candidateFound {
			candidateValue, candidateFound, candidateFrom = v, true, legacy.PropertyName
			chosenProperty = legacy.PropertyName
			continue
		}
		if candidateFrom != "operative" {
			problems.AddError("Configuration property '%s' conflicts with '%s'.", prefix+legacy.PropertyName, prefix+candidateFrom)
		}
	}

	if !candidateFound {
		return // leave defaults intact
	}

	if attr.Deprecated != nil && chosenProperty == operativeName {
		if attr.Deprecated.ForRemoval {
			problems.AddWarning("Configuration property '%s' has been deprecated and will be removed.", prefix+chosenProperty)
		} else {
			problems.AddWarning("Configuration property '%s' has been deprecated.", prefix+chosenProperty)
		}
	}

	f.used.Store(prefix+chosenProperty, attr.SecuritySensitive)

	field := instance.FieldByIndex(attr.FieldIndex)
	value, ok := Coerce(attr.FieldType, candidateValue)
	if !ok {
		display := candidateValue
		if attr.SecuritySensitive {
			display = Redacted
		}
		problems.AddError("Invalid value '%s' for type %s (property '%s')", display, attr.FieldType, prefix+chosenProperty)
		return
	}
	field.Set(value)
}

// validate runs the shared, serialised constraint validator over instance
// and maps each *validator.FieldError* back to the attribute it concerns,
// using the same namespace-to-field-path approach as
// DefaultConfigValidator.fieldPathFromNamespace, adapted to attribute
// lookup instead of section filtering.
func (f *Factory) validate(cfgType reflect.Type, instance reflect.Value, meta *ConfigurationMetadata, prefix string, problems *Problems) {
	sharedValidatorMu.Lock()
	err := sharedValidator.Struct(instance.Addr().Interface())
	sharedValidatorMu.Unlock()

	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		problems.AddError("constraint validation failed: %s", err)
		return
	}
	for _, v := range verrs {
		fieldName := lastNamespaceSegment(v.StructNamespace())
		if attr, exists := meta.Attributes[fieldName]; exists {
			propName := fieldName
			if attr.Operative != nil {
				propName = attr.Operative.PropertyName
			}
			problems.AddError("Invalid configuration property %s: %s (for class %s.%s)", propName, validationMessage(v), cfgType.Name(), fieldName)
			continue
		}
		problems.AddError("Invalid configuration property %s%s: %s (for class %s)", prefix, fieldName, validationMessage(v), cfgType.Name())
	}
}

// lastNamespaceSegment extracts the field name from a validator namespace
// like "HTTPConfig.Port" -> "Port".
func lastNamespaceSegment(namespace string) string {
	if i := strings.LastIndex(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func validationMessage(v validator.FieldError) string {
	switch v.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", v.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", v.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", v.Param())
	default:
		return fmt.Sprintf("failed constraint %q", v.Tag())
	}
}
