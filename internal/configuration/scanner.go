package configuration

import "reflect"

// ListenerElement marks a scanned element as an instance-bound listener
// registration.
type ListenerElement struct {
	Listener ConfigurationBindingListener
}

// DefaultsElement marks a scanned element as an instance-bound default
// registration for Key.
type DefaultsElement struct {
	Key   BindingKey
	Apply func(reflect.Value)
}

// ProviderElement marks a scanned element as a provider-instance binding.
type ProviderElement struct {
	Provider *Provider
	Source   BindingSource
}

// ConfigurationAwareModule is given a chance to register further
// providers once the registry it will use is known, before the element
// stream is fully walked.
type ConfigurationAwareModule interface {
	SetConfigurationFactory(r *Registry)
}

// Scan walks elements, dispatching each recognised shape into registry
// and defs, in order: listener, defaults and provider elements, plus any
// ConfigurationAwareModule, which is handed the registry. Any other element
// passes through silently — this is a scanner, not a validator of
// the surrounding DI graph. Structural problems are returned as a single
// batch.
func Scan(elements []any, registry *Registry, defs *DefaultsRegistry) *Problems {
	problems := NewProblems()

	for _, el := range elements {
		switch v := el.(type) {
		case ListenerElement:
			if v.Listener == nil {
				problems.AddError("listener element has a nil Listener")
				continue
			}
			registry.AddListener(v.Listener)

		case DefaultsElement:
			if v.Apply == nil {
				problems.AddError("defaults element for key %v has a nil Apply", v.Key)
				continue
			}
			defs.Register(v.Key, v.Apply)

		case ProviderElement:
			if v.Provider == nil {
				problems.AddError("provider element has a nil Provider")
				continue
			}
			registry.RegisterProvider(v.Provider, v.Source)

		case ConfigurationAwareModule:
			v.SetConfigurationFactory(registry)

		default:
			// Pass through: not every element in an external stream is
			// this engine's concern.
		}
	}

	return problems
}
