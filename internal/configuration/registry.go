package configuration

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// BindingSource is an opaque provenance marker, attached to a provider at
// registration time and used to decorate diagnostics. A zero-value
// BindingSource is treated as "unknown".
type BindingSource string

// NewBindingSource mints a fresh, opaque source token, grounded in the
// teacher's use of google/uuid for identity tokens.
func NewBindingSource() BindingSource {
	return BindingSource(uuid.NewString())
}

// Provider identifies one binding: a configuration type, an optional
// prefix, the defaults key it composes under, and its provenance. It is
// both the instance-cache key and the subject of listener notifications.
type Provider struct {
	ID         string
	ConfigType reflect.Type
	Prefix     string
	Key        BindingKey
	Source     BindingSource
}

func providerKey(p *Provider) string {
	return fmt.Sprintf("%s|%s|%s", p.ConfigType, p.Prefix, p.Key.Name)
}

// WarningsMonitor receives every warning accumulated by a successful
// build, one call per warning.
type WarningsMonitor interface {
	OnWarning(msg string)
}

// ConfigurationBindingListener is notified once for every provider, at
// registration time — whether the listener was added before or after that
// provider was registered.
type ConfigurationBindingListener interface {
	ConfigurationBound(p *Provider, registry *Registry)
}

var registryMetricsOnce sync.Once
var (
	buildsTotal    prometheus.Counter
	cacheHitsTotal prometheus.Counter
	warningsTotal  prometheus.Counter
)

func registerMetrics() {
	registryMetricsOnce.Do(func() {
		buildsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "confbind_builds_total",
			Help: "Number of configuration instances actually built (cache misses).",
		})
		cacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "confbind_cache_hits_total",
			Help: "Number of Build calls served from the instance cache.",
		})
		warningsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "confbind_warnings_total",
			Help: "Number of warnings accumulated across all builds.",
		})
		prometheus.MustRegister(buildsTotal, cacheHitsTotal, warningsTotal)
	})
}

// Registry is the provider registry: it tracks registered providers, caches
// one built instance per provider (publish-once), drives binding listeners,
// and runs whole-graph validation.
type Registry struct {
	factory *Factory
	props   map[string]string
	defs    *DefaultsRegistry
	monitor WarningsMonitor

	instances sync.Map // string (providerKey) -> reflect.Value

	// mu guards providers and listeners together: RegisterProvider's store
	// into providers and AddListener's snapshot of providers (and vice
	// versa) must happen as one atomic step, or a listener can be notified
	// twice for the same provider — once from AddListener's catch-up range,
	// once from a RegisterProvider call that raced in between the store and
	// the listener snapshot.
	mu        sync.Mutex
	providers map[string]*Provider // providerKey -> *Provider
	listeners []ConfigurationBindingListener
}

// NewRegistry returns a Registry bound to a concrete property map and
// defaults registry. props is never mutated by the registry or by any
// build it drives.
func NewRegistry(factory *Factory, props map[string]string, defs *DefaultsRegistry, monitor WarningsMonitor) *Registry {
	if factory == nil {
		factory = NewFactory(nil)
	}
	if defs == nil {
		defs = NewDefaultsRegistry()
	}
	registerMetrics()
	return &Registry{factory: factory, props: props, defs: defs, monitor: monitor, providers: map[string]*Provider{}}
}

// RegisterProvider adds p to the registered set, stores its binding
// source, and notifies every currently-registered listener. The store into
// providers and the listener snapshot are taken under the same lock, so a
// concurrent AddListener either sees p already in providers (and catches up
// on it itself) or doesn't yet (and will be in this call's snapshot) —
// never both. Listener callbacks run outside the lock so a listener calling
// back into the registry cannot deadlock.
func (r *Registry) RegisterProvider(p *Provider, source BindingSource) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Source = source

	r.mu.Lock()
	r.providers[providerKey(p)] = p
	snapshot := append([]ConfigurationBindingListener{}, r.listeners...)
	r.mu.Unlock()

	for _, l := range snapshot {
		l.ConfigurationBound(p, r)
	}
}

// AddListener appends l and notifies it once for every provider already
// registered, taking the provider snapshot under the same lock
// RegisterProvider uses to store into providers — together the two
// guarantee every listener sees every provider exactly once, regardless of
// registration order or interleaving.
func (r *Registry) AddListener(l ConfigurationBindingListener) {
	r.mu.Lock()
	r.listeners = append(r.listeners, l)
	snapshot := make([]*Provider, 0, len(r.providers))
	for _, p := range r.providers {
		snapshot = append(snapshot, p)
	}
	r.mu.Unlock()

	for _, p := range snapshot {
		l.ConfigurationBound(p, r)
	}
}

// Build returns the cached instance for p, building it on first use.
// Concurrent callers racing on the same p publish at most one winner:
// LoadOrStore guarantees that, and a loser's freshly-built instance (and
// its warnings) is discarded.
func (r *Registry) Build(p *Provider) (any, error) {
	key := providerKey(p)
	if cached, ok := r.instances.Load(key); ok {
		cacheHitsTotal.Inc()
		return cached.(reflect.Value).Interface(), nil
	}

	instance, problems := r.factory.Build(p.ConfigType, p.Prefix, r.defs.Composed(p.Key), r.props)
	if err := problems.ThrowIfHasErrors(); err != nil {
		return nil, err
	}

	actual, loaded := r.instances.LoadOrStore(key, instance)
	if !loaded {
		buildsTotal.Inc()
		warningsTotal.Add(float64(len(problems.Warnings())))
		if r.monitor != nil {
			for _, w := range problems.Warnings() {
				r.monitor.OnWarning(w.Text)
			}
		}
	} else {
		cacheHitsTotal.Inc()
	}
	return actual.(reflect.Value).Interface(), nil
}

// ValidateAll builds every registered provider, collecting any
// ConfigurationError into a single batch rather than stopping at the
// first failure. Each message is annotated with its provider's binding
// source.
func (r *Registry) ValidateAll() error {
	r.mu.Lock()
	snapshot := make([]*Provider, 0, len(r.providers))
	for _, p := range r.providers {
		snapshot = append(snapshot, p)
	}
	r.mu.Unlock()

	var messages []Message
	for _, p := range snapshot {
		if _, err := r.Build(p); err != nil {
			if cfgErr, ok := err.(*ConfigurationError); ok {
				for _, m := range cfgErr.Messages {
					m.Source = string(p.Source)
					messages = append(messages, m)
				}
			} else {
				messages = append(messages, Message{Source: string(p.Source), Text: err.Error()})
			}
		}
	}
	if len(messages) == 0 {
		return nil
	}
	return &ConfigurationError{Messages: messages}
}
