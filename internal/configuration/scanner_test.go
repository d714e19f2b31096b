package configuration

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scanTarget struct {
	Name string `config:"scan.name"`
}

func TestScan_ProviderElementRegistersProvider(t *testing.T) {
	reg := newTestRegistry(map[string]string{"scan.name": "x"}, nil)
	defs := NewDefaultsRegistry()
	typ := reflect.TypeOf(scanTarget{})
	p := &Provider{ConfigType: typ, Key: GlobalDefaultsKey(typ)}

	problems := Scan([]any{ProviderElement{Provider: p, Source: NewBindingSource()}}, reg, defs)
	require.False(t, problems.HasErrors())

	got, err := reg.Build(p)
	require.NoError(t, err)
	assert.Equal(t, "x", got.(scanTarget).Name)
}

func TestScan_DefaultsElementRegistersDefaults(t *testing.T) {
	reg := newTestRegistry(map[string]string{}, nil)
	defs := NewDefaultsRegistry()
	typ := reflect.TypeOf(scanTarget{})
	key := GlobalDefaultsKey(typ)

	problems := Scan([]any{DefaultsElement{Key: key, Apply: func(v reflect.Value) {
		v.FieldByName("Name").SetString("from-default")
	}}}, reg, defs)
	require.False(t, problems.HasErrors())

	p := &Provider{ConfigType: typ, Key: key}
	reg2 := NewRegistry(NewFactory(nil), map[string]string{}, defs, nil)
	got, err := reg2.Build(p)
	require.NoError(t, err)
	assert.Equal(t, "from-default", got.(scanTarget).Name)
}

func TestScan_ListenerElementRegistersListener(t *testing.T) {
	reg := newTestRegistry(map[string]string{"scan.name": "x"}, nil)
	defs := NewDefaultsRegistry()
	listener := &countingListener{}

	problems := Scan([]any{ListenerElement{Listener: listener}}, reg, defs)
	require.False(t, problems.HasErrors())

	typ := reflect.TypeOf(scanTarget{})
	reg.RegisterProvider(&Provider{ConfigType: typ, Key: GlobalDefaultsKey(typ)}, NewBindingSource())

	assert.Len(t, listener.bound, 1)
}

type awareModule struct {
	captured *Registry
}

func (m *awareModule) SetConfigurationFactory(r *Registry) {
	m.captured = r
}

func TestScan_ConfigurationAwareModuleReceivesRegistry(t *testing.T) {
	reg := newTestRegistry(map[string]string{}, nil)
	defs := NewDefaultsRegistry()
	module := &awareModule{}

	problems := Scan([]any{module}, reg, defs)
	require.False(t, problems.HasErrors())
	assert.Same(t, reg, module.captured)
}

func TestScan_UnrecognisedElementPassesThroughSilently(t *testing.T) {
	reg := newTestRegistry(map[string]string{}, nil)
	defs := NewDefaultsRegistry()

	problems := Scan([]any{"not a recognised shape", 42, nil}, reg, defs)
	assert.False(t, problems.HasErrors())
}

func TestScan_NilListenerIsStructuralError(t *testing.T) {
	reg := newTestRegistry(map[string]string{}, nil)
	defs := NewDefaultsRegistry()

	problems := Scan([]any{ListenerElement{Listener: nil}}, reg, defs)
	assert.True(t, problems.HasErrors())
}

func TestScan_NilProviderIsStructuralError(t *testing.T) {
	reg := newTestRegistry(map[string]string{}, nil)
	defs := NewDefaultsRegistry()

	problems := Scan([]any{ProviderElement{Provider: nil}}, reg, defs)
	assert.True(t, problems.HasErrors())
}

func TestScan_NilDefaultsApplyIsStructuralError(t *testing.T) {
	reg := newTestRegistry(map[string]string{}, nil)
	defs := NewDefaultsRegistry()
	typ := reflect.TypeOf(scanTarget{})

	problems := Scan([]any{DefaultsElement{Key: GlobalDefaultsKey(typ), Apply: nil}}, reg, defs)
	assert.True(t, problems.HasErrors())
}

func TestScan_MixedElementsAllDispatched(t *testing.T) {
	reg := newTestRegistry(map[string]string{"scan.name": "mixed"}, nil)
	defs := NewDefaultsRegistry()
	listener := &countingListener{}
	typ := reflect.TypeOf(scanTarget{})
	p := &Provider{ConfigType: typ, Key: GlobalDefaultsKey(typ)}

	problems := Scan([]any{
		ListenerElement{Listener: listener},
		ProviderElement{Provider: p, Source: NewBindingSource()},
	}, reg, defs)

	require.False(t, problems.HasErrors())
	assert.Len(t, listener.bound, 1)
}
