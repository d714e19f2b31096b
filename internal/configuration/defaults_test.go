package configuration

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type defaultsTarget struct {
	Name string
}

func TestDefaultsRegistry_GlobalBeforeKeyed(t *testing.T) {
	reg := NewDefaultsRegistry()
	typ := reflect.TypeOf(defaultsTarget{})
	key := BindingKey{Type: typ, Name: "prod"}

	var order []string
	reg.Register(GlobalDefaultsKey(typ), func(reflect.Value) { order = append(order, "global") })
	reg.Register(key, func(reflect.Value) { order = append(order, "keyed") })

	for _, h := range reg.Composed(key) {
		h.Apply(reflect.Value{})
	}

	assert.Equal(t, []string{"global", "keyed"}, order)
}

func TestDefaultsRegistry_KeyedOverridesGlobal(t *testing.T) {
	reg := NewDefaultsRegistry()
	typ := reflect.TypeOf(defaultsTarget{})
	key := BindingKey{Type: typ, Name: "prod"}

	reg.Register(GlobalDefaultsKey(typ), func(v reflect.Value) { v.FieldByName("Name").SetString("global") })
	reg.Register(key, func(v reflect.Value) { v.FieldByName("Name").SetString("keyed") })

	instance := reflect.New(typ).Elem()
	for _, h := range reg.Composed(key) {
		h.Apply(instance)
	}

	assert.Equal(t, "keyed", instance.Interface().(defaultsTarget).Name)
}

func TestDefaultsRegistry_UnrelatedKeyUnaffected(t *testing.T) {
	reg := NewDefaultsRegistry()
	typ := reflect.TypeOf(defaultsTarget{})
	other := BindingKey{Type: typ, Name: "other"}
	reg.Register(BindingKey{Type: typ, Name: "prod"}, func(reflect.Value) {})

	assert.Empty(t, reg.Composed(other))
}

func TestDefaultsRegistry_RegistrationOrderPreserved(t *testing.T) {
	reg := NewDefaultsRegistry()
	typ := reflect.TypeOf(defaultsTarget{})
	key := GlobalDefaultsKey(typ)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		reg.Register(key, func(reflect.Value) { order = append(order, i) })
	}
	for _, h := range reg.Composed(key) {
		h.Apply(reflect.Value{})
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}
