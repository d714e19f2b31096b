package configuration

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverConfig struct {
	HTTPPort int `config:"http.port" legacy:"server.http-port,legacy.http"`
}

// Scenario 1: simple operative binding, no warnings.
func TestBuild_Scenario1_OperativeOnly(t *testing.T) {
	f := NewFactory(nil)
	instance, problems := f.Build(reflect.TypeOf(serverConfig{}), "", nil, map[string]string{"http.port": "8080"})
	require.False(t, problems.HasErrors(), problems.Errors())
	assert.Equal(t, 8080, instance.Interface().(serverConfig).HTTPPort)
	assert.Empty(t, problems.Warnings())
}

// Scenario 2: single legacy alias used, one "replaced" warning.
func TestBuild_Scenario2_LegacyReplacedWarning(t *testing.T) {
	f := NewFactory(nil)
	instance, problems := f.Build(reflect.TypeOf(serverConfig{}), "", nil, map[string]string{"server.http-port": "8080"})
	require.False(t, problems.HasErrors(), problems.Errors())
	assert.Equal(t, 8080, instance.Interface().(serverConfig).HTTPPort)
	require.Len(t, problems.Warnings(), 1)
	assert.Contains(t, problems.Warnings()[0].Text, "has been replaced. Use 'http.port' instead.")
}

// Scenario 3: two legacies present, no operative -> one conflict error,
// preceded by two warnings.
func TestBuild_Scenario3_LegacyConflict(t *testing.T) {
	f := NewFactory(nil)
	_, problems := f.Build(reflect.TypeOf(serverConfig{}), "", nil, map[string]string{
		"server.http-port": "8080",
		"legacy.http":      "9090",
	})
	require.True(t, problems.HasErrors())
	errs := problems.Errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "conflicts with")
	assert.Len(t, problems.Warnings(), 2)
}

// Scenario: operative wins even when legacies also present, with one
// warning per legacy and no errors.
func TestBuild_OperativePrecedenceOverLegacies(t *testing.T) {
	f := NewFactory(nil)
	instance, problems := f.Build(reflect.TypeOf(serverConfig{}), "", nil, map[string]string{
		"http.port":         "8080",
		"server.http-port":  "9090",
		"legacy.http":       "7070",
	})
	require.False(t, problems.HasErrors(), problems.Errors())
	assert.Equal(t, 8080, instance.Interface().(serverConfig).HTTPPort)
	assert.Len(t, problems.Warnings(), 2)
}

type enumConfig struct {
	Level level `config:"level"`
}

// Scenario 4: enum case-insensitive match.
func TestBuild_Scenario4_EnumCaseInsensitive(t *testing.T) {
	f := NewFactory(nil)
	instance, problems := f.Build(reflect.TypeOf(enumConfig{}), "", nil, map[string]string{"level": "Warn"})
	require.False(t, problems.HasErrors(), problems.Errors())
	assert.Equal(t, level("WARN"), instance.Interface().(enumConfig).Level)
}

type listConfig struct {
	Items []string `config:"items"`
}

// Scenario 5: comma-separated list, empties dropped, trimmed.
func TestBuild_Scenario5_ListSplitting(t *testing.T) {
	f := NewFactory(nil)
	instance, problems := f.Build(reflect.TypeOf(listConfig{}), "", nil, map[string]string{"items": "a, b ,,c"})
	require.False(t, problems.HasErrors(), problems.Errors())
	assert.Equal(t, []string{"a", "b", "c"}, instance.Interface().(listConfig).Items)
}

type defunctHolder struct {
	Dummy string `config:"dummy"`
}

func (defunctHolder) DefunctProperties() []string { return []string{"defunct.key"} }

// Scenario 6: defunct property present -> hard error.
func TestBuild_Scenario6_DefunctProperty(t *testing.T) {
	f := NewFactory(nil)
	_, problems := f.Build(reflect.TypeOf(defunctHolder{}), "", nil, map[string]string{"defunct.key": "x"})
	require.True(t, problems.HasErrors())
	assert.Contains(t, problems.Errors()[0], "Defunct property 'defunct.key'")
	assert.Contains(t, problems.Errors()[0], "cannot be configured.")
}

type secretConfig struct {
	Password chanWrapper `config:"password" secret:"true"`
}

// chanWrapper cannot be coerced by any branch, forcing an invalid-value
// error so scenario 7 can exercise redaction.
type chanWrapper struct{ C chan int }

// Scenario 7: coercion failure on a security-sensitive attribute redacts
// the raw value.
func TestBuild_Scenario7_RedactionOnCoercionFailure(t *testing.T) {
	f := NewFactory(nil)
	_, problems := f.Build(reflect.TypeOf(secretConfig{}), "", nil, map[string]string{"password": "hunter2"})
	require.True(t, problems.HasErrors())
	errs := problems.Errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], Redacted)
	assert.NotContains(t, errs[0], "hunter2")
}

func TestBuild_DefaultsKeptWhenNoPropertySupplied(t *testing.T) {
	f := NewFactory(nil)
	defaults := []DefaultsHolder{{Apply: func(v reflect.Value) {
		v.FieldByName("HTTPPort").SetInt(1234)
	}}}
	instance, problems := f.Build(reflect.TypeOf(serverConfig{}), "", defaults, map[string]string{})
	require.False(t, problems.HasErrors())
	assert.Equal(t, 1234, instance.Interface().(serverConfig).HTTPPort)
}

func TestBuild_PrefixIsApplied(t *testing.T) {
	f := NewFactory(nil)
	instance, problems := f.Build(reflect.TypeOf(serverConfig{}), "myservice", nil, map[string]string{"myservice.http.port": "80"})
	require.False(t, problems.HasErrors(), problems.Errors())
	assert.Equal(t, 80, instance.Interface().(serverConfig).HTTPPort)
}

func TestBuild_SeenAndUsedPropertiesTracked(t *testing.T) {
	f := NewFactory(nil)
	_, problems := f.Build(reflect.TypeOf(serverConfig{}), "", nil, map[string]string{"http.port": "80"})
	require.False(t, problems.HasErrors())

	assert.Contains(t, f.SeenProperties(), "http.port")
	assert.Contains(t, f.SeenProperties(), "server.http-port")

	used := f.UsedProperties()
	var usedNames []string
	for _, u := range used {
		usedNames = append(usedNames, u.Name)
	}
	assert.Contains(t, usedNames, "http.port")
}

type validatedConfig struct {
	Port int `config:"port" validate:"required,min=1,max=65535"`
}

func TestBuild_ConstraintValidationFailure(t *testing.T) {
	f := NewFactory(nil)
	_, problems := f.Build(reflect.TypeOf(validatedConfig{}), "", nil, map[string]string{"port": "0"})
	require.True(t, problems.HasErrors())
	assert.Contains(t, problems.Errors()[0], "Invalid configuration property")
}

func TestBuild_ConstraintValidationPasses(t *testing.T) {
	f := NewFactory(nil)
	instance, problems := f.Build(reflect.TypeOf(validatedConfig{}), "", nil, map[string]string{"port": "8080"})
	require.False(t, problems.HasErrors(), problems.Errors())
	assert.Equal(t, 8080, instance.Interface().(validatedConfig).Port)
}
