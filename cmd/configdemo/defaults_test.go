package main

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaliisemenov/confbind/internal/configuration"
)

func TestRegisterSampleDefaults_AppliedWhenNoPropertiesGiven(t *testing.T) {
	defs := configuration.NewDefaultsRegistry()
	registerSampleDefaults(defs)

	factory := configuration.NewFactory(nil)
	instance, problems := factory.Build(reflect.TypeOf(serviceConfig{}), "", defs.Composed(configuration.GlobalDefaultsKey(reflect.TypeOf(serviceConfig{}))), map[string]string{})
	require.False(t, problems.HasErrors(), problems.Errors())

	cfg := instance.Interface().(serviceConfig)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "0.0.0.0", cfg.HTTPHost)
	assert.Equal(t, logLevel("INFO"), cfg.LogLevel)
	require.NotNil(t, cfg.MetricsPath)
	assert.Equal(t, "/metrics", *cfg.MetricsPath)
}

func TestRegisterSampleDefaults_OverriddenByExplicitProperty(t *testing.T) {
	defs := configuration.NewDefaultsRegistry()
	registerSampleDefaults(defs)

	factory := configuration.NewFactory(nil)
	instance, problems := factory.Build(reflect.TypeOf(serviceConfig{}), "", defs.Composed(configuration.GlobalDefaultsKey(reflect.TypeOf(serviceConfig{}))), map[string]string{"http.port": "9999"})
	require.False(t, problems.HasErrors(), problems.Errors())

	assert.Equal(t, 9999, instance.Interface().(serviceConfig).HTTPPort)
}
