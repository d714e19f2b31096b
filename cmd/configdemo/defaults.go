package main

import (
	"net/url"
	"reflect"
	"time"

	"github.com/vitaliisemenov/confbind/internal/configuration"
)

// registerSampleDefaults installs the baseline values serviceConfig falls
// back to when no property supplies an attribute, the same setDefaults
// layering the service's own LoadConfig uses (file/env values always win
// over these).
func registerSampleDefaults(defs *configuration.DefaultsRegistry) {
	typ := reflect.TypeOf(serviceConfig{})
	key := configuration.GlobalDefaultsKey(typ)

	defaultURL, _ := url.Parse("https://upstream.internal/api")

	defs.Register(key, func(v reflect.Value) {
		v.FieldByName("HTTPPort").SetInt(8080)
		v.FieldByName("HTTPHost").SetString("0.0.0.0")
		v.FieldByName("LogLevel").SetString("INFO")
		v.FieldByName("ShutdownGrace").Set(reflect.ValueOf(30 * time.Second))
		v.FieldByName("UpstreamURL").Set(reflect.ValueOf(*defaultURL))

		path := "/metrics"
		v.FieldByName("MetricsPath").Set(reflect.ValueOf(&path))
	})
}
