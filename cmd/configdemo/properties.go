package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// loadProperties reads a YAML or TOML file (chosen by extension and passed
// to viper's SetConfigType, which LoadConfig calls with a fixed "yaml") and
// flattens it into
// the flat dot-separated property map the binding engine consumes.
// Environment variables prefixed CONFDEMO_ override anything read from the
// file, layered the same way LoadConfigFromEnv layers viper.AutomaticEnv
// on top of file values.
func loadProperties(path string) (map[string]string, error) {
	v := viper.New()
	v.SetEnvPrefix("confdemo")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			v.SetConfigType("toml")
		default:
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read property file: %w", err)
		}
	}

	props := map[string]string{}
	flatten("", v.AllSettings(), props)
	return props, nil
}

// flatten walks a nested map produced by a YAML/TOML decoder and writes
// dot-separated leaf keys into out, stringifying every scalar leaf. Map
// keys decoded as map[any]any (a quirk of some YAML decoders) are handled
// alongside the common map[string]any shape.
func flatten(prefix string, node any, out map[string]string) {
	switch v := node.(type) {
	case map[string]any:
		for key, value := range v {
			flatten(joinKey(prefix, key), value, out)
		}
	case map[any]any:
		for key, value := range v {
			flatten(joinKey(prefix, fmt.Sprintf("%v", key)), value, out)
		}
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, fmt.Sprintf("%v", item))
		}
		out[prefix] = strings.Join(items, ",")
	case nil:
		// absent value: leave unset rather than binding an empty string
	default:
		out[prefix] = fmt.Sprintf("%v", v)
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// renderProperties produces a stable, sorted "key=value" rendering of a
// property map, used by the diff subcommand.
func renderProperties(props map[string]string) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s=%s", k, props[k]))
	}
	return lines
}
