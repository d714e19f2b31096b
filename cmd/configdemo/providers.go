package main

import (
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/vitaliisemenov/confbind/internal/configuration"
)

var providersCmd = &cobra.Command{
	Use:   "providers [property-file]",
	Short: "Register the sample providers and list their binding sources",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProviders,
}

// printingListener records every provider registration it is notified
// about, in order, for the providers subcommand's output.
type printingListener struct {
	bound []*configuration.Provider
}

func (l *printingListener) ConfigurationBound(p *configuration.Provider, _ *configuration.Registry) {
	l.bound = append(l.bound, p)
}

func runProviders(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	props, err := loadProperties(path)
	if err != nil {
		return err
	}

	defs := configuration.NewDefaultsRegistry()
	registerSampleDefaults(defs)

	registry := configuration.NewRegistry(configuration.NewFactory(logger), props, defs, nil)

	listener := &printingListener{}
	registry.AddListener(listener)

	typ := reflect.TypeOf(serviceConfig{})
	elements := []any{
		configuration.ProviderElement{
			Provider: &configuration.Provider{ConfigType: typ, Prefix: "primary", Key: configuration.GlobalDefaultsKey(typ)},
			Source:   configuration.NewBindingSource(),
		},
		configuration.ProviderElement{
			Provider: &configuration.Provider{ConfigType: typ, Prefix: "secondary", Key: configuration.GlobalDefaultsKey(typ)},
			Source:   configuration.NewBindingSource(),
		},
	}

	if problems := configuration.Scan(elements, registry, defs); problems.HasErrors() {
		return fmt.Errorf("failed to scan provider elements: %v", problems.Errors())
	}

	for _, p := range listener.bound {
		fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s (prefix=%q, source=%s)\n", p.ConfigType.Name(), p.ID, p.Prefix, p.Source)
	}
	return nil
}
