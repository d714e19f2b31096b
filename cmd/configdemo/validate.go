package main

import (
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/vitaliisemenov/confbind/internal/configuration"
)

var validateOutputFormat string

var validateCmd = &cobra.Command{
	Use:   "validate [property-file]",
	Short: "Bind and run constraint validation only, without printing the instance",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateOutputFormat, "format", "text", "failure output format: text, json")
}

func runValidate(cmd *cobra.Command, args []string) error {
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
	typ := reflect.TypeOf(serviceConfig{})
	provider := &configuration.Provider{ConfigType: typ, Key: configuration.GlobalDefaultsKey(typ)}
	registry.RegisterProvider(provider, configuration.NewBindingSource())

	if err := registry.ValidateAll(); err != nil {
		if validateOutputFormat == "json" {
			var details any = err.Error()
			if cfgErr, ok := err.(*configuration.ConfigurationError); ok {
				details = cfgErr.Messages
			}
			cliErr := newCliError(codeValidationError, "configuration validation failed").WithDetails(details)
			if writeErr := writeCliError(cmd.ErrOrStderr(), cliErr); writeErr != nil {
				return writeErr
			}
			return fmt.Errorf("validation failed")
		}
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return fmt.Errorf("validation failed")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
	return nil
}
