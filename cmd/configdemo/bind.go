package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vitaliisemenov/confbind/internal/configuration"
)

var bindOutputFormat string

var bindCmd = &cobra.Command{
	Use:   "bind [property-file]",
	Short: "Bind a property file (or environment only) to the sample service configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBind,
}

func init() {
	bindCmd.Flags().StringVar(&bindOutputFormat, "format", "yaml", "output format: yaml, toml, json")
}

func runBind(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	props, err := loadProperties(path)
	if err != nil {
		return reportBindError(cmd, err)
	}

	defs := configuration.NewDefaultsRegistry()
	registerSampleDefaults(defs)

	monitor := &loggingMonitor{logger: logger}
	registry := configuration.NewRegistry(configuration.NewFactory(logger), props, defs, monitor)

	typ := reflect.TypeOf(serviceConfig{})
	provider := &configuration.Provider{ConfigType: typ, Key: configuration.GlobalDefaultsKey(typ)}
	registry.RegisterProvider(provider, configuration.NewBindingSource())

	instance, err := registry.Build(provider)
	if err != nil {
		return reportBindError(cmd, err)
	}

	rendered, err := renderInstance(instance, bindOutputFormat)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

// reportBindError renders a binding failure as a structured cliError when
// --format json was requested, otherwise returns err unchanged so cobra
// prints it as plain text.
func reportBindError(cmd *cobra.Command, err error) error {
	if bindOutputFormat != "json" {
		return err
	}
	var details any = err.Error()
	if cfgErr, ok := err.(*configuration.ConfigurationError); ok {
		details = cfgErr.Messages
	}
	cliErr := newCliError(codeInternalError, "failed to bind configuration").WithDetails(details)
	if writeErr := writeCliError(cmd.ErrOrStderr(), cliErr); writeErr != nil {
		return writeErr
	}
	return fmt.Errorf("bind failed")
}

func renderInstance(instance any, format string) (string, error) {
	switch format {
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(instance); err != nil {
			return "", fmt.Errorf("failed to render as TOML: %w", err)
		}
		return buf.String(), nil
	case "json":
		out, err := json.MarshalIndent(instance, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to render as JSON: %w", err)
		}
		return string(out) + "\n", nil
	case "yaml", "":
		out, err := yaml.Marshal(instance)
		if err != nil {
			return "", fmt.Errorf("failed to render as YAML: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// loggingMonitor reports builder warnings through the CLI's structured
// logger, the WarningsMonitor hook a real caller would use to surface
// deprecation notices without parsing log lines.
type loggingMonitor struct {
	logger interface {
		Warn(msg string, args ...any)
	}
}

func (m *loggingMonitor) OnWarning(msg string) {
	if m.logger != nil {
		m.logger.Warn(msg)
	}
}
