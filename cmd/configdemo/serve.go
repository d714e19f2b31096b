package main

import (
	"encoding/json"
	"net/http"
	"reflect"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/vitaliisemenov/confbind/internal/configuration"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve [property-file]",
	Short: "Serve a read-only debug endpoint over the sample binding's property usage",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8090", "listen address")
}

type debugProperties struct {
	Seen    []string                      `json:"seen"`
	Used    []configuration.PropertyMetadata `json:"used"`
	Defunct []string                      `json:"defunct"`
}

func runServe(cmd *cobra.Command, args []string) error {
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

	factory := configuration.NewFactory(logger)
	registry := configuration.NewRegistry(factory, props, defs, nil)

	typ := reflect.TypeOf(serviceConfig{})
	provider := &configuration.Provider{ConfigType: typ, Key: configuration.GlobalDefaultsKey(typ)}
	registry.RegisterProvider(provider, configuration.NewBindingSource())

	// Bind once up front so /debug/properties has something to report even
	// before a client hits the endpoint; Build is publish-once, so this
	// does not cost a second bind later.
	if _, err := registry.Build(provider); err != nil {
		return err
	}

	meta := configuration.Metadata(typ)
	var defunct []string
	for name := range meta.DefunctProperties {
		defunct = append(defunct, name)
	}

	router := mux.NewRouter()
	router.HandleFunc("/debug/properties", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(debugProperties{
			Seen:    factory.SeenProperties(),
			Used:    factory.UsedProperties(),
			Defunct: defunct,
		})
	}).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         serveAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	logger.Info("serving configuration debug endpoint", "addr", serveAddr)
	return server.ListenAndServe()
}
