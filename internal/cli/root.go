// Package cli implements the owm command tree.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Seeyong/pyowm/internal/app"
	"github.com/Seeyong/pyowm/internal/config"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// Builder creates the application runtime for one command.
type Builder func(cfg *config.Config) (*app.App, error)

// options carries the persistent flags shared by every command.
type options struct {
	cfg     *config.Config
	build   Builder
	output  string
	apiKey  string
	metrics bool
}

// NewRootCommand builds the owm command tree on top of cfg. build is called
// once per command that talks to the API.
func NewRootCommand(cfg *config.Config, build Builder) *cobra.Command {
	o := &options{cfg: cfg, build: build}

	root := &cobra.Command{
		Use:   "owm",
		Short: "OpenWeatherMap API client",
		Long: `owm talks to the OpenWeatherMap API.

Get started:
  owm get /data/2.5/weather --param q=London   Raw GET against the API
  owm stations list                             List your weather stations
  owm stations create -f station.yaml           Register a station

The API key is read from OWM_API_KEY or --api-key.`,
		Version:       fmt.Sprintf("%s (built %s)", version, buildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.validate(cmd)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVarP(&o.output, "output", "o", formatJSON, "Output format (json|yaml)")
	flags.StringVar(&o.apiKey, "api-key", "", "API key (overrides OWM_API_KEY)")
	flags.BoolVar(&o.metrics, "metrics", false, "Print API call metrics to stderr after the command")

	for _, method := range []string{"get", "post", "put", "delete"} {
		root.AddCommand(newCallCmd(o, method))
	}
	root.AddCommand(newStationsCmd(o))

	return root
}

// SetVersion sets the version info
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

func (o *options) validate(cmd *cobra.Command) error {
	o.output = strings.ToLower(strings.TrimSpace(o.output))
	if o.output != formatJSON && o.output != formatYAML {
		return fmt.Errorf("unsupported output format %q (want json or yaml)", o.output)
	}
	if o.cfg == nil {
		return fmt.Errorf("config must not be nil")
	}
	if cmd.Flags().Changed("api-key") {
		o.cfg.APIKey = strings.TrimSpace(o.apiKey)
	}
	return nil
}

// withApp builds the runtime, runs fn and releases the runtime again.
func (o *options) withApp(cmd *cobra.Command, fn func(a *app.App) error) (err error) {
	if o.build == nil {
		return fmt.Errorf("no application builder configured")
	}
	a, err := o.build(o.cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer func() {
		if o.metrics {
			if merr := writeMetrics(cmd.ErrOrStderr(), a.Metrics()); merr != nil && err == nil {
				err = merr
			}
		}
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}
