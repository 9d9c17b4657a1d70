package main

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/neurostream/protocolengine/internal/adapters/catalog"
	"github.com/neurostream/protocolengine/internal/application/services"
	"github.com/neurostream/protocolengine/internal/infrastructure/observability"
	"github.com/neurostream/protocolengine/pkg/config"
)

// app holds what the subcommands share once the root command has run
type app struct {
	cfg      *config.Config
	stack    *catalog.Stack
	metrics  *observability.Metrics
	resolver *services.SymptomResolver
}

type rootOptions struct {
	apiURL  string
	timeout time.Duration
	verbose bool
	style   string
	asJSON  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	root := &cobra.Command{
		Use:   "protocolctl",
		Short: "Explore TMS protocol recommendations and comparisons",
		Long: `protocolctl recommends TMS protocols for a diagnosis and its symptoms,
and compares up to four protocols side by side.

The protocol data comes from PROTOCOL_API_URL, or from built-in mock data
when it is not set.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context(), cmd, opts)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.stack != nil {
				return a.stack.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "Protocol API base URL (overrides PROTOCOL_API_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "Protocol API request timeout (overrides PROTOCOL_API_TIMEOUT)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&opts.style, "style", "", "Markdown style for narratives (dark, light, notty; default: auto)")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print JSON instead of tables")

	root.AddCommand(newOptionsCmd(a, opts))
	root.AddCommand(newSymptomsCmd(a, opts))
	root.AddCommand(newProtocolsCmd(a, opts))
	root.AddCommand(newRecommendCmd(a, opts))
	root.AddCommand(newCompareCmd(a, opts))
	return root
}

func (a *app) init(ctx context.Context, cmd *cobra.Command, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.apiURL != "" {
		cfg.ProtocolAPI.URL = opts.apiURL
	}
	if opts.timeout > 0 {
		cfg.ProtocolAPI.Timeout = opts.timeout
	}

	env := "production"
	if opts.verbose {
		env = "development"
	}
	observability.InitLoggerWithWriter(cfg.OTEL.ServiceName+"-cli", env, cmd.ErrOrStderr())
	if opts.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return err
	}

	stack, err := catalog.NewStack(ctx, cfg, metrics, false)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.stack = stack
	a.metrics = metrics
	a.resolver = services.NewSymptomResolver(services.DefaultReferenceData())
	return nil
}

func (a *app) ready() error {
	if a.stack == nil {
		return errors.New("protocol API not initialized")
	}
	return nil
}
