package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.uber.org/fx"

	"github.com/mojo-labs/mojo/libs/utils"
	"github.com/mojo-labs/mojo/logs"
	"github.com/mojo-labs/mojo/nodebuilder"
)

var (
	logLevelFlag        = "log.level"
	logLevelModuleFlag  = "log.level.module"
	pprofFlag           = "pprof"
	pprofAddrFlag       = "pprof.addr"
	tracingFlag         = "tracing"
	tracingEndpointFlag = "tracing.endpoint"
	tracingTLSFlag      = "tracing.tls"
	metricsFlag         = "metrics"
	metricsEndpointFlag = "metrics.endpoint"
	metricsTLSFlag      = "metrics.tls"
)

const serviceName = "mojo"

// MiscFlags gives a set of hardcoded miscellaneous flags.
func MiscFlags() *flag.FlagSet {
	flags := &flag.FlagSet{}

	flags.String(logLevelFlag, "INFO", "DEBUG, INFO, WARN, ERROR, DPANIC, PANIC, FATAL\nand their lower-case forms")
	flags.StringSlice(logLevelModuleFlag, nil, "<module>:<level>, e.g. state:debug")

	flags.Bool(pprofFlag, false, "Enables standard profiling handler (pprof)")
	flags.String(pprofAddrFlag, "localhost:6000", "Address the pprof handler listens on. Depends on '--pprof'")

	flags.Bool(tracingFlag, false, "Enables OTLP tracing with HTTP exporter")
	flags.String(tracingEndpointFlag, "localhost:4318",
		"Sets HTTP endpoint for OTLP traces to be exported to. Depends on '--tracing'")
	flags.Bool(tracingTLSFlag, true, "Enable TLS connection to OTLP tracing backend")

	flags.Bool(metricsFlag, false, "Enables OTLP metrics with HTTP exporter")
	flags.String(metricsEndpointFlag, "localhost:4318",
		"Sets HTTP endpoint for OTLP metrics to be exported to. Depends on '--metrics'")
	flags.Bool(metricsTLSFlag, true, "Enable TLS connection to OTLP metric backend")

	return flags
}

// ParseMiscFlags parses miscellaneous flags from the given cmd and applies values to Env.
func ParseMiscFlags(ctx context.Context, cmd *cobra.Command) (context.Context, error) {
	if err := parseLogFlags(cmd); err != nil {
		return ctx, err
	}

	if enabled(cmd, pprofFlag) {
		servePprof(cmd.Flag(pprofAddrFlag).Value.String())
	}

	if enabled(cmd, tracingFlag) {
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(cmd.Flag(tracingEndpointFlag).Value.String()),
		}
		if !enabled(cmd, tracingTLSFlag) {
			opts = append(opts, otlptracehttp.WithInsecure())
		}

		tp, err := utils.NewTracerProvider(cmd.Context(), utils.TelemetryConfig{
			ServiceNamespace: NodeConfig(ctx).Core.Network,
			ServiceName:      serviceName,
		}, opts...)
		if err != nil {
			return ctx, err
		}
		otel.SetTracerProvider(tp)
		ctx = WithNodeOptions(ctx, fx.Invoke(func(lc fx.Lifecycle) {
			lc.Append(fx.Hook{OnStop: tp.Shutdown})
		}))
	}

	if enabled(cmd, metricsFlag) {
		opts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithEndpoint(cmd.Flag(metricsEndpointFlag).Value.String()),
		}
		if !enabled(cmd, metricsTLSFlag) {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		ctx = WithNodeOptions(ctx, nodebuilder.WithMetrics(opts))
	}

	return ctx, nil
}

func parseLogFlags(cmd *cobra.Command) error {
	if logLevel := cmd.Flag(logLevelFlag).Value.String(); logLevel != "" {
		level, err := logging.LevelFromString(logLevel)
		if err != nil {
			return fmt.Errorf("cmd: while parsing '%s': %w", logLevelFlag, err)
		}
		logs.SetAllLoggers(level)
	}

	logModules, err := cmd.Flags().GetStringSlice(logLevelModuleFlag)
	if err != nil {
		return err
	}
	for _, ll := range logModules {
		module, level, ok := strings.Cut(ll, ":")
		if !ok {
			return fmt.Errorf("cmd: %s arg must be in form <module>:<level>, e.g. state:debug", logLevelModuleFlag)
		}
		if err := logging.SetLogLevel(module, level); err != nil {
			return err
		}
	}
	return nil
}

// enabled reads a boolean flag registered by MiscFlags.
func enabled(cmd *cobra.Command, name string) bool {
	ok, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(err)
	}
	return ok
}

func servePprof(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Infow("serving pprof", "addr", addr)
		if err := srv.ListenAndServe(); err != nil {
			log.Errorw("pprof server stopped", "err", err)
		}
	}()
}
