package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"graylogsync/internal/core/ports"
	"graylogsync/internal/core/services"
	"graylogsync/internal/infrastructure/directory"
	"graylogsync/internal/infrastructure/graylog"
	"graylogsync/internal/infrastructure/monitoring"
	"graylogsync/pkg/config"
	"graylogsync/pkg/logger"
	"graylogsync/pkg/tracing"
	"graylogsync/pkg/utils"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const checkTimeout = 15 * time.Second

type options struct {
	verbose       bool
	level         string
	levelSet      bool
	settingsPath  string
	policyPath    string
	dryRun        bool
	verifyStreams bool
	check         bool
	metricsFile   string
	showVersion   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	flagSet := pflag.NewFlagSet("graylogsync", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "print a per-user report of permission changes")
	flagSet.StringVarP(&opts.level, "level", "l", logger.DefaultLevel, "log level (DEBUG, INFO, WARNING, ERROR, CRITICAL)")
	flagSet.StringVarP(&opts.settingsPath, "config", "c", "settings.ini", "path to the settings file")
	flagSet.StringVarP(&opts.policyPath, "policy", "p", "policy.yaml", "path to the policy file")
	flagSet.BoolVarP(&opts.dryRun, "dry-run", "n", false, "compute changes without applying them")
	flagSet.BoolVar(&opts.verifyStreams, "verify-streams", false, "warn about policy streams unknown to Graylog")
	flagSet.BoolVar(&opts.check, "check", false, "check directory and Graylog connectivity, then exit")
	flagSet.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	if err := flagSet.Parse(args); err != nil {
		return options{}, err
	}
	if flagSet.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", flagSet.Args())
	}
	opts.levelSet = flagSet.Changed("level")
	return opts, nil
}

// logLevel picks the level from the flag, then the settings file and
// environment, then the default.
func logLevel(opts options, settings *config.Settings) string {
	if opts.levelSet {
		return opts.level
	}
	if settings.Logging.Level != "" {
		return settings.Logging.Level
	}
	return logger.DefaultLevel
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "graylogsync %s\n", version)
		return 0
	}
	if _, err := logger.ParseLevel(opts.level); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	settings, err := config.LoadSettings(opts.settingsPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	zapLogger := logger.New(logLevel(opts, settings))
	defer zapLogger.Sync()
	log := zapLogger.Sugar()

	policy, err := config.LoadPolicy(opts.policyPath)
	if err != nil {
		log.Errorw("failed to load policy", "path", opts.policyPath, "error", err)
		return 1
	}

	tracingConfig := tracing.DefaultConfig()
	tracingConfig.Enabled = settings.Tracing.Enabled
	tracingConfig.JaegerURL = settings.Tracing.JaegerURL
	tracingConfig.Environment = settings.Tracing.Environment
	tracingConfig.SampleRate = settings.Tracing.SampleRate
	tracingConfig.Version = version

	tracerProvider, err := tracing.Init(tracingConfig)
	if err != nil {
		log.Errorw("failed to initialize tracing", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warnw("failed to flush traces", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	directoryClient := directory.NewClient(directory.Config{
		ServerURI:    policy.Script.ServerURI,
		BindDN:       policy.Script.BindDN,
		BindPassword: policy.Script.BindPassword,
		SearchBaseDN: policy.Script.SearchBaseDN,
		GroupCN:      policy.Script.GroupCN,
		Attributes:   policy.Script.Attributes,
	}, nil, log.Named("directory"))

	platformClient, err := graylog.NewClient(graylog.Config{
		BaseURL:           settings.Graylog.APIURL,
		Token:             settings.Graylog.APIToken,
		Timeout:           settings.Graylog.Timeout,
		RequestsPerSecond: settings.Graylog.RequestsPerSecond,
		Logger:            log.Named("graylog"),
	})
	if err != nil {
		log.Errorw("failed to create Graylog client", "error", err)
		return 1
	}

	log.Debugw("using Graylog API",
		"url", settings.Graylog.APIURL,
		"token", utils.MaskSensitive(settings.Graylog.APIToken, 4),
		"directory", policy.Script.ServerURI,
	)

	if opts.check {
		return runCheck(ctx, directoryClient, platformClient, stdout)
	}

	var reporter *services.ConsoleReporter
	if opts.verbose {
		reporter = services.NewConsoleReporter(stdout)
	}
	collector := monitoring.NewSyncCollector()

	reconciler := services.NewReconciler(
		directoryClient,
		platformClient,
		&policy.Policy,
		reporterOrNil(reporter),
		collector,
		log,
		services.ReconcilerOptions{DryRun: opts.dryRun, VerifyStreams: opts.verifyStreams},
	)

	summary, runErr := reconciler.Run(ctx)
	if reporter != nil && summary != nil {
		reporter.WriteSummary(summary)
	}

	metricsFile := opts.metricsFile
	if metricsFile == "" {
		metricsFile = settings.Metrics.Textfile
	}
	if metricsFile != "" {
		if err := collector.WriteTextfile(metricsFile); err != nil {
			log.Warnw("failed to write metrics textfile", "path", metricsFile, "error", err)
		}
	}

	if runErr != nil {
		log.Errorw("reconciliation failed", "error", runErr)
		return 1
	}
	return 0
}

// reporterOrNil keeps a nil *ConsoleReporter from becoming a non-nil interface.
func reporterOrNil(reporter *services.ConsoleReporter) ports.Reporter {
	if reporter == nil {
		return nil
	}
	return reporter
}

func runCheck(ctx context.Context, directoryClient *directory.Client, platformClient *graylog.Client, stdout io.Writer) int {
	checker := monitoring.NewHealthChecker()
	checker.AddDirectoryCheck(directoryClient, checkTimeout)
	checker.AddPlatformCheck(platformClient, checkTimeout)

	status := checker.CheckAll(ctx)
	for _, result := range status.Checks {
		fmt.Fprintf(stdout, "%s: %s\n", result.Name, result.Status)
	}
	if !status.Healthy() {
		return 1
	}
	return 0
}
