// Command transcribe drives the transcription service from the shell.
//
//	transcribe start -name job1 -uri s3://bucket/a.mp3 -format mp3
//	transcribe wait -name job1
//	transcribe transcript -name job1 -text
//
// Configuration is read from config.yml and .env in the usual locations,
// then from TRANSCRIBE_*, STORAGE_* and LOGGING_* environment variables,
// e.g. TRANSCRIBE_REGION, TRANSCRIBE_ENDPOINT, STORAGE_BUCKET.
// TRANSCRIBE_OTLP_ENDPOINT enables trace and metric export.
package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/kbukum/transcribe/bootstrap"
	"github.com/kbukum/transcribe/config"
	"github.com/kbukum/transcribe/errors"
	"github.com/kbukum/transcribe/logger"
	"github.com/kbukum/transcribe/observability"
	"github.com/kbukum/transcribe/storage"
	"github.com/kbukum/transcribe/transcribe"
	"github.com/kbukum/transcribe/version"

	_ "github.com/kbukum/transcribe/storage/local"
	_ "github.com/kbukum/transcribe/storage/s3"
)

const serviceName = "transcribe"

// AppConfig is the command's configuration file layout.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Transcribe           transcribe.Config `yaml:"transcribe" mapstructure:"transcribe"`
	Storage              storage.Config    `yaml:"storage" mapstructure:"storage"`
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// app is what a subcommand gets to work with.
type app struct {
	cfg    *AppConfig
	log    *logger.Logger
	client *transcribe.Client
	store  storage.Storage
	out    io.Writer
	errOut io.Writer
}

type command struct {
	usage        string
	needsStorage bool
	run          func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"start":      {usage: "start a transcription job", run: runStart},
	"get":        {usage: "show one job", run: runGet},
	"list":       {usage: "list jobs in a status, following every page", run: runList},
	"wait":       {usage: "poll a job until it completes or fails", run: runWait},
	"upload":     {usage: "upload local media to storage, optionally starting a job", needsStorage: true, run: runUpload},
	"transcript": {usage: "download the transcript of a completed job", run: runTranscript},
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "version", "-version", "--version":
		fmt.Fprintln(stdout, version.GetFullVersion())
		return 0
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return 0
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	cfg := &AppConfig{}
	if err := config.LoadConfig(serviceName, cfg, config.WithEnvPrefix("TRANSCRIBE", "STORAGE", "LOGGING")); err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	if cmd.needsStorage {
		cfg.Storage.Enabled = true
	}
	boot, err := bootstrap.NewApp(cfg, bootstrap.WithLogWriter(stderr), bootstrap.WithSignalHandling())
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	a := &app{cfg: cfg, log: boot.Logger, out: stdout, errOut: stderr}
	if err := a.wire(ctx, boot, cmd); err != nil {
		return a.report(err)
	}
	if err := boot.RunTask(ctx, func(ctx context.Context) error {
		return cmd.run(ctx, a, args[1:])
	}); err != nil {
		return a.report(err)
	}
	return 0
}

// wire registers the components cmd needs and, once they are started,
// hands their handles to a.
func (a *app) wire(ctx context.Context, boot *bootstrap.App[*AppConfig], cmd command) error {
	if endpoint := os.Getenv("TRANSCRIBE_OTLP_ENDPOINT"); endpoint != "" {
		a.initTelemetry(ctx, boot, endpoint)
	}
	metrics, err := observability.NewMetrics(observability.Meter(a.cfg.Name))
	if err != nil {
		return err
	}

	client := transcribe.NewComponent(a.cfg.Transcribe, transcribe.WithLogger(a.log), transcribe.WithMetrics(metrics))
	if err := boot.RegisterComponent(client); err != nil {
		return err
	}
	var store *storage.Component
	if cmd.needsStorage {
		store = storage.NewComponent(a.cfg.Storage, a.log)
		if err := boot.RegisterComponent(store); err != nil {
			return err
		}
	}
	boot.OnStart(func(ctx context.Context) error {
		a.client = client.Client()
		if store != nil {
			a.store = store.Storage()
		}
		return nil
	})
	return nil
}

// initTelemetry installs the OTLP trace and metric exporters. Both flush
// on shutdown. A failure disables only the exporter concerned.
func (a *app) initTelemetry(ctx context.Context, boot *bootstrap.App[*AppConfig], endpoint string) {
	insecure := os.Getenv("TRANSCRIBE_OTLP_INSECURE") == "true"

	tc := observability.DefaultTracerConfig(a.cfg.Name)
	tc.Endpoint = endpoint
	tc.Environment = a.cfg.Environment
	tc.ServiceVersion = version.GetShortVersion()
	tc.Insecure = insecure
	if tp, err := observability.InitTracer(ctx, tc); err != nil {
		a.log.Warn("tracing disabled", logger.ErrorFields("init_tracer", err))
	} else {
		boot.OnStop(func(ctx context.Context) error { return tp.Shutdown(ctx) })
	}

	mc := observability.DefaultMeterConfig(a.cfg.Name)
	mc.Endpoint = endpoint
	mc.Environment = a.cfg.Environment
	mc.ServiceVersion = version.GetShortVersion()
	mc.Insecure = insecure
	if mp, err := observability.InitMeter(ctx, mc); err != nil {
		a.log.Warn("metrics disabled", logger.ErrorFields("init_meter", err))
	} else {
		boot.OnStop(func(ctx context.Context) error { return mp.Shutdown(ctx) })
	}
}

// ApplyDefaults names the service when the config leaves it blank.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
}

// report prints err to stderr and returns the exit code.
func (a *app) report(err error) int {
	if stderrors.Is(err, flag.ErrHelp) {
		return 0
	}
	if appErr, ok := errors.AsAppError(err); ok {
		fields := logger.Fields(logger.FieldErrorCode, string(appErr.Code))
		if appErr.RequestID != "" {
			fields[logger.FieldRequestID] = appErr.RequestID
		}
		a.log.Debug("command failed", fields)
		_ = writeJSON(a.errOut, map[string]any{"error": appErr})
		return 1
	}
	fmt.Fprintf(a.errOut, "error: %v\n", err)
	return 1
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s <command> [flags]\n\ncommands:\n", serviceName)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-11s %s\n", name, commands[name].usage)
	}
	fmt.Fprintf(w, "  %-11s %s\n", "version", "print the build version")
	fmt.Fprintf(w, "\nrun '%s <command> -h' for command flags\n", serviceName)
}
