package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/collector"
	"github.com/abdul-hamid-achik/cukefmt/packages/core/config"
	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
	"github.com/abdul-hamid-achik/cukefmt/packages/core/support"
	"github.com/abdul-hamid-achik/cukefmt/packages/formatter"
	"github.com/abdul-hamid-achik/cukefmt/packages/formatter/builder"
	"github.com/abdul-hamid-achik/cukefmt/packages/formatter/snippet"
	"github.com/abdul-hamid-achik/cukefmt/packages/plugin"
	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var formatCmd = &cobra.Command{
	Use:   "format <messages.ndjson|->",
	Short: "Replay a message stream through formatters",
	Long: `Replay a recorded Cucumber message stream (NDJSON, one envelope per
line) through one or more formatters. Use - to read the stream from stdin.

Examples:
  cukefmt format run.ndjson
  cukefmt format run.ndjson -f summary -f json:reports/cucumber.json
  cukefmt format run.ndjson -f ./formatters/custom.so:out.txt
  cukefmt format - -f snippets --snippet-interface async-await < run.ndjson
  cukefmt format run.ndjson -f progress --watch`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: formatCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	formatFlags          []string
	formatOptionsFlag    string
	configFlag           string
	noColorFlag          bool
	snippetInterfaceFlag string
	snippetSyntaxFlag    string
	cwdFlag              string
	watchFlag            bool
)

func init() {
	formatCmd.Flags().StringArrayVarP(&formatFlags, "format", "f", nil, "Formatter as type[:file], repeatable (default: progress)")
	formatCmd.Flags().StringVar(&formatOptionsFlag, "format-options", getEnvString("CUKEFMT_FORMAT_OPTIONS", ""), "Formatter options as JSON (env: CUKEFMT_FORMAT_OPTIONS)")
	formatCmd.Flags().StringVar(&configFlag, "config", getEnvString("CUKEFMT_CONFIG", ""), "Path to config file (env: CUKEFMT_CONFIG)")
	formatCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("CUKEFMT_NO_COLOR", false), "Disable colored output (env: CUKEFMT_NO_COLOR)")
	formatCmd.Flags().StringVar(&snippetInterfaceFlag, "snippet-interface", getEnvString("CUKEFMT_SNIPPET_INTERFACE", ""), "Snippet interface: synchronous, callback, promise, async-await, generator (env: CUKEFMT_SNIPPET_INTERFACE)")
	formatCmd.Flags().StringVar(&snippetSyntaxFlag, "snippet-syntax", getEnvString("CUKEFMT_SNIPPET_SYNTAX", ""), "Custom snippet syntax module (env: CUKEFMT_SNIPPET_SYNTAX)")
	formatCmd.Flags().StringVar(&cwdFlag, "cwd", getEnvString("CUKEFMT_CWD", ""), "Directory custom formatters and output files are resolved against (env: CUKEFMT_CWD)")
	formatCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the message file and replay on change")
}

// formatSettings is the resolved configuration of a format run
type formatSettings struct {
	Formats []config.Format
	Cwd     string
	Options formatter.FormatOptions
}

func formatCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}

	level := logLevelFlag
	if level == "" {
		level = cfg.LogLevel
	}
	logger, err := newLogger(level)
	if err != nil {
		return err
	}

	settings, err := resolveSettings(cfg)
	if err != nil {
		return err
	}
	logger.Debug("resolved settings", "formats", len(settings.Formats), "cwd", settings.Cwd)

	r := &replayer{
		builder: builder.New(builder.WithLogger(logger)),
		logger:  logger,
		stdout:  cmd.OutOrStdout(),
		stderr:  cmd.ErrOrStderr(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchFlag && args[0] == "-" {
		return &exitError{code: ExitUsageError, err: errors.New("--watch needs a message file, not stdin")}
	}

	passed, err := r.replayFile(ctx, settings, args[0], cmd.InOrStdin())
	if !watchFlag {
		if err != nil {
			return err
		}
		if !passed {
			return &exitError{code: ExitRunFailure}
		}
		return nil
	}

	if err != nil {
		logger.Error("replay failed", "err", err)
	}
	return r.watch(ctx, settings, args[0])
}

// resolveSettings applies the command line on top of cfg
func resolveSettings(cfg *config.Config) (*formatSettings, error) {
	override := &config.Config{Formats: formatFlags, Cwd: cwdFlag}
	if noColorFlag {
		override.NoColor = config.BoolPtr(true)
	}
	if formatOptionsFlag != "" {
		var options map[string]any
		if err := json.Unmarshal([]byte(formatOptionsFlag), &options); err != nil {
			return nil, &exitError{code: ExitConfigError, err: fmt.Errorf("invalid --format-options: %w", err)}
		}
		override.FormatOptions = options
	}
	merged := cfg.Merge(override)

	opts, err := merged.ParsedFormatOptions()
	if err != nil {
		return nil, &exitError{code: ExitConfigError, err: err}
	}
	if _, set := merged.FormatOptions["colorsEnabled"]; !set {
		opts.ColorsEnabled = !color.NoColor
	}
	if merged.GetNoColor() {
		opts.ColorsEnabled = false
	}
	if snippetInterfaceFlag != "" {
		iface, err := snippet.ParseInterface(snippetInterfaceFlag)
		if err != nil {
			return nil, &exitError{code: ExitUsageError, err: err}
		}
		opts.SnippetInterface = iface
	}
	if snippetSyntaxFlag != "" {
		opts.SnippetSyntax = snippetSyntaxFlag
	}

	cwd := merged.Cwd
	if cwd == "" {
		cwd, err = os.Getwd()
		if err != nil {
			return nil, &exitError{code: ExitConfigError, err: err}
		}
	}
	cwd, err = filepath.Abs(cwd)
	if err != nil {
		return nil, &exitError{code: ExitConfigError, err: err}
	}

	values := merged.Formats
	if len(values) == 0 {
		values = []string{config.DefaultFormat}
	}
	formats := make([]config.Format, 0, len(values))
	for _, v := range values {
		f, err := config.ParseFormat(v)
		if err != nil {
			return nil, &exitError{code: ExitUsageError, err: err}
		}
		formats = append(formats, f)
	}

	return &formatSettings{Formats: formats, Cwd: cwd, Options: opts}, nil
}

// replayer drives recorded runs through freshly built formatters. The
// builder is kept across replays so loaded modules are reused.
type replayer struct {
	builder *builder.Builder
	logger  *slog.Logger
	stdout  io.Writer
	stderr  io.Writer
}

func (r *replayer) replayFile(ctx context.Context, settings *formatSettings, path string, stdin io.Reader) (bool, error) {
	envs, lib, err := readMessages(path, stdin)
	if err != nil {
		return false, &exitError{code: ExitParseError, err: err}
	}
	return r.replay(ctx, settings, envs, lib)
}

// readMessages decodes a message stream and the support code it declares
func readMessages(path string, stdin io.Reader) ([]*events.Envelope, *support.Library, error) {
	in := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		in = f
	}

	envs, err := events.DecodeAll(in)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	lib, err := support.FromEnvelopes(envs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return envs, lib, nil
}

// replay builds every formatter, emits the stream and finishes them. It
// reports whether the recorded run succeeded.
func (r *replayer) replay(ctx context.Context, settings *formatSettings, envs []*events.Envelope, lib *support.Library) (bool, error) {
	bus := events.NewBroadcaster()
	coll := collector.New(bus)
	defer coll.Close()

	var built []formatter.Formatter
	finish := func() error {
		var errs []error
		for _, f := range built {
			if err := f.Finished(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	for _, format := range settings.Formats {
		stream, cleanup, err := openTarget(settings.Cwd, format.Target, r.stdout)
		if err != nil {
			_ = finish()
			return false, &exitError{code: ExitBuildError, err: err}
		}

		f, err := r.builder.Build(ctx, format.Type, formatter.BuildOptions{
			Cwd:                settings.Cwd,
			EventBroadcaster:   bus,
			EventDataCollector: coll,
			Log: func(s string) {
				fmt.Fprint(r.stderr, s)
			},
			ParsedOptions:      settings.Options,
			Stream:             stream,
			Cleanup:            cleanup,
			SupportCodeLibrary: lib,
		})
		if err != nil {
			if cleanup != nil {
				_ = cleanup()
			}
			_ = finish()
			r.logger.Debug("formatter build failed", "type", format.Type, "err", err)
			return false, &exitError{code: ExitBuildError, err: err}
		}
		built = append(built, f)
	}

	for _, env := range envs {
		bus.Emit(env)
	}

	if err := finish(); err != nil {
		return false, &exitError{code: ExitBuildError, err: err}
	}
	result := coll.Result()
	return result.Finished && result.Success, nil
}

// openTarget returns the stream for a format target. Relative paths are
// resolved against cwd; an empty target is stdout.
func openTarget(cwd, target string, stdout io.Writer) (io.Writer, formatter.CleanupFunc, error) {
	if target == "" {
		return stdout, nil, nil
	}

	path, ok := plugin.PathFromRef(target)
	if !ok {
		path = filepath.Join(cwd, target)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("cannot create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create output file: %w", err)
	}
	return f, f.Close, nil
}

// watch replays path whenever it is written until ctx is done
func (r *replayer) watch(ctx context.Context, settings *formatSettings, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// editors replace files, so watch the directory
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	fmt.Fprintf(r.stdout, "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	var debounceTimer *time.Timer
	rerun := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			// Debounce: reset timer on each event
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case <-rerun:
			fmt.Fprintf(r.stdout, "\n\nFile changed: %s\nReplaying...\n\n", path)
			if _, err := r.replayFile(ctx, settings, abs, nil); err != nil {
				r.logger.Error("replay failed", "err", err)
			}
			fmt.Fprintf(r.stdout, "\nWatching for changes... (press Ctrl+C to stop)\n")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watcher error", "err", err)
		}
	}
}
