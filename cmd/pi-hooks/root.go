// ABOUTME: Root cobra command, global flags, and session setup shared by subcommands
// ABOUTME: Resolves the project root, installs telemetry, and opens the dispatcher

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mauromedda/pi-hooks/internal/config"
	"github.com/mauromedda/pi-hooks/internal/eventbus"
	"github.com/mauromedda/pi-hooks/internal/hooks"
	pilog "github.com/mauromedda/pi-hooks/internal/log"
	"github.com/mauromedda/pi-hooks/internal/telemetry"
)

type globalOptions struct {
	cwd     string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "pi-hooks",
		Short: "Lifecycle hook dispatcher for pi-go sessions",
		Long: `pi-hooks runs user-configured hooks when the agent runtime emits lifecycle
events. Hooks are shell commands or sub-agents; on tool_call and input they
may block the action.

Configuration is read from the first file found among:
  .pi-go/hooks.yaml, .pi-go/settings.local.json, .pi-go/settings.json,
  .claude/settings.local.json, .claude/settings.json
in the project, then ~/.pi-go/hooks.yaml, ~/.pi-go/settings.json and
~/.claude/settings.json.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if opts.verbose {
				pilog.SetLevel(pilog.LevelDebug)
			} else {
				pilog.SetLevel(pilog.LevelWarn)
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.cwd, "cwd", "", "project directory (default: current directory)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging on stderr")

	root.AddCommand(
		newRunCmd(opts),
		newServeCmd(opts),
		newListCmd(opts),
		newValidateCmd(opts),
	)
	return root
}

// projectRoot returns the absolute project directory.
func (o *globalOptions) projectRoot() (string, error) {
	if o.cwd == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		return cwd, nil
	}
	abs, err := filepath.Abs(o.cwd)
	if err != nil {
		return "", fmt.Errorf("resolving --cwd: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project directory %s is not a directory", abs)
	}
	return abs, nil
}

// session bundles what a subcommand needs to dispatch events.
type session struct {
	dispatcher *hooks.Dispatcher
	settings   *config.HookSettings
	shutdown   func(context.Context) error
}

// openSession installs the metrics exporter, when configured, before the
// dispatcher binds its instruments.
func openSession(ctx context.Context, opts *globalOptions, status *eventbus.Bus[hooks.StatusEvent]) (*session, error) {
	root, err := opts.projectRoot()
	if err != nil {
		return nil, err
	}

	shutdown, err := telemetry.Setup(ctx, telemetry.LoadExporterConfig(), version)
	if err != nil {
		return nil, fmt.Errorf("setting up telemetry: %w", err)
	}

	d, settings := hooks.Open(root, config.HomeDir(), hooks.Options{Status: status})
	if settings.Source != "" {
		pilog.Debug("hooks loaded from %s", settings.Source)
	}
	return &session{dispatcher: d, settings: settings, shutdown: shutdown}, nil
}

// close stops detached handlers and flushes pending metrics.
func (s *session) close() {
	s.dispatcher.Close()
	if err := s.shutdown(context.Background()); err != nil {
		pilog.Warn("telemetry shutdown: %v", err)
	}
}
