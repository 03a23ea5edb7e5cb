// ABOUTME: "validate" subcommand: reports configuration problems without running hooks
// ABOUTME: Exits non-zero when any finding is an error; --watch re-checks on every edit

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mauromedda/pi-hooks/internal/config"
	"github.com/mauromedda/pi-hooks/internal/hooks"
)

func newValidateCmd(opts *globalOptions) *cobra.Command {
	var (
		watch    bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the hook configuration for mistakes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := opts.projectRoot()
			if err != nil {
				return err
			}
			home := config.HomeDir()
			w := cmd.OutOrStdout()

			if !watch {
				return validateOnce(w, root, home)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report := func() {
				if err := validateOnce(w, root, home); err != nil {
					fmt.Fprintf(w, "%v\n", err)
				}
			}
			report()
			config.NewWatcher(config.HookCandidates(root, home), interval).Run(ctx, func() {
				fmt.Fprintln(w)
				report()
			})
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-validate whenever a configuration file changes")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "polling interval for --watch")
	return cmd
}

// validateOnce loads the effective configuration and prints its findings.
func validateOnce(w io.Writer, root, home string) error {
	settings := config.LoadHooks(root, home)
	errs := 0
	for _, err := range settings.Skipped {
		fmt.Fprintf(w, "skipped: %v\n", err)
		errs++
	}
	if settings.Source == "" {
		fmt.Fprintln(w, "No hook configuration found.")
		if errs > 0 {
			return &exitError{code: 1, msg: fmt.Sprintf("%d malformed configuration file(s)", errs)}
		}
		return nil
	}
	fmt.Fprintf(w, "Checking %s\n", settings.Source)

	issues := hooks.Validate(settings.Hooks)
	for _, is := range issues {
		fmt.Fprintln(w, "  "+is.String())
		if is.Severity == hooks.SeverityError {
			errs++
		}
	}
	if len(issues) == 0 {
		fmt.Fprintln(w, "  no problems found")
	}
	if errs > 0 {
		return &exitError{code: 1, msg: fmt.Sprintf("%d error(s) in hook configuration", errs)}
	}
	return nil
}
