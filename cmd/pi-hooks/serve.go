// ABOUTME: "serve" subcommand: JSONL hook protocol for a host runtime on stdin/stdout
// ABOUTME: Streams handler status notifications alongside responses

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mauromedda/pi-hooks/internal/eventbus"
	"github.com/mauromedda/pi-hooks/internal/hooks"
	pilog "github.com/mauromedda/pi-hooks/internal/log"
	"github.com/mauromedda/pi-hooks/internal/mode/rpc"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSONL hook protocol on stdin/stdout",
		Long: `Reads one JSON request per line from stdin and writes one response per line
to stdout. Methods: run_hooks, flush, list_hooks, get_status, cancel.

run_hooks, flush and list_hooks are answered in order; get_status and cancel
are answered immediately, and cancel aborts the run_hooks in progress.
Handler progress is streamed as hook_status notifications (no "id").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			bus := eventbus.New[hooks.StatusEvent]()
			s, err := openSession(ctx, opts, bus)
			if err != nil {
				return err
			}
			defer s.close()

			router := rpc.NewRouter()
			rpc.RegisterHandlers(router, rpc.NewService(s.dispatcher, s.settings.Source))
			srv := rpc.NewServer(router)

			unsubscribe := bus.Subscribe(func(e hooks.StatusEvent) {
				srv.Notify(rpc.NotifyHookStatus, e)
			})
			defer unsubscribe()

			pilog.Debug("serving %d hook event(s)", len(s.dispatcher.Config()))
			return srv.Run(ctx)
		},
	}
}
