// ABOUTME: "list" subcommand: shows the effective hook configuration
// ABOUTME: Renders grouped, width-truncated rows with lipgloss, or JSON with --json

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mauromedda/pi-hooks/internal/config"
	"github.com/mauromedda/pi-hooks/internal/hooks"
)

const (
	defaultListWidth = 100
	matcherColumn    = 16
	kindColumn       = 8
)

var (
	sourceStyle  = lipgloss.NewStyle().Faint(true)
	eventStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	blockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	matcherStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	flagStyle    = lipgloss.NewStyle().Faint(true)
)

func newListCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the hooks that apply to this project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := opts.projectRoot()
			if err != nil {
				return err
			}
			settings := config.LoadHooks(root, config.HomeDir())
			entries := hooks.NewConfig(settings.Hooks).Entries()

			w := cmd.OutOrStdout()
			if asJSON {
				if entries == nil {
					entries = []hooks.Entry{}
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Source string        `json:"source,omitempty"`
					Hooks  []hooks.Entry `json:"hooks"`
				}{settings.Source, entries})
			}
			renderList(w, settings.Source, entries, outputWidth(w))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the hooks as JSON")
	return cmd
}

// outputWidth is the terminal width of w, or defaultListWidth when w is not
// a terminal.
func outputWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultListWidth
}

func renderList(w io.Writer, source string, entries []hooks.Entry, width int) {
	if source == "" {
		fmt.Fprintln(w, "No hook configuration found.")
		return
	}
	fmt.Fprintln(w, sourceStyle.Render("Source: "+source))
	if len(entries) == 0 {
		fmt.Fprintln(w, "No hooks configured.")
		return
	}

	var current hooks.EventName
	for _, e := range entries {
		if e.Event != current {
			current = e.Event
			header := eventStyle.Render(string(e.Event))
			if e.Event.Blockable() {
				header += " " + blockStyle.Render("(can block)")
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, header)
		}
		fmt.Fprintln(w, formatEntry(e, width))
	}
}

// formatEntry renders one handler row, truncating the target so the row
// fits in width columns.
func formatEntry(e hooks.Entry, width int) string {
	matcher := e.Matcher
	if matcher == "" {
		matcher = "*"
	}
	matcher = runewidth.FillRight(runewidth.Truncate(matcher, matcherColumn, "…"), matcherColumn)
	kind := runewidth.FillRight(e.Type, kindColumn)

	var flags []string
	if e.Async {
		flags = append(flags, "async")
	}
	if e.Model != "" {
		flags = append(flags, "model="+e.Model)
	}
	flags = append(flags, fmt.Sprintf("%gs", e.Timeout))
	suffix := "  " + strings.Join(flags, " ")

	const indent = "  "
	fixed := runewidth.StringWidth(indent) + matcherColumn + 1 + kindColumn + 1 + runewidth.StringWidth(suffix)
	room := max(width-fixed, 10)
	target := runewidth.Truncate(singleLine(e.Target), room, "…")

	return indent + matcherStyle.Render(matcher) + " " + kind + " " + target + flagStyle.Render(suffix)
}

// singleLine collapses whitespace runs, including newlines in prompts.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
