// bobble: clipboard bubbles over your screen.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "bobble",
		Short: "Clipboard bubbles over your screen",
		Long: `bobble captures clipboard text into floating bubbles layered over other
applications. A daemon owns the bubble collection — per-class instance caps,
non-overlapping layout, keyboard-aware visibility, auto-hide expiry — and
stores every capture in a local (optionally encrypted) history.

Run "bobble serve" to start the daemon. The other sub-commands talk to it
over a local Unix socket:

  bobble cut            capture stdin (or the system clipboard) as a bubble
  bobble list           show live bubbles
  bobble tap <id>       interact with a bubble
  bobble history        query stored captures

Config file search order (first found wins):
  /etc/bobble/bobble.toml
  $HOME/.config/bobble/bobble.toml
  path supplied via --config

All flags can be set via BOBBLE_<FLAG> env vars or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newCutCmd(),
		newListCmd(),
		newTapCmd(),
		newMoveCmd(),
		newDismissCmd(),
		newKeyboardCmd(),
		newResizeCmd(),
		newModeCmd(),
		newHistoryCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("bobble %s\n", Version)
		},
	}
}
