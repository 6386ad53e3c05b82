package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kexlie/bobble/internal/message"
)

func newTapCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "tap <id>",
		Short: "Interact with a bubble",
		Long: `Taps a bubble, as the overlay would on a click. Paste and quick-action
bubbles are consumed: their text is printed to stdout and written back to the
system clipboard. The tool panel toggles minimized. Ids may be abbreviated to
any unique prefix from "bobble list".`,
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, args []string) error { return runTap(v, args[0]) },
	}

	addClientFlags(cmd)
	return cmd
}

func runTap(v *viper.Viper, id string) error {
	resp, err := request(v, &message.Message{Type: message.TypeTap, ID: id})
	if err != nil {
		return err
	}

	if text := resp.Text(); text != "" {
		_, err = os.Stdout.WriteString(text)
		return err
	}
	fmt.Printf("effect: %s\n", resp.Effect)
	return nil
}
